package store

import (
	"context"
	"time"

	"github.com/xraph/larder/alert"
	"github.com/xraph/larder/id"
	"github.com/xraph/larder/ingredient"
	"github.com/xraph/larder/journal"
	"github.com/xraph/larder/onboarding"
	"github.com/xraph/larder/purchaseorder"
	"github.com/xraph/larder/recipe"
	"github.com/xraph/larder/sale"
	"github.com/xraph/larder/supplier"
)

// Store is the unified storage interface for all Larder entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
type Store interface {
	// Ingredient methods
	CreateIngredient(ctx context.Context, ing *ingredient.Ingredient) error
	GetIngredient(ctx context.Context, ingredientID id.IngredientID) (*ingredient.Ingredient, error)
	ListIngredients(ctx context.Context, locationID string, opts ingredient.ListOpts) ([]*ingredient.Ingredient, error)
	UpdateIngredient(ctx context.Context, ing *ingredient.Ingredient) error
	DeleteIngredient(ctx context.Context, ingredientID id.IngredientID) error
	ApplyStockDelta(ctx context.Context, ingredientID id.IngredientID, delta float64) (ingredient.StockChange, error)

	// Recipe methods
	CreateRecipe(ctx context.Context, r *recipe.Recipe) error
	GetRecipe(ctx context.Context, recipeID id.RecipeID) (*recipe.Recipe, error)
	ListRecipes(ctx context.Context, locationID string, opts recipe.ListOpts) ([]*recipe.Recipe, error)
	UpdateRecipe(ctx context.Context, r *recipe.Recipe) error
	DeleteRecipe(ctx context.Context, recipeID id.RecipeID) error
	RecipesUsingIngredient(ctx context.Context, ingredientID id.IngredientID) ([]*recipe.Recipe, error)

	// Sale methods
	RecordSaleEvent(ctx context.Context, e *sale.Event) (bool, error)
	GetSaleEvent(ctx context.Context, eventID id.SaleEventID) (*sale.Event, error)
	QuerySales(ctx context.Context, locationID string, opts sale.QueryOpts) ([]*sale.Event, error)
	PurgeSales(ctx context.Context, before time.Time) (int64, error)

	// Journal methods
	AppendJournal(ctx context.Context, e *journal.Entry) error
	QueryJournal(ctx context.Context, ingredientID id.IngredientID, opts journal.QueryOpts) ([]*journal.Entry, error)

	// Alert cache methods
	GetCachedStatus(ctx context.Context, ingredientID id.IngredientID) (*alert.Status, error)
	SetCachedStatus(ctx context.Context, ingredientID id.IngredientID, status *alert.Status, ttl time.Duration) error
	InvalidateStatus(ctx context.Context, ingredientID id.IngredientID) error
	InvalidateAllStatuses(ctx context.Context, locationID string) error

	// Purchase order methods
	CreatePurchaseOrder(ctx context.Context, po *purchaseorder.PurchaseOrder) error
	GetPurchaseOrder(ctx context.Context, orderID id.PurchaseOrderID) (*purchaseorder.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, locationID string, opts purchaseorder.ListOpts) ([]*purchaseorder.PurchaseOrder, error)
	UpdatePurchaseOrder(ctx context.Context, po *purchaseorder.PurchaseOrder) error
	ListOpenPurchaseOrders(ctx context.Context, supplierID id.SupplierID) ([]*purchaseorder.PurchaseOrder, error)
	MarkOrderSubmitted(ctx context.Context, orderID id.PurchaseOrderID, submittedAt time.Time) error
	MarkOrderReceived(ctx context.Context, orderID id.PurchaseOrderID, receivedAt time.Time) error
	MarkOrderCanceled(ctx context.Context, orderID id.PurchaseOrderID, reason string) error

	// Supplier methods
	CreateSupplier(ctx context.Context, s *supplier.Supplier) error
	GetSupplier(ctx context.Context, supplierID id.SupplierID) (*supplier.Supplier, error)
	ListSuppliers(ctx context.Context, locationID string, opts supplier.ListOpts) ([]*supplier.Supplier, error)
	UpdateSupplier(ctx context.Context, s *supplier.Supplier) error
	DeleteSupplier(ctx context.Context, supplierID id.SupplierID) error

	// Onboarding methods
	CreateOnboarding(ctx context.Context, p *onboarding.Progress) error
	GetOnboarding(ctx context.Context, onboardingID id.OnboardingID) (*onboarding.Progress, error)
	GetOnboardingByLocation(ctx context.Context, locationID string) (*onboarding.Progress, error)
	UpdateOnboarding(ctx context.Context, p *onboarding.Progress) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
