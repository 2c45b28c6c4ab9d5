// Package plugin provides an extensible plugin system for Larder.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"
	"time"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Ingredient lifecycle hooks
// ──────────────────────────────────────────────────

// OnIngredientCreated is called when a new ingredient is created.
type OnIngredientCreated interface {
	Plugin
	OnIngredientCreated(ctx context.Context, ing interface{}) error
}

// OnIngredientUpdated is called when an ingredient is updated.
type OnIngredientUpdated interface {
	Plugin
	OnIngredientUpdated(ctx context.Context, oldIng, newIng interface{}) error
}

// OnStockAdjusted is called when stock changes for any reason, manual or
// sale-driven. The entry is the journal row recording the change.
type OnStockAdjusted interface {
	Plugin
	OnStockAdjusted(ctx context.Context, entry interface{}) error
}

// OnStockClamped is called when a depletion wanted more stock than was on
// hand and the write clamped at zero. The shrinkage signal.
type OnStockClamped interface {
	Plugin
	OnStockClamped(ctx context.Context, ingredientID string, wanted, available float64) error
}

// OnLowStock is called when a status check finds stock at or below the
// reorder point.
type OnLowStock interface {
	Plugin
	OnLowStock(ctx context.Context, status interface{}) error
}

// ──────────────────────────────────────────────────
// Recipe lifecycle hooks
// ──────────────────────────────────────────────────

// OnRecipeCreated is called when a new recipe is created.
type OnRecipeCreated interface {
	Plugin
	OnRecipeCreated(ctx context.Context, r interface{}) error
}

// OnRecipeUpdated is called when a recipe is updated.
type OnRecipeUpdated interface {
	Plugin
	OnRecipeUpdated(ctx context.Context, oldRecipe, newRecipe interface{}) error
}

// ──────────────────────────────────────────────────
// Sale hooks
// ──────────────────────────────────────────────────

// OnSaleRecorded is called when a sale event is accepted for processing.
type OnSaleRecorded interface {
	Plugin
	OnSaleRecorded(ctx context.Context, event interface{}) error
}

// OnSaleDepleted is called after a sale has been run through depletion,
// with the per-ingredient result.
type OnSaleDepleted interface {
	Plugin
	OnSaleDepleted(ctx context.Context, result interface{}) error
}

// OnSalesFlushed is called when buffered sale events are flushed by the
// background worker.
type OnSalesFlushed interface {
	Plugin
	OnSalesFlushed(ctx context.Context, count int, elapsed time.Duration) error
}

// ──────────────────────────────────────────────────
// Alert hooks
// ──────────────────────────────────────────────────

// OnStatusChecked is called when a stock status is computed.
type OnStatusChecked interface {
	Plugin
	OnStatusChecked(ctx context.Context, status interface{}) error
}

// ──────────────────────────────────────────────────
// Purchase order lifecycle hooks
// ──────────────────────────────────────────────────

// OnPurchaseOrderGenerated is called when a purchase order is generated.
type OnPurchaseOrderGenerated interface {
	Plugin
	OnPurchaseOrderGenerated(ctx context.Context, po interface{}) error
}

// OnPurchaseOrderSubmitted is called when a purchase order is submitted.
type OnPurchaseOrderSubmitted interface {
	Plugin
	OnPurchaseOrderSubmitted(ctx context.Context, po interface{}) error
}

// OnPurchaseOrderReceived is called when a purchase order is received.
type OnPurchaseOrderReceived interface {
	Plugin
	OnPurchaseOrderReceived(ctx context.Context, po interface{}) error
}

// OnPurchaseOrderCanceled is called when a purchase order is canceled.
type OnPurchaseOrderCanceled interface {
	Plugin
	OnPurchaseOrderCanceled(ctx context.Context, po interface{}, reason string) error
}

// ──────────────────────────────────────────────────
// Onboarding hooks
// ──────────────────────────────────────────────────

// OnOnboardingStarted is called when onboarding begins for a location.
type OnOnboardingStarted interface {
	Plugin
	OnOnboardingStarted(ctx context.Context, progress interface{}) error
}

// OnOnboardingAdvanced is called when an onboarding step is completed.
type OnOnboardingAdvanced interface {
	Plugin
	OnOnboardingAdvanced(ctx context.Context, progress interface{}, step string) error
}

// OnOnboardingCompleted is called when the final step is done.
type OnOnboardingCompleted interface {
	Plugin
	OnOnboardingCompleted(ctx context.Context, progress interface{}) error
}

// ──────────────────────────────────────────────────
// Suggestion hooks
// ──────────────────────────────────────────────────

// OnSuggestionReady is called when an AI suggestion has been produced.
type OnSuggestionReady interface {
	Plugin
	OnSuggestionReady(ctx context.Context, suggestion interface{}) error
}

// CompleterPlugin provides a chat completion backend for suggestions.
type CompleterPlugin interface {
	Plugin
	Completer() interface{} // Returns suggest.Completer
}

// ──────────────────────────────────────────────────
// Order policies
// ──────────────────────────────────────────────────

// OrderPolicy provides custom order quantity calculation when generating
// purchase orders. The default policy fills to par.
type OrderPolicy interface {
	Plugin
	PolicyName() string
	OrderQuantity(stock, reorderPoint, parLevel float64) float64
}

// ──────────────────────────────────────────────────
// Waste classifiers
// ──────────────────────────────────────────────────

// WasteClassifier decides whether a clamped depletion should be booked as
// waste or left as shrinkage for review.
type WasteClassifier interface {
	Plugin
	ClassifyWaste(ctx context.Context, ingredientID string, deficit float64) (bool, error)
}
