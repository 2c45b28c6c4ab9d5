package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xraph/larder"
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

type Store struct {
	mu sync.RWMutex

	// Ingredient storage
	ingredients map[string]*ingredient.Ingredient

	// Recipe storage
	recipes map[string]*recipe.Recipe

	// Sale event storage
	saleEvents []sale.Event
	saleKeys   map[string]bool

	// Journal storage (append-only)
	journalEntries []journal.Entry

	// Alert status cache
	statusCache map[string]*alert.Status
	cacheExpiry map[string]time.Time

	// Purchase order storage
	orders map[string]*purchaseorder.PurchaseOrder

	// Supplier storage
	suppliers map[string]*supplier.Supplier

	// Onboarding storage
	onboardings map[string]*onboarding.Progress
}

func New() *Store {
	return &Store{
		ingredients:    make(map[string]*ingredient.Ingredient),
		recipes:        make(map[string]*recipe.Recipe),
		saleEvents:     make([]sale.Event, 0),
		saleKeys:       make(map[string]bool),
		journalEntries: make([]journal.Entry, 0),
		statusCache:    make(map[string]*alert.Status),
		cacheExpiry:    make(map[string]time.Time),
		orders:         make(map[string]*purchaseorder.PurchaseOrder),
		suppliers:      make(map[string]*supplier.Supplier),
		onboardings:    make(map[string]*onboarding.Progress),
	}
}

// Ingredient Store implementation
func (s *Store) CreateIngredient(_ context.Context, ing *ingredient.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ingredients[ing.ID.String()]; exists {
		return larder.ErrAlreadyExists
	}
	s.ingredients[ing.ID.String()] = ing
	return nil
}

func (s *Store) GetIngredient(_ context.Context, ingredientID id.IngredientID) (*ingredient.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ing, ok := s.ingredients[ingredientID.String()]; ok {
		return ing, nil
	}
	return nil, larder.ErrIngredientNotFound
}

func (s *Store) ListIngredients(_ context.Context, locationID string, opts ingredient.ListOpts) ([]*ingredient.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*ingredient.Ingredient, 0)
	for _, ing := range s.ingredients {
		if ing.LocationID == locationID {
			if opts.Category != "" && ing.Category != opts.Category {
				continue
			}
			if opts.BelowReorder && !ing.BelowReorder() {
				continue
			}
			result = append(result, ing)
		}
	}

	// Apply limit/offset
	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

func (s *Store) UpdateIngredient(_ context.Context, ing *ingredient.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ingredients[ing.ID.String()]; !exists {
		return larder.ErrIngredientNotFound
	}
	s.ingredients[ing.ID.String()] = ing
	return nil
}

func (s *Store) DeleteIngredient(_ context.Context, ingredientID id.IngredientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.ingredients, ingredientID.String())
	return nil
}

// ApplyStockDelta performs the clamped decrement under the write lock, so
// concurrent depletions serialize here instead of racing a read-modify-write
// at the engine layer.
func (s *Store) ApplyStockDelta(_ context.Context, ingredientID id.IngredientID, delta float64) (ingredient.StockChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ing, ok := s.ingredients[ingredientID.String()]
	if !ok {
		return ingredient.StockChange{}, larder.ErrIngredientNotFound
	}

	change := ingredient.StockChange{Previous: ing.Stock}
	next := ing.Stock + delta
	if next < 0 {
		next = 0
		change.Clamped = true
	}
	change.New = next
	change.Applied = next - change.Previous

	ing.Stock = next
	ing.Touch()
	return change, nil
}

// Recipe Store implementation
func (s *Store) CreateRecipe(_ context.Context, r *recipe.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recipes[r.ID.String()]; exists {
		return larder.ErrAlreadyExists
	}
	s.recipes[r.ID.String()] = r
	return nil
}

func (s *Store) GetRecipe(_ context.Context, recipeID id.RecipeID) (*recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.recipes[recipeID.String()]; ok {
		return r, nil
	}
	return nil, larder.ErrRecipeNotFound
}

func (s *Store) ListRecipes(_ context.Context, locationID string, opts recipe.ListOpts) ([]*recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*recipe.Recipe, 0)
	for _, r := range s.recipes {
		if r.LocationID == locationID {
			if opts.Status != "" && r.Status != opts.Status {
				continue
			}
			if opts.Category != "" && r.Category != opts.Category {
				continue
			}
			result = append(result, r)
		}
	}

	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

func (s *Store) UpdateRecipe(_ context.Context, r *recipe.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recipes[r.ID.String()]; !exists {
		return larder.ErrRecipeNotFound
	}
	s.recipes[r.ID.String()] = r
	return nil
}

func (s *Store) DeleteRecipe(_ context.Context, recipeID id.RecipeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.recipes, recipeID.String())
	return nil
}

func (s *Store) RecipesUsingIngredient(_ context.Context, ingredientID id.IngredientID) ([]*recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*recipe.Recipe, 0)
	for _, r := range s.recipes {
		if r.FindLine(ingredientID) != nil {
			result = append(result, r)
		}
	}
	return result, nil
}

// Sale Store implementation
func (s *Store) RecordSaleEvent(_ context.Context, e *sale.Event) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.IdempotencyKey != "" {
		if s.saleKeys[e.IdempotencyKey] {
			return false, nil
		}
		s.saleKeys[e.IdempotencyKey] = true
	}
	s.saleEvents = append(s.saleEvents, *e)
	return true, nil
}

func (s *Store) GetSaleEvent(_ context.Context, eventID id.SaleEventID) (*sale.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.saleEvents {
		if s.saleEvents[i].ID == eventID {
			return &s.saleEvents[i], nil
		}
	}
	return nil, larder.ErrNotFound
}

func (s *Store) QuerySales(_ context.Context, locationID string, opts sale.QueryOpts) ([]*sale.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*sale.Event, 0)
	for i := range s.saleEvents {
		e := &s.saleEvents[i]
		if e.LocationID != locationID {
			continue
		}
		if !opts.RecipeID.IsNil() {
			found := false
			for _, item := range e.Items {
				if item.RecipeID == opts.RecipeID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if (opts.Start.IsZero() || e.Timestamp.After(opts.Start)) &&
			(opts.End.IsZero() || e.Timestamp.Before(opts.End)) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *Store) PurgeSales(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	kept := make([]sale.Event, 0)
	for _, e := range s.saleEvents {
		if e.Timestamp.Before(before) {
			count++
		} else {
			kept = append(kept, e)
		}
	}
	s.saleEvents = kept
	return count, nil
}

// Journal Store implementation
func (s *Store) AppendJournal(_ context.Context, e *journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.journalEntries = append(s.journalEntries, *e)
	return nil
}

func (s *Store) QueryJournal(_ context.Context, ingredientID id.IngredientID, opts journal.QueryOpts) ([]*journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*journal.Entry, 0)
	for i := range s.journalEntries {
		e := &s.journalEntries[i]
		if e.IngredientID != ingredientID {
			continue
		}
		if opts.Kind != "" && e.Kind != opts.Kind {
			continue
		}
		if (opts.Start.IsZero() || e.Timestamp.After(opts.Start)) &&
			(opts.End.IsZero() || e.Timestamp.Before(opts.End)) {
			result = append(result, e)
		}
	}

	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

// Alert cache implementation
func (s *Store) GetCachedStatus(_ context.Context, ingredientID id.IngredientID) (*alert.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := ingredientID.String()
	if expiry, ok := s.cacheExpiry[key]; ok {
		if time.Now().Before(expiry) {
			if status, ok := s.statusCache[key]; ok {
				return status, nil
			}
		}
	}
	return nil, larder.ErrCacheMiss
}

func (s *Store) SetCachedStatus(_ context.Context, ingredientID id.IngredientID, status *alert.Status, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ingredientID.String()
	s.statusCache[key] = status
	s.cacheExpiry[key] = time.Now().Add(ttl)
	return nil
}

func (s *Store) InvalidateStatus(_ context.Context, ingredientID id.IngredientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ingredientID.String()
	delete(s.statusCache, key)
	delete(s.cacheExpiry, key)
	return nil
}

func (s *Store) InvalidateAllStatuses(_ context.Context, locationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, status := range s.statusCache {
		ing, ok := s.ingredients[status.IngredientID.String()]
		if !ok || ing.LocationID == locationID {
			delete(s.statusCache, key)
			delete(s.cacheExpiry, key)
		}
	}
	return nil
}

// Purchase order Store implementation
func (s *Store) CreatePurchaseOrder(_ context.Context, po *purchaseorder.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[po.ID.String()] = po
	return nil
}

func (s *Store) GetPurchaseOrder(_ context.Context, orderID id.PurchaseOrderID) (*purchaseorder.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if po, ok := s.orders[orderID.String()]; ok {
		return po, nil
	}
	return nil, larder.ErrOrderNotFound
}

func (s *Store) ListPurchaseOrders(_ context.Context, locationID string, opts purchaseorder.ListOpts) ([]*purchaseorder.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*purchaseorder.PurchaseOrder, 0)
	for _, po := range s.orders {
		if po.LocationID == locationID {
			if opts.Status == "" || po.Status == opts.Status {
				result = append(result, po)
			}
		}
	}
	return result, nil
}

func (s *Store) UpdatePurchaseOrder(_ context.Context, po *purchaseorder.PurchaseOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[po.ID.String()] = po
	return nil
}

func (s *Store) ListOpenPurchaseOrders(_ context.Context, supplierID id.SupplierID) ([]*purchaseorder.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*purchaseorder.PurchaseOrder, 0)
	for _, po := range s.orders {
		if po.SupplierID == supplierID && po.Open() {
			result = append(result, po)
		}
	}
	return result, nil
}

func (s *Store) MarkOrderSubmitted(_ context.Context, orderID id.PurchaseOrderID, submittedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if po, ok := s.orders[orderID.String()]; ok {
		po.Status = purchaseorder.StatusSubmitted
		po.SubmittedAt = &submittedAt
		return nil
	}
	return larder.ErrOrderNotFound
}

func (s *Store) MarkOrderReceived(_ context.Context, orderID id.PurchaseOrderID, receivedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if po, ok := s.orders[orderID.String()]; ok {
		po.Status = purchaseorder.StatusReceived
		po.ReceivedAt = &receivedAt
		return nil
	}
	return larder.ErrOrderNotFound
}

func (s *Store) MarkOrderCanceled(_ context.Context, orderID id.PurchaseOrderID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if po, ok := s.orders[orderID.String()]; ok {
		po.Status = purchaseorder.StatusCanceled
		now := time.Now()
		po.CanceledAt = &now
		po.CancelReason = reason
		return nil
	}
	return larder.ErrOrderNotFound
}

// Supplier Store implementation
func (s *Store) CreateSupplier(_ context.Context, sup *supplier.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.suppliers[sup.ID.String()] = sup
	return nil
}

func (s *Store) GetSupplier(_ context.Context, supplierID id.SupplierID) (*supplier.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sup, ok := s.suppliers[supplierID.String()]; ok {
		return sup, nil
	}
	return nil, larder.ErrSupplierNotFound
}

func (s *Store) ListSuppliers(_ context.Context, locationID string, opts supplier.ListOpts) ([]*supplier.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*supplier.Supplier, 0)
	for _, sup := range s.suppliers {
		if sup.LocationID == locationID {
			if opts.Active && !sup.Active {
				continue
			}
			result = append(result, sup)
		}
	}
	return result, nil
}

func (s *Store) UpdateSupplier(_ context.Context, sup *supplier.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.suppliers[sup.ID.String()] = sup
	return nil
}

func (s *Store) DeleteSupplier(_ context.Context, supplierID id.SupplierID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.suppliers, supplierID.String())
	return nil
}

// Onboarding Store implementation
func (s *Store) CreateOnboarding(_ context.Context, p *onboarding.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.onboardings {
		if existing.LocationID == p.LocationID {
			return larder.ErrAlreadyExists
		}
	}
	s.onboardings[p.ID.String()] = p
	return nil
}

func (s *Store) GetOnboarding(_ context.Context, onboardingID id.OnboardingID) (*onboarding.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.onboardings[onboardingID.String()]; ok {
		return p, nil
	}
	return nil, larder.ErrOnboardingNotFound
}

func (s *Store) GetOnboardingByLocation(_ context.Context, locationID string) (*onboarding.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.onboardings {
		if p.LocationID == locationID {
			return p, nil
		}
	}
	return nil, larder.ErrOnboardingNotFound
}

func (s *Store) UpdateOnboarding(_ context.Context, p *onboarding.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onboardings[p.ID.String()] = p
	return nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}
