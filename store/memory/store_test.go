package memory_test

import (
	"context"
	"errors"
	"testing"
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
	"github.com/xraph/larder/store"
	"github.com/xraph/larder/store/memory"
	"github.com/xraph/larder/types"
)

// Compile-time interface check.
var _ store.Store = (*memory.Store)(nil)

func newIngredient(name string, stock float64) *ingredient.Ingredient {
	return &ingredient.Ingredient{
		ID:           id.NewIngredientID(),
		Name:         name,
		Category:     ingredient.CategoryDry,
		Unit:         types.Gram,
		Stock:        stock,
		ReorderPoint: 100,
		ParLevel:     1000,
		UnitCost:     types.USD(2),
		LocationID:   "loc_test",
	}
}

func TestIngredientCRUD(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	ing := newIngredient("Flour", 500)
	if err := s.CreateIngredient(ctx, ing); err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}

	// Duplicate create rejected.
	if err := s.CreateIngredient(ctx, ing); !errors.Is(err, larder.ErrAlreadyExists) {
		t.Errorf("duplicate create: got %v, want ErrAlreadyExists", err)
	}

	got, err := s.GetIngredient(ctx, ing.ID)
	if err != nil {
		t.Fatalf("GetIngredient: %v", err)
	}
	if got.Name != "Flour" || got.Stock != 500 {
		t.Errorf("got %q stock %v, want Flour/500", got.Name, got.Stock)
	}

	got.ReorderPoint = 250
	if err := s.UpdateIngredient(ctx, got); err != nil {
		t.Fatalf("UpdateIngredient: %v", err)
	}

	list, err := s.ListIngredients(ctx, "loc_test", ingredient.ListOpts{})
	if err != nil {
		t.Fatalf("ListIngredients: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 ingredient, got %d", len(list))
	}

	if err := s.DeleteIngredient(ctx, ing.ID); err != nil {
		t.Fatalf("DeleteIngredient: %v", err)
	}
	if _, err := s.GetIngredient(ctx, ing.ID); !errors.Is(err, larder.ErrIngredientNotFound) {
		t.Errorf("after delete: got %v, want ErrIngredientNotFound", err)
	}
}

func TestListIngredientsBelowReorder(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	low := newIngredient("Yeast", 50) // below reorder point of 100
	ok := newIngredient("Salt", 900)
	for _, ing := range []*ingredient.Ingredient{low, ok} {
		if err := s.CreateIngredient(ctx, ing); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListIngredients(ctx, "loc_test", ingredient.ListOpts{BelowReorder: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != low.ID {
		t.Errorf("expected only the low ingredient, got %d results", len(list))
	}
}

func TestApplyStockDelta(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	ing := newIngredient("Tomatoes", 500)
	if err := s.CreateIngredient(ctx, ing); err != nil {
		t.Fatal(err)
	}

	// Normal decrement.
	change, err := s.ApplyStockDelta(ctx, ing.ID, -200)
	if err != nil {
		t.Fatalf("ApplyStockDelta: %v", err)
	}
	if change.Previous != 500 || change.New != 300 || change.Applied != -200 || change.Clamped {
		t.Errorf("unexpected change: %+v", change)
	}

	// Over-depletion clamps at zero but reports the true previous level.
	change, err = s.ApplyStockDelta(ctx, ing.ID, -750)
	if err != nil {
		t.Fatalf("ApplyStockDelta: %v", err)
	}
	if !change.Clamped {
		t.Error("expected clamped change")
	}
	if change.Previous != 300 || change.New != 0 || change.Applied != -300 {
		t.Errorf("unexpected clamped change: %+v", change)
	}

	// Positive delta after clamp.
	change, err = s.ApplyStockDelta(ctx, ing.ID, 1000)
	if err != nil {
		t.Fatalf("ApplyStockDelta: %v", err)
	}
	if change.Previous != 0 || change.New != 1000 || change.Clamped {
		t.Errorf("unexpected change: %+v", change)
	}

	// Missing ingredient.
	if _, err := s.ApplyStockDelta(ctx, id.NewIngredientID(), -1); !errors.Is(err, larder.ErrIngredientNotFound) {
		t.Errorf("missing ingredient: got %v, want ErrIngredientNotFound", err)
	}
}

func TestRecordSaleEventIdempotency(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	keyed := &sale.Event{
		ID:             id.NewSaleEventID(),
		LocationID:     "loc_test",
		Items:          []sale.Item{{RecipeID: id.NewRecipeID(), Quantity: 1}},
		Source:         "pos",
		IdempotencyKey: "pos-evt-001",
		Timestamp:      time.Now(),
	}

	recorded, err := s.RecordSaleEvent(ctx, keyed)
	if err != nil {
		t.Fatalf("RecordSaleEvent: %v", err)
	}
	if !recorded {
		t.Fatal("first keyed event should record")
	}

	replay := *keyed
	replay.ID = id.NewSaleEventID()
	recorded, err = s.RecordSaleEvent(ctx, &replay)
	if err != nil {
		t.Fatalf("RecordSaleEvent replay: %v", err)
	}
	if recorded {
		t.Error("keyed replay should be deduplicated")
	}

	// Keyless events always record, even when otherwise identical.
	for i := 0; i < 2; i++ {
		e := &sale.Event{
			ID:         id.NewSaleEventID(),
			LocationID: "loc_test",
			Items:      []sale.Item{{RecipeID: id.NewRecipeID(), Quantity: 1}},
			Source:     "pos",
			Timestamp:  time.Now(),
		}
		recorded, err := s.RecordSaleEvent(ctx, e)
		if err != nil || !recorded {
			t.Fatalf("keyless event %d: recorded=%v err=%v", i, recorded, err)
		}
	}
}

func TestJournalAppendAndQuery(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	ingID := id.NewIngredientID()
	other := id.NewIngredientID()
	base := time.Now().Add(-time.Hour)

	entries := []*journal.Entry{
		{ID: id.NewJournalEntryID(), IngredientID: ingID, Kind: journal.KindSale, Delta: -100, Previous: 500, New: 400, Timestamp: base.Add(time.Minute)},
		{ID: id.NewJournalEntryID(), IngredientID: ingID, Kind: journal.KindWaste, Delta: -50, Previous: 400, New: 350, Timestamp: base.Add(2 * time.Minute)},
		{ID: id.NewJournalEntryID(), IngredientID: other, Kind: journal.KindSale, Delta: -10, Previous: 100, New: 90, Timestamp: base.Add(3 * time.Minute)},
	}
	for _, e := range entries {
		if err := s.AppendJournal(ctx, e); err != nil {
			t.Fatalf("AppendJournal: %v", err)
		}
	}

	all, err := s.QueryJournal(ctx, ingID, journal.QueryOpts{})
	if err != nil {
		t.Fatalf("QueryJournal: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 entries for ingredient, got %d", len(all))
	}

	waste, err := s.QueryJournal(ctx, ingID, journal.QueryOpts{Kind: journal.KindWaste})
	if err != nil {
		t.Fatal(err)
	}
	if len(waste) != 1 || waste[0].Delta != -50 {
		t.Errorf("kind filter: got %d entries", len(waste))
	}
}

func TestStatusCacheTTL(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	ingID := id.NewIngredientID()
	status := &alert.Status{IngredientID: ingID, Name: "Basil", Low: true, Stock: 10, ReorderPoint: 50}

	if _, err := s.GetCachedStatus(ctx, ingID); !errors.Is(err, larder.ErrCacheMiss) {
		t.Fatalf("cold cache: got %v, want ErrCacheMiss", err)
	}

	if err := s.SetCachedStatus(ctx, ingID, status, time.Minute); err != nil {
		t.Fatalf("SetCachedStatus: %v", err)
	}
	got, err := s.GetCachedStatus(ctx, ingID)
	if err != nil {
		t.Fatalf("GetCachedStatus: %v", err)
	}
	if !got.Low || got.Name != "Basil" {
		t.Errorf("unexpected cached status: %+v", got)
	}

	// An already-expired entry behaves as a miss.
	if err := s.SetCachedStatus(ctx, ingID, status, -time.Second); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetCachedStatus(ctx, ingID); !errors.Is(err, larder.ErrCacheMiss) {
		t.Errorf("expired entry: got %v, want ErrCacheMiss", err)
	}

	// Invalidation removes the entry.
	if err := s.SetCachedStatus(ctx, ingID, status, time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := s.InvalidateStatus(ctx, ingID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetCachedStatus(ctx, ingID); !errors.Is(err, larder.ErrCacheMiss) {
		t.Errorf("after invalidate: got %v, want ErrCacheMiss", err)
	}
}

func TestRecipesUsingIngredient(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	flourID := id.NewIngredientID()
	pizza := &recipe.Recipe{
		ID:         id.NewRecipeID(),
		Name:       "Margherita",
		Status:     recipe.StatusActive,
		YieldQty:   1,
		YieldUnit:  types.Each,
		Lines:      []recipe.Line{{IngredientID: flourID, Quantity: 250, Unit: types.Gram}},
		LocationID: "loc_test",
	}
	salad := &recipe.Recipe{
		ID:         id.NewRecipeID(),
		Name:       "House Salad",
		Status:     recipe.StatusActive,
		YieldQty:   1,
		YieldUnit:  types.Each,
		Lines:      []recipe.Line{{IngredientID: id.NewIngredientID(), Quantity: 100, Unit: types.Gram}},
		LocationID: "loc_test",
	}
	for _, r := range []*recipe.Recipe{pizza, salad} {
		if err := s.CreateRecipe(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	using, err := s.RecipesUsingIngredient(ctx, flourID)
	if err != nil {
		t.Fatal(err)
	}
	if len(using) != 1 || using[0].ID != pizza.ID {
		t.Errorf("expected only the pizza recipe, got %d results", len(using))
	}
}

func TestPurchaseOrderTransitions(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	po := &purchaseorder.PurchaseOrder{
		ID:         id.NewPurchaseOrderID(),
		SupplierID: id.NewSupplierID(),
		LocationID: "loc_test",
		Status:     purchaseorder.StatusDraft,
		Total:      types.USD(12500),
	}
	if err := s.CreatePurchaseOrder(ctx, po); err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}

	open, err := s.ListOpenPurchaseOrders(ctx, po.SupplierID)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 1 {
		t.Fatalf("expected 1 open order, got %d", len(open))
	}

	if err := s.MarkOrderSubmitted(ctx, po.ID, time.Now()); err != nil {
		t.Fatalf("MarkOrderSubmitted: %v", err)
	}
	got, err := s.GetPurchaseOrder(ctx, po.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != purchaseorder.StatusSubmitted || got.SubmittedAt == nil {
		t.Errorf("after submit: status=%s submitted_at=%v", got.Status, got.SubmittedAt)
	}

	if err := s.MarkOrderCanceled(ctx, po.ID, "supplier out of stock"); err != nil {
		t.Fatalf("MarkOrderCanceled: %v", err)
	}
	got, err = s.GetPurchaseOrder(ctx, po.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != purchaseorder.StatusCanceled || got.CancelReason != "supplier out of stock" {
		t.Errorf("after cancel: status=%s reason=%q", got.Status, got.CancelReason)
	}

	open, err = s.ListOpenPurchaseOrders(ctx, po.SupplierID)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 0 {
		t.Errorf("canceled order still listed as open")
	}

	if err := s.MarkOrderReceived(ctx, id.NewPurchaseOrderID(), time.Now()); !errors.Is(err, larder.ErrOrderNotFound) {
		t.Errorf("missing order: got %v, want ErrOrderNotFound", err)
	}
}

func TestOnboardingUniquePerLocation(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	first := &onboarding.Progress{
		ID:         id.NewOnboardingID(),
		LocationID: "loc_test",
		Current:    onboarding.StepProfile,
	}
	if err := s.CreateOnboarding(ctx, first); err != nil {
		t.Fatalf("CreateOnboarding: %v", err)
	}

	second := &onboarding.Progress{
		ID:         id.NewOnboardingID(),
		LocationID: "loc_test",
		Current:    onboarding.StepProfile,
	}
	if err := s.CreateOnboarding(ctx, second); !errors.Is(err, larder.ErrAlreadyExists) {
		t.Errorf("second onboarding for same location: got %v, want ErrAlreadyExists", err)
	}

	got, err := s.GetOnboardingByLocation(ctx, "loc_test")
	if err != nil {
		t.Fatalf("GetOnboardingByLocation: %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("got %s, want %s", got.ID, first.ID)
	}

	if _, err := s.GetOnboardingByLocation(ctx, "loc_other"); !errors.Is(err, larder.ErrOnboardingNotFound) {
		t.Errorf("missing location: got %v, want ErrOnboardingNotFound", err)
	}
}
