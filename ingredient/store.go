package ingredient

import (
	"context"

	"github.com/xraph/larder/id"
)

// StockChange is the result of an atomic stock adjustment. Applied is the
// delta actually written; it differs from the requested delta only when the
// write clamped at zero, in which case Clamped is set.
type StockChange struct {
	Previous float64
	New      float64
	Applied  float64
	Clamped  bool
}

type Store interface {
	Create(ctx context.Context, ing *Ingredient) error
	Get(ctx context.Context, ingredientID id.IngredientID) (*Ingredient, error)
	List(ctx context.Context, locationID string, opts ListOpts) ([]*Ingredient, error)
	Update(ctx context.Context, ing *Ingredient) error
	Delete(ctx context.Context, ingredientID id.IngredientID) error

	// ApplyStockDelta atomically adds delta to stock, clamping the result
	// at zero. The read-modify-write happens inside the store so two
	// concurrent depletions can never lose an update.
	ApplyStockDelta(ctx context.Context, ingredientID id.IngredientID, delta float64) (StockChange, error)
}

type ListOpts struct {
	Category     Category
	BelowReorder bool
	Limit        int
	Offset       int
}
