package alert

import (
	"context"
	"time"

	"github.com/xraph/larder/id"
)

type Store interface {
	GetCached(ctx context.Context, ingredientID id.IngredientID) (*Status, error)
	SetCached(ctx context.Context, ingredientID id.IngredientID, status *Status, ttl time.Duration) error
	Invalidate(ctx context.Context, ingredientID id.IngredientID) error
	InvalidateAll(ctx context.Context, locationID string) error
}
