package journal

import (
	"context"
	"time"

	"github.com/xraph/larder/id"
)

type Store interface {
	Append(ctx context.Context, e *Entry) error
	Query(ctx context.Context, ingredientID id.IngredientID, opts QueryOpts) ([]*Entry, error)
}

type QueryOpts struct {
	Kind   Kind
	Start  time.Time
	End    time.Time
	Limit  int
	Offset int
}
