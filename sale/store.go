package sale

import (
	"context"
	"time"

	"github.com/xraph/larder/id"
)

type Store interface {
	// Record persists the event. When the event carries an idempotency key
	// that has been seen before, Record returns (false, nil) and the event
	// must not be processed again. Keyless events always record.
	Record(ctx context.Context, e *Event) (bool, error)
	Get(ctx context.Context, eventID id.SaleEventID) (*Event, error)
	Query(ctx context.Context, locationID string, opts QueryOpts) ([]*Event, error)
	Purge(ctx context.Context, before time.Time) (int64, error)
}

type QueryOpts struct {
	RecipeID id.RecipeID
	Start    time.Time
	End      time.Time
	Limit    int
	Offset   int
}
