package sale

import (
	"time"

	"github.com/xraph/larder/id"
)

type Event struct {
	ID             id.SaleEventID    `json:"id"`
	LocationID     string            `json:"location_id"`
	Items          []Item            `json:"items"`
	Source         string            `json:"source"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
	Timestamp      time.Time         `json:"timestamp"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type Item struct {
	RecipeID id.RecipeID `json:"recipe_id"`
	Name     string      `json:"name"`
	Quantity int64       `json:"quantity"`
}

// Empty reports whether the event carries nothing worth processing.
// Empty events are dropped silently by ingestion.
func (e *Event) Empty() bool {
	if e == nil || len(e.Items) == 0 {
		return true
	}
	for _, item := range e.Items {
		if item.Quantity > 0 && !item.RecipeID.IsNil() {
			return false
		}
	}
	return true
}
