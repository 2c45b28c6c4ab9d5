package journal

import (
	"time"

	"github.com/xraph/larder/id"
)

type Kind string

const (
	KindSale       Kind = "sale"
	KindReceiving  Kind = "receiving"
	KindAdjustment Kind = "adjustment"
	KindWaste      Kind = "waste"
	KindTransfer   Kind = "transfer"
	KindCount      Kind = "count"
)

// Entry is one immutable row in the stock journal. Delta is the true
// requested change; when the stock write clamped at zero, New-Previous is
// smaller in magnitude than Delta and Clamped is set. The journal is
// append-only: entries are never updated or deleted.
type Entry struct {
	ID           id.JournalEntryID `json:"id"`
	IngredientID id.IngredientID   `json:"ingredient_id"`
	Kind         Kind              `json:"kind"`
	Delta        float64           `json:"delta"`
	Previous     float64           `json:"previous"`
	New          float64           `json:"new"`
	Clamped      bool              `json:"clamped"`
	Source       string            `json:"source"`
	ActorID      string            `json:"actor_id,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
}
