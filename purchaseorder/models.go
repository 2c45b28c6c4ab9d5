package purchaseorder

import (
	"time"

	"github.com/xraph/larder/id"
	"github.com/xraph/larder/types"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusReceived  Status = "received"
	StatusCanceled  Status = "canceled"
)

type PurchaseOrder struct {
	types.Entity
	ID           id.PurchaseOrderID `json:"id"`
	SupplierID   id.SupplierID      `json:"supplier_id"`
	LocationID   string             `json:"location_id"`
	Status       Status             `json:"status"`
	Currency     string             `json:"currency"`
	Total        types.Money        `json:"total"`
	Lines        []Line             `json:"lines"`
	SubmittedAt  *time.Time         `json:"submitted_at,omitempty"`
	ReceivedAt   *time.Time         `json:"received_at,omitempty"`
	CanceledAt   *time.Time         `json:"canceled_at,omitempty"`
	CancelReason string             `json:"cancel_reason,omitempty"`
	Notes        string             `json:"notes,omitempty"`
	Metadata     map[string]string  `json:"metadata,omitempty"`
}

type Line struct {
	ID           id.OrderLineID     `json:"id"`
	OrderID      id.PurchaseOrderID `json:"order_id"`
	IngredientID id.IngredientID    `json:"ingredient_id"`
	Name         string             `json:"name"`
	Quantity     float64            `json:"quantity"`
	Unit         types.Unit         `json:"unit"`
	UnitCost     types.Money        `json:"unit_cost"`
	Amount       types.Money        `json:"amount"`
}

// Open reports whether the order can still change state.
func (p *PurchaseOrder) Open() bool {
	return p.Status == StatusDraft || p.Status == StatusSubmitted
}
