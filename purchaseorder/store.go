package purchaseorder

import (
	"context"
	"time"

	"github.com/xraph/larder/id"
)

type Store interface {
	Create(ctx context.Context, po *PurchaseOrder) error
	Get(ctx context.Context, orderID id.PurchaseOrderID) (*PurchaseOrder, error)
	List(ctx context.Context, locationID string, opts ListOpts) ([]*PurchaseOrder, error)
	Update(ctx context.Context, po *PurchaseOrder) error
	ListOpen(ctx context.Context, supplierID id.SupplierID) ([]*PurchaseOrder, error)
	MarkSubmitted(ctx context.Context, orderID id.PurchaseOrderID, submittedAt time.Time) error
	MarkReceived(ctx context.Context, orderID id.PurchaseOrderID, receivedAt time.Time) error
	MarkCanceled(ctx context.Context, orderID id.PurchaseOrderID, reason string) error
}

type ListOpts struct {
	Status Status
	Start  time.Time
	End    time.Time
	Limit  int
	Offset int
}
