package supplier

import (
	"context"

	"github.com/xraph/larder/id"
)

type Store interface {
	Create(ctx context.Context, s *Supplier) error
	Get(ctx context.Context, supplierID id.SupplierID) (*Supplier, error)
	List(ctx context.Context, locationID string, opts ListOpts) ([]*Supplier, error)
	Update(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, supplierID id.SupplierID) error
}

type ListOpts struct {
	Active bool
	Limit  int
	Offset int
}
