package larder

import (
	"context"
	"fmt"
	"time"

	"github.com/xraph/larder/id"
	"github.com/xraph/larder/ingredient"
	"github.com/xraph/larder/journal"
	"github.com/xraph/larder/purchaseorder"
	"github.com/xraph/larder/supplier"
	"github.com/xraph/larder/types"
)

// ──────────────────────────────────────────────────
// Supplier Management
// ──────────────────────────────────────────────────

// CreateSupplier creates a supplier directory entry.
func (l *Larder) CreateSupplier(ctx context.Context, s *supplier.Supplier) error {
	if s.Name == "" {
		return ValidationError{Field: "name", Message: "required"}
	}

	if s.ID == (id.SupplierID{}) {
		s.ID = id.NewSupplierID()
	}
	s.Active = true
	s.Entity = types.NewEntity()

	return l.store.CreateSupplier(ctx, s)
}

// GetSupplier retrieves a supplier by ID.
func (l *Larder) GetSupplier(ctx context.Context, supplierID id.SupplierID) (*supplier.Supplier, error) {
	return l.store.GetSupplier(ctx, supplierID)
}

// ListSuppliers lists suppliers for a location.
func (l *Larder) ListSuppliers(ctx context.Context, locationID string, opts supplier.ListOpts) ([]*supplier.Supplier, error) {
	return l.store.ListSuppliers(ctx, locationID, opts)
}

// UpdateSupplier updates a supplier.
func (l *Larder) UpdateSupplier(ctx context.Context, s *supplier.Supplier) error {
	current, err := l.store.GetSupplier(ctx, s.ID)
	if err != nil {
		return err
	}

	s.CreatedAt = current.CreatedAt
	s.Touch()
	return l.store.UpdateSupplier(ctx, s)
}

// DeleteSupplier deletes a supplier unless it has open purchase orders.
func (l *Larder) DeleteSupplier(ctx context.Context, supplierID id.SupplierID) error {
	open, err := l.store.ListOpenPurchaseOrders(ctx, supplierID)
	if err != nil {
		return err
	}
	if len(open) > 0 {
		return fmt.Errorf("%w: %d open orders", ErrSupplierInUse, len(open))
	}

	return l.store.DeleteSupplier(ctx, supplierID)
}

// ──────────────────────────────────────────────────
// Purchase Orders
// ──────────────────────────────────────────────────

// GeneratePurchaseOrder builds a draft order for every ingredient of the
// supplier at or below its reorder point, with quantities from the order
// policy (default: fill to par) and prices from current unit costs. Orders
// under the supplier's minimum are still created, with a note.
func (l *Larder) GeneratePurchaseOrder(ctx context.Context, locationID string, supplierID id.SupplierID) (*purchaseorder.PurchaseOrder, error) {
	sup, err := l.store.GetSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	ings, err := l.store.ListIngredients(ctx, locationID, ingredient.ListOpts{BelowReorder: true})
	if err != nil {
		return nil, err
	}

	po := &purchaseorder.PurchaseOrder{
		Entity:     types.NewEntity(),
		ID:         id.NewPurchaseOrderID(),
		SupplierID: supplierID,
		LocationID: locationID,
		Status:     purchaseorder.StatusDraft,
		Currency:   sup.Currency,
	}

	for _, ing := range ings {
		if ing.SupplierID != (id.SupplierID{}) && ing.SupplierID != supplierID {
			continue
		}

		qty := l.orderQuantity(ing.Stock, ing.ReorderPoint, ing.ParLevel)
		if qty <= 0 {
			continue
		}

		amount := ing.UnitCost.MultiplyQuantity(qty)
		po.Lines = append(po.Lines, purchaseorder.Line{
			ID:           id.NewOrderLineID(),
			OrderID:      po.ID,
			IngredientID: ing.ID,
			Name:         ing.Name,
			Quantity:     qty,
			Unit:         ing.Unit,
			UnitCost:     ing.UnitCost,
			Amount:       amount,
		})

		if po.Currency == "" {
			po.Currency = amount.Currency
		}
		if po.Total.Currency == "" {
			po.Total = types.Zero(po.Currency)
		}
		po.Total = po.Total.Add(amount)
	}

	if len(po.Lines) == 0 {
		return nil, ErrNothingToOrder
	}

	if sup.MinimumOrder.IsPositive() && po.Total.Currency == sup.MinimumOrder.Currency && po.Total.LessThan(sup.MinimumOrder) {
		shortfall := sup.MinimumOrder.Subtract(po.Total)
		po.Notes = fmt.Sprintf("below supplier minimum %s by %s", sup.MinimumOrder, shortfall)
	}

	if err := l.store.CreatePurchaseOrder(ctx, po); err != nil {
		return nil, err
	}

	l.plugins.EmitPurchaseOrderGenerated(ctx, po)
	l.logger.Info("purchase order generated",
		"order_id", po.ID,
		"supplier_id", supplierID,
		"lines", len(po.Lines),
		"total", po.Total.String(),
	)

	return po, nil
}

// GetPurchaseOrder retrieves a purchase order by ID.
func (l *Larder) GetPurchaseOrder(ctx context.Context, orderID id.PurchaseOrderID) (*purchaseorder.PurchaseOrder, error) {
	return l.store.GetPurchaseOrder(ctx, orderID)
}

// ListPurchaseOrders lists purchase orders for a location.
func (l *Larder) ListPurchaseOrders(ctx context.Context, locationID string, opts purchaseorder.ListOpts) ([]*purchaseorder.PurchaseOrder, error) {
	return l.store.ListPurchaseOrders(ctx, locationID, opts)
}

// SubmitPurchaseOrder moves a draft order to submitted.
func (l *Larder) SubmitPurchaseOrder(ctx context.Context, orderID id.PurchaseOrderID) error {
	po, err := l.store.GetPurchaseOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if po.Status != purchaseorder.StatusDraft {
		return ErrOrderNotDraft
	}

	if err := l.store.MarkOrderSubmitted(ctx, orderID, time.Now()); err != nil {
		return err
	}

	l.plugins.EmitPurchaseOrderSubmitted(ctx, po)
	return nil
}

// ReceivePurchaseOrder marks a submitted order received, increments stock
// for every line, and journals each increment as receiving.
func (l *Larder) ReceivePurchaseOrder(ctx context.Context, orderID id.PurchaseOrderID, actorID string) error {
	po, err := l.store.GetPurchaseOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if po.Status != purchaseorder.StatusSubmitted {
		return ErrOrderNotSubmitted
	}

	source := fmt.Sprintf("po:%s", po.ID)
	for _, line := range po.Lines {
		ing, err := l.store.GetIngredient(ctx, line.IngredientID)
		if err != nil {
			return fmt.Errorf("receive order %s: %w", orderID, err)
		}

		qty, err := types.Convert(line.Quantity, line.Unit, ing.Unit)
		if err != nil {
			return fmt.Errorf("%w: %s to %s", ErrUnitMismatch, line.Unit, ing.Unit)
		}

		change, err := l.store.ApplyStockDelta(ctx, line.IngredientID, qty)
		if err != nil {
			return fmt.Errorf("receive order %s: %w", orderID, err)
		}

		entry := &journal.Entry{
			ID:           id.NewJournalEntryID(),
			IngredientID: line.IngredientID,
			Kind:         journal.KindReceiving,
			Delta:        qty,
			Previous:     change.Previous,
			New:          change.New,
			Source:       source,
			ActorID:      actorID,
			Timestamp:    time.Now(),
		}
		if err := l.store.AppendJournal(ctx, entry); err != nil {
			return fmt.Errorf("receive order %s: %w", orderID, err)
		}

		_ = l.store.InvalidateStatus(ctx, line.IngredientID) //nolint:errcheck // best-effort cache invalidation
		l.plugins.EmitStockAdjusted(ctx, entry)
	}

	if err := l.store.MarkOrderReceived(ctx, orderID, time.Now()); err != nil {
		return err
	}

	l.plugins.EmitPurchaseOrderReceived(ctx, po)
	return nil
}

// CancelPurchaseOrder cancels an open order.
func (l *Larder) CancelPurchaseOrder(ctx context.Context, orderID id.PurchaseOrderID, reason string) error {
	po, err := l.store.GetPurchaseOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !po.Open() {
		return ErrOrderClosed
	}

	if err := l.store.MarkOrderCanceled(ctx, orderID, reason); err != nil {
		return err
	}

	l.plugins.EmitPurchaseOrderCanceled(ctx, po, reason)
	return nil
}
