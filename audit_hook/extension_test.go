package audithook

import (
	"context"
	"errors"
	"testing"
	"time"
)

// captureRecorder collects every audit event it is handed.
type captureRecorder struct {
	events []*AuditEvent
	err    error
}

func (r *captureRecorder) Record(_ context.Context, event *AuditEvent) error {
	r.events = append(r.events, event)
	return r.err
}

func TestStockClampedEvent(t *testing.T) {
	rec := &captureRecorder{}
	e := New(rec)
	ctx := context.Background()

	if err := e.OnStockClamped(ctx, "ing_abc", 750, 500); err != nil {
		t.Fatalf("OnStockClamped: %v", err)
	}
	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.events))
	}

	evt := rec.events[0]
	if evt.Action != ActionStockClamped {
		t.Errorf("action = %s, want %s", evt.Action, ActionStockClamped)
	}
	if evt.Severity != SeverityWarning || evt.Outcome != OutcomePartial {
		t.Errorf("severity/outcome = %s/%s, want warning/partial", evt.Severity, evt.Outcome)
	}
	if evt.ResourceID != "ing_abc" {
		t.Errorf("resource_id = %s, want ing_abc", evt.ResourceID)
	}
	if evt.Metadata["deficit"] != 250.0 {
		t.Errorf("deficit = %v, want 250", evt.Metadata["deficit"])
	}
}

func TestSalesFlushedEvent(t *testing.T) {
	rec := &captureRecorder{}
	e := New(rec)

	if err := e.OnSalesFlushed(context.Background(), 42, 1500*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	evt := rec.events[0]
	if evt.Action != ActionSalesFlushed || evt.Category != CategorySales {
		t.Errorf("action/category = %s/%s", evt.Action, evt.Category)
	}
	if evt.Metadata["count"] != 42 || evt.Metadata["elapsed_ms"] != int64(1500) {
		t.Errorf("metadata = %v", evt.Metadata)
	}
}

func TestStatusCheckedIsSilent(t *testing.T) {
	rec := &captureRecorder{}
	e := New(rec)

	if err := e.OnStatusChecked(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if len(rec.events) != 0 {
		t.Errorf("status checks should not hit the audit trail, got %d events", len(rec.events))
	}
}

func TestEnabledActionsFilter(t *testing.T) {
	rec := &captureRecorder{}
	e := New(rec, WithEnabledActions(ActionStockClamped))
	ctx := context.Background()

	if err := e.OnSaleRecorded(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if err := e.OnStockClamped(ctx, "ing_abc", 10, 5); err != nil {
		t.Fatal(err)
	}

	if len(rec.events) != 1 || rec.events[0].Action != ActionStockClamped {
		t.Errorf("expected only the clamp event, got %d events", len(rec.events))
	}
}

func TestDisabledActionsFilter(t *testing.T) {
	rec := &captureRecorder{}
	e := New(rec, WithDisabledActions(ActionSaleRecorded))
	ctx := context.Background()

	if err := e.OnSaleRecorded(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if err := e.OnSaleDepleted(ctx, nil); err != nil {
		t.Fatal(err)
	}

	if len(rec.events) != 1 || rec.events[0].Action != ActionSaleDepleted {
		t.Errorf("expected only the depleted event, got %d events", len(rec.events))
	}
}

func TestRecorderFailureDoesNotPropagate(t *testing.T) {
	rec := &captureRecorder{err: errors.New("sink unavailable")}
	e := New(rec)

	// A broken audit backend must never fail the operation being audited.
	if err := e.OnSaleRecorded(context.Background(), nil); err != nil {
		t.Errorf("recorder failure propagated: %v", err)
	}
}

func TestOrderCanceledCarriesReason(t *testing.T) {
	rec := &captureRecorder{}
	e := New(rec)

	if err := e.OnPurchaseOrderCanceled(context.Background(), nil, "supplier out of stock"); err != nil {
		t.Fatal(err)
	}
	evt := rec.events[0]
	if evt.Metadata["cancel_reason"] != "supplier out of stock" {
		t.Errorf("cancel_reason = %v", evt.Metadata["cancel_reason"])
	}
	if evt.Severity != SeverityWarning {
		t.Errorf("severity = %s, want warning", evt.Severity)
	}
}

func TestRecorderFunc(t *testing.T) {
	var got *AuditEvent
	e := New(RecorderFunc(func(_ context.Context, event *AuditEvent) error {
		got = event
		return nil
	}))

	if err := e.OnIngredientCreated(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Action != ActionIngredientCreated {
		t.Errorf("RecorderFunc did not receive the event: %+v", got)
	}
}
