package plugin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recorderPlugin implements a handful of hooks and records every call.
type recorderPlugin struct {
	name string

	mu          sync.Mutex
	inits       int
	shutdowns   int
	adjusted    []interface{}
	clamped     []string
	flushCounts []int
	failWith    error
}

func (p *recorderPlugin) Name() string { return p.name }

func (p *recorderPlugin) OnInit(_ context.Context, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inits++
	return p.failWith
}

func (p *recorderPlugin) OnShutdown(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shutdowns++
	return nil
}

func (p *recorderPlugin) OnStockAdjusted(_ context.Context, entry interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.adjusted = append(p.adjusted, entry)
	return p.failWith
}

func (p *recorderPlugin) OnStockClamped(_ context.Context, ingredientID string, _, _ float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clamped = append(p.clamped, ingredientID)
	return nil
}

func (p *recorderPlugin) OnSalesFlushed(_ context.Context, count int, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flushCounts = append(p.flushCounts, count)
	return nil
}

// parOnlyPolicy orders a fixed multiple of the par shortfall.
type parOnlyPolicy struct {
	multiplier float64
}

func (p *parOnlyPolicy) Name() string       { return "double-par" }
func (p *parOnlyPolicy) PolicyName() string { return "double-par" }
func (p *parOnlyPolicy) OrderQuantity(stock, _, parLevel float64) float64 {
	if stock >= parLevel {
		return 0
	}
	return (parLevel - stock) * p.multiplier
}

// chatBackend is a minimal completer plugin.
type chatBackend struct{}

func (chatBackend) Name() string           { return "chat-backend" }
func (chatBackend) Completer() interface{} { return "stub" }

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	p := &recorderPlugin{name: "recorder"}
	if err := r.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1", r.Count())
	}
	if got := r.Get("recorder"); got != Plugin(p) {
		t.Errorf("Get returned %v", got)
	}
	if got := r.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}
	if list := r.List(); len(list) != 1 {
		t.Errorf("List = %d plugins, want 1", len(list))
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&recorderPlugin{name: "recorder"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&recorderPlugin{name: "recorder"}); err == nil {
		t.Error("expected error for duplicate name")
	}
	if r.Count() != 1 {
		t.Errorf("Count = %d after rejected duplicate, want 1", r.Count())
	}
}

func TestEmitDispatch(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	p := &recorderPlugin{name: "recorder"}
	if err := r.Register(p); err != nil {
		t.Fatal(err)
	}

	r.EmitInit(ctx, nil)
	r.EmitStockAdjusted(ctx, "entry-1")
	r.EmitStockAdjusted(ctx, "entry-2")
	r.EmitStockClamped(ctx, "ing_x", 750, 500)
	r.EmitSalesFlushed(ctx, 42, time.Millisecond)
	r.EmitShutdown(ctx)

	// Events the plugin does not implement must not panic.
	r.EmitSaleRecorded(ctx, nil)
	r.EmitLowStock(ctx, nil)
	r.EmitPurchaseOrderGenerated(ctx, nil)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inits != 1 || p.shutdowns != 1 {
		t.Errorf("inits=%d shutdowns=%d, want 1/1", p.inits, p.shutdowns)
	}
	if len(p.adjusted) != 2 {
		t.Errorf("adjusted events = %d, want 2", len(p.adjusted))
	}
	if len(p.clamped) != 1 || p.clamped[0] != "ing_x" {
		t.Errorf("clamped events = %v", p.clamped)
	}
	if len(p.flushCounts) != 1 || p.flushCounts[0] != 42 {
		t.Errorf("flush counts = %v", p.flushCounts)
	}
}

func TestEmitContinuesAfterPluginError(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	failing := &recorderPlugin{name: "failing", failWith: errors.New("boom")}
	healthy := &recorderPlugin{name: "healthy"}
	if err := r.Register(failing); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(healthy); err != nil {
		t.Fatal(err)
	}

	r.EmitStockAdjusted(ctx, "entry")

	healthy.mu.Lock()
	defer healthy.mu.Unlock()
	if len(healthy.adjusted) != 1 {
		t.Error("healthy plugin skipped after another plugin failed")
	}
}

func TestGetOrderPolicy(t *testing.T) {
	r := NewRegistry()

	policy := &parOnlyPolicy{multiplier: 2}
	if err := r.Register(policy); err != nil {
		t.Fatal(err)
	}

	got := r.GetOrderPolicy("double-par")
	if got == nil {
		t.Fatal("policy not found by name")
	}
	if qty := got.OrderQuantity(400, 500, 4000); qty != 7200 {
		t.Errorf("OrderQuantity = %v, want 7200", qty)
	}

	if r.GetOrderPolicy("missing") != nil {
		t.Error("expected nil for unknown policy name")
	}
}

func TestGetCompleters(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(chatBackend{}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&recorderPlugin{name: "recorder"}); err != nil {
		t.Fatal(err)
	}

	completers := r.GetCompleters()
	if len(completers) != 1 {
		t.Fatalf("expected 1 completer, got %d", len(completers))
	}
	if completers[0].Completer() != "stub" {
		t.Errorf("unexpected completer payload: %v", completers[0].Completer())
	}
}
