// Package audithook bridges Larder lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not depend on a
// concrete audit system. Callers inject a RecorderFunc adapter that bridges
// to their backend at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/larder/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                   = (*Extension)(nil)
	_ plugin.OnIngredientCreated      = (*Extension)(nil)
	_ plugin.OnIngredientUpdated      = (*Extension)(nil)
	_ plugin.OnStockAdjusted          = (*Extension)(nil)
	_ plugin.OnStockClamped           = (*Extension)(nil)
	_ plugin.OnLowStock               = (*Extension)(nil)
	_ plugin.OnSaleRecorded           = (*Extension)(nil)
	_ plugin.OnSaleDepleted           = (*Extension)(nil)
	_ plugin.OnSalesFlushed           = (*Extension)(nil)
	_ plugin.OnStatusChecked          = (*Extension)(nil)
	_ plugin.OnPurchaseOrderGenerated = (*Extension)(nil)
	_ plugin.OnPurchaseOrderSubmitted = (*Extension)(nil)
	_ plugin.OnPurchaseOrderReceived  = (*Extension)(nil)
	_ plugin.OnPurchaseOrderCanceled  = (*Extension)(nil)
	_ plugin.OnOnboardingStarted      = (*Extension)(nil)
	_ plugin.OnOnboardingAdvanced     = (*Extension)(nil)
	_ plugin.OnOnboardingCompleted    = (*Extension)(nil)
	_ plugin.OnSuggestionReady        = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// It is defined locally so that the audit_hook package does not import any
// particular audit system — callers inject the concrete recorder at wiring
// time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Larder lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Ingredient lifecycle hooks
// ──────────────────────────────────────────────────

// OnIngredientCreated implements plugin.OnIngredientCreated.
func (e *Extension) OnIngredientCreated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionIngredientCreated, SeverityInfo, OutcomeSuccess,
		ResourceIngredient, "", CategoryInventory, nil,
		"event", "ingredient_created",
	)
}

// OnIngredientUpdated implements plugin.OnIngredientUpdated.
func (e *Extension) OnIngredientUpdated(ctx context.Context, _, _ interface{}) error {
	return e.record(ctx, ActionIngredientUpdated, SeverityInfo, OutcomeSuccess,
		ResourceIngredient, "", CategoryInventory, nil,
		"event", "ingredient_updated",
	)
}

// OnStockAdjusted implements plugin.OnStockAdjusted.
func (e *Extension) OnStockAdjusted(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionStockAdjusted, SeverityInfo, OutcomeSuccess,
		ResourceIngredient, "", CategoryInventory, nil,
		"event", "stock_adjusted",
	)
}

// OnStockClamped implements plugin.OnStockClamped. A clamp means the books
// said less stock existed than a sale consumed, so it is always flagged.
func (e *Extension) OnStockClamped(ctx context.Context, ingredientID string, wanted, available float64) error {
	return e.record(ctx, ActionStockClamped, SeverityWarning, OutcomePartial,
		ResourceIngredient, ingredientID, CategoryInventory, nil,
		"ingredient_id", ingredientID,
		"wanted", wanted,
		"available", available,
		"deficit", wanted-available,
	)
}

// OnLowStock implements plugin.OnLowStock.
func (e *Extension) OnLowStock(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionLowStock, SeverityWarning, OutcomeSuccess,
		ResourceIngredient, "", CategoryInventory, nil,
		"event", "low_stock",
	)
}

// ──────────────────────────────────────────────────
// Sale hooks
// ──────────────────────────────────────────────────

// OnSaleRecorded implements plugin.OnSaleRecorded.
func (e *Extension) OnSaleRecorded(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionSaleRecorded, SeverityInfo, OutcomeSuccess,
		ResourceSale, "", CategorySales, nil,
		"event", "sale_recorded",
	)
}

// OnSaleDepleted implements plugin.OnSaleDepleted.
func (e *Extension) OnSaleDepleted(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionSaleDepleted, SeverityInfo, OutcomeSuccess,
		ResourceSale, "", CategorySales, nil,
		"event", "sale_depleted",
	)
}

// OnSalesFlushed implements plugin.OnSalesFlushed.
func (e *Extension) OnSalesFlushed(ctx context.Context, count int, elapsed time.Duration) error {
	return e.record(ctx, ActionSalesFlushed, SeverityInfo, OutcomeSuccess,
		ResourceSale, "", CategorySales, nil,
		"count", count,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// OnStatusChecked implements plugin.OnStatusChecked.
func (e *Extension) OnStatusChecked(_ context.Context, _ interface{}) error {
	// Status checks fire on every read; low-stock findings come through
	// OnLowStock instead so the trail stays useful.
	return nil
}

// ──────────────────────────────────────────────────
// Purchase order lifecycle hooks
// ──────────────────────────────────────────────────

// OnPurchaseOrderGenerated implements plugin.OnPurchaseOrderGenerated.
func (e *Extension) OnPurchaseOrderGenerated(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionOrderGenerated, SeverityInfo, OutcomeSuccess,
		ResourceOrder, "", CategoryProcurement, nil,
		"event", "order_generated",
	)
}

// OnPurchaseOrderSubmitted implements plugin.OnPurchaseOrderSubmitted.
func (e *Extension) OnPurchaseOrderSubmitted(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionOrderSubmitted, SeverityInfo, OutcomeSuccess,
		ResourceOrder, "", CategoryProcurement, nil,
		"event", "order_submitted",
	)
}

// OnPurchaseOrderReceived implements plugin.OnPurchaseOrderReceived.
func (e *Extension) OnPurchaseOrderReceived(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionOrderReceived, SeverityInfo, OutcomeSuccess,
		ResourceOrder, "", CategoryProcurement, nil,
		"event", "order_received",
	)
}

// OnPurchaseOrderCanceled implements plugin.OnPurchaseOrderCanceled.
func (e *Extension) OnPurchaseOrderCanceled(ctx context.Context, _ interface{}, reason string) error {
	return e.record(ctx, ActionOrderCanceled, SeverityWarning, OutcomeSuccess,
		ResourceOrder, "", CategoryProcurement, nil,
		"event", "order_canceled",
		"cancel_reason", reason,
	)
}

// ──────────────────────────────────────────────────
// Onboarding hooks
// ──────────────────────────────────────────────────

// OnOnboardingStarted implements plugin.OnOnboardingStarted.
func (e *Extension) OnOnboardingStarted(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionOnboardingStarted, SeverityInfo, OutcomeSuccess,
		ResourceOnboarding, "", CategoryOnboarding, nil,
		"event", "onboarding_started",
	)
}

// OnOnboardingAdvanced implements plugin.OnOnboardingAdvanced.
func (e *Extension) OnOnboardingAdvanced(ctx context.Context, _ interface{}, step string) error {
	return e.record(ctx, ActionOnboardingAdvanced, SeverityInfo, OutcomeSuccess,
		ResourceOnboarding, "", CategoryOnboarding, nil,
		"step", step,
	)
}

// OnOnboardingCompleted implements plugin.OnOnboardingCompleted.
func (e *Extension) OnOnboardingCompleted(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionOnboardingCompleted, SeverityInfo, OutcomeSuccess,
		ResourceOnboarding, "", CategoryOnboarding, nil,
		"event", "onboarding_completed",
	)
}

// ──────────────────────────────────────────────────
// Suggestion hooks
// ──────────────────────────────────────────────────

// OnSuggestionReady implements plugin.OnSuggestionReady.
func (e *Extension) OnSuggestionReady(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionSuggestionReady, SeverityInfo, OutcomeSuccess,
		ResourceSuggestion, "", CategoryAdvisory, nil,
		"event", "suggestion_ready",
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
