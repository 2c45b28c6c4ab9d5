// Package observability provides a metrics extension for Larder that records
// lifecycle event counts via a pluggable MetricFactory.
package observability

import (
	"context"
	"time"

	"github.com/xraph/larder/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                   = (*MetricsExtension)(nil)
	_ plugin.OnInit                   = (*MetricsExtension)(nil)
	_ plugin.OnIngredientCreated      = (*MetricsExtension)(nil)
	_ plugin.OnIngredientUpdated      = (*MetricsExtension)(nil)
	_ plugin.OnStockAdjusted          = (*MetricsExtension)(nil)
	_ plugin.OnStockClamped           = (*MetricsExtension)(nil)
	_ plugin.OnLowStock               = (*MetricsExtension)(nil)
	_ plugin.OnSaleRecorded           = (*MetricsExtension)(nil)
	_ plugin.OnSaleDepleted           = (*MetricsExtension)(nil)
	_ plugin.OnSalesFlushed           = (*MetricsExtension)(nil)
	_ plugin.OnStatusChecked          = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseOrderGenerated = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseOrderSubmitted = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseOrderReceived  = (*MetricsExtension)(nil)
	_ plugin.OnPurchaseOrderCanceled  = (*MetricsExtension)(nil)
	_ plugin.OnSuggestionReady        = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Larder plugin to automatically track inventory metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Ingredient metrics
	IngredientCreated Counter
	IngredientUpdated Counter
	StockAdjustments  Counter
	StockClamps       Counter
	ClampDeficit      Histogram
	LowStockAlerts    Counter

	// Sale metrics
	SalesRecorded    Counter
	SalesDepleted    Counter
	SaleFlushSize    Histogram
	SaleFlushLatency Histogram

	// Status metrics
	StatusChecks Counter

	// Purchase order metrics
	OrdersGenerated Counter
	OrdersSubmitted Counter
	OrdersReceived  Counter
	OrdersCanceled  Counter

	// Suggestion metrics
	SuggestionsReady Counter

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Ingredient metrics
		IngredientCreated: factory.Counter("larder.ingredient.created"),
		IngredientUpdated: factory.Counter("larder.ingredient.updated"),
		StockAdjustments:  factory.Counter("larder.stock.adjustments"),
		StockClamps:       factory.Counter("larder.stock.clamps"),
		ClampDeficit:      factory.Histogram("larder.stock.clamp_deficit"),
		LowStockAlerts:    factory.Counter("larder.stock.low_alerts"),

		// Sale metrics
		SalesRecorded:    factory.Counter("larder.sale.recorded"),
		SalesDepleted:    factory.Counter("larder.sale.depleted"),
		SaleFlushSize:    factory.Histogram("larder.sale.flush.size"),
		SaleFlushLatency: factory.Histogram("larder.sale.flush.latency_ms"),

		// Status metrics
		StatusChecks: factory.Counter("larder.status.checks"),

		// Purchase order metrics
		OrdersGenerated: factory.Counter("larder.order.generated"),
		OrdersSubmitted: factory.Counter("larder.order.submitted"),
		OrdersReceived:  factory.Counter("larder.order.received"),
		OrdersCanceled:  factory.Counter("larder.order.canceled"),

		// Suggestion metrics
		SuggestionsReady: factory.Counter("larder.suggestion.ready"),

		// Error metrics
		StoreErrors:  factory.Counter("larder.store.errors"),
		PluginErrors: factory.Counter("larder.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Ingredient lifecycle hooks
// ──────────────────────────────────────────────────

// OnIngredientCreated implements plugin.OnIngredientCreated.
func (m *MetricsExtension) OnIngredientCreated(_ context.Context, _ interface{}) error {
	m.IngredientCreated.Inc()
	return nil
}

// OnIngredientUpdated implements plugin.OnIngredientUpdated.
func (m *MetricsExtension) OnIngredientUpdated(_ context.Context, _, _ interface{}) error {
	m.IngredientUpdated.Inc()
	return nil
}

// OnStockAdjusted implements plugin.OnStockAdjusted.
func (m *MetricsExtension) OnStockAdjusted(_ context.Context, _ interface{}) error {
	m.StockAdjustments.Inc()
	return nil
}

// OnStockClamped implements plugin.OnStockClamped.
func (m *MetricsExtension) OnStockClamped(_ context.Context, _ string, wanted, available float64) error {
	m.StockClamps.Inc()
	m.ClampDeficit.Observe(wanted - available)
	return nil
}

// OnLowStock implements plugin.OnLowStock.
func (m *MetricsExtension) OnLowStock(_ context.Context, _ interface{}) error {
	m.LowStockAlerts.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Sale hooks
// ──────────────────────────────────────────────────

// OnSaleRecorded implements plugin.OnSaleRecorded.
func (m *MetricsExtension) OnSaleRecorded(_ context.Context, _ interface{}) error {
	m.SalesRecorded.Inc()
	return nil
}

// OnSaleDepleted implements plugin.OnSaleDepleted.
func (m *MetricsExtension) OnSaleDepleted(_ context.Context, _ interface{}) error {
	m.SalesDepleted.Inc()
	return nil
}

// OnSalesFlushed implements plugin.OnSalesFlushed.
func (m *MetricsExtension) OnSalesFlushed(_ context.Context, count int, elapsed time.Duration) error {
	m.SaleFlushSize.Observe(float64(count))
	m.SaleFlushLatency.Observe(float64(elapsed.Milliseconds()))
	return nil
}

// ──────────────────────────────────────────────────
// Alert hooks
// ──────────────────────────────────────────────────

// OnStatusChecked implements plugin.OnStatusChecked.
func (m *MetricsExtension) OnStatusChecked(_ context.Context, _ interface{}) error {
	m.StatusChecks.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Purchase order lifecycle hooks
// ──────────────────────────────────────────────────

// OnPurchaseOrderGenerated implements plugin.OnPurchaseOrderGenerated.
func (m *MetricsExtension) OnPurchaseOrderGenerated(_ context.Context, _ interface{}) error {
	m.OrdersGenerated.Inc()
	return nil
}

// OnPurchaseOrderSubmitted implements plugin.OnPurchaseOrderSubmitted.
func (m *MetricsExtension) OnPurchaseOrderSubmitted(_ context.Context, _ interface{}) error {
	m.OrdersSubmitted.Inc()
	return nil
}

// OnPurchaseOrderReceived implements plugin.OnPurchaseOrderReceived.
func (m *MetricsExtension) OnPurchaseOrderReceived(_ context.Context, _ interface{}) error {
	m.OrdersReceived.Inc()
	return nil
}

// OnPurchaseOrderCanceled implements plugin.OnPurchaseOrderCanceled.
func (m *MetricsExtension) OnPurchaseOrderCanceled(_ context.Context, _ interface{}, _ string) error {
	m.OrdersCanceled.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Suggestion hooks
// ──────────────────────────────────────────────────

// OnSuggestionReady implements plugin.OnSuggestionReady.
func (m *MetricsExtension) OnSuggestionReady(_ context.Context, _ interface{}) error {
	m.SuggestionsReady.Inc()
	return nil
}
