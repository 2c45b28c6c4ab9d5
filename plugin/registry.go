package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                   []OnInit
	onShutdown               []OnShutdown
	onIngredientCreated      []OnIngredientCreated
	onIngredientUpdated      []OnIngredientUpdated
	onStockAdjusted          []OnStockAdjusted
	onStockClamped           []OnStockClamped
	onLowStock               []OnLowStock
	onRecipeCreated          []OnRecipeCreated
	onRecipeUpdated          []OnRecipeUpdated
	onSaleRecorded           []OnSaleRecorded
	onSaleDepleted           []OnSaleDepleted
	onSalesFlushed           []OnSalesFlushed
	onStatusChecked          []OnStatusChecked
	onPurchaseOrderGenerated []OnPurchaseOrderGenerated
	onPurchaseOrderSubmitted []OnPurchaseOrderSubmitted
	onPurchaseOrderReceived  []OnPurchaseOrderReceived
	onPurchaseOrderCanceled  []OnPurchaseOrderCanceled
	onOnboardingStarted      []OnOnboardingStarted
	onOnboardingAdvanced     []OnOnboardingAdvanced
	onOnboardingCompleted    []OnOnboardingCompleted
	onSuggestionReady        []OnSuggestionReady
	completers               []CompleterPlugin
	orderPolicies            map[string]OrderPolicy
	wasteClassifiers         []WasteClassifier
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:        slog.Default(),
		orderPolicies: make(map[string]OrderPolicy),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnIngredientCreated); ok {
		r.onIngredientCreated = append(r.onIngredientCreated, v)
	}
	if v, ok := p.(OnIngredientUpdated); ok {
		r.onIngredientUpdated = append(r.onIngredientUpdated, v)
	}
	if v, ok := p.(OnStockAdjusted); ok {
		r.onStockAdjusted = append(r.onStockAdjusted, v)
	}
	if v, ok := p.(OnStockClamped); ok {
		r.onStockClamped = append(r.onStockClamped, v)
	}
	if v, ok := p.(OnLowStock); ok {
		r.onLowStock = append(r.onLowStock, v)
	}
	if v, ok := p.(OnRecipeCreated); ok {
		r.onRecipeCreated = append(r.onRecipeCreated, v)
	}
	if v, ok := p.(OnRecipeUpdated); ok {
		r.onRecipeUpdated = append(r.onRecipeUpdated, v)
	}
	if v, ok := p.(OnSaleRecorded); ok {
		r.onSaleRecorded = append(r.onSaleRecorded, v)
	}
	if v, ok := p.(OnSaleDepleted); ok {
		r.onSaleDepleted = append(r.onSaleDepleted, v)
	}
	if v, ok := p.(OnSalesFlushed); ok {
		r.onSalesFlushed = append(r.onSalesFlushed, v)
	}
	if v, ok := p.(OnStatusChecked); ok {
		r.onStatusChecked = append(r.onStatusChecked, v)
	}
	if v, ok := p.(OnPurchaseOrderGenerated); ok {
		r.onPurchaseOrderGenerated = append(r.onPurchaseOrderGenerated, v)
	}
	if v, ok := p.(OnPurchaseOrderSubmitted); ok {
		r.onPurchaseOrderSubmitted = append(r.onPurchaseOrderSubmitted, v)
	}
	if v, ok := p.(OnPurchaseOrderReceived); ok {
		r.onPurchaseOrderReceived = append(r.onPurchaseOrderReceived, v)
	}
	if v, ok := p.(OnPurchaseOrderCanceled); ok {
		r.onPurchaseOrderCanceled = append(r.onPurchaseOrderCanceled, v)
	}
	if v, ok := p.(OnOnboardingStarted); ok {
		r.onOnboardingStarted = append(r.onOnboardingStarted, v)
	}
	if v, ok := p.(OnOnboardingAdvanced); ok {
		r.onOnboardingAdvanced = append(r.onOnboardingAdvanced, v)
	}
	if v, ok := p.(OnOnboardingCompleted); ok {
		r.onOnboardingCompleted = append(r.onOnboardingCompleted, v)
	}
	if v, ok := p.(OnSuggestionReady); ok {
		r.onSuggestionReady = append(r.onSuggestionReady, v)
	}
	if v, ok := p.(CompleterPlugin); ok {
		r.completers = append(r.completers, v)
	}
	if v, ok := p.(OrderPolicy); ok {
		r.orderPolicies[v.PolicyName()] = v
	}
	if v, ok := p.(WasteClassifier); ok {
		r.wasteClassifiers = append(r.wasteClassifiers, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnIngredientCreated)(nil)).Elem(), "OnIngredientCreated")
	checkInterface(reflect.TypeOf((*OnStockAdjusted)(nil)).Elem(), "OnStockAdjusted")
	checkInterface(reflect.TypeOf((*OnSaleRecorded)(nil)).Elem(), "OnSaleRecorded")
	checkInterface(reflect.TypeOf((*OnSaleDepleted)(nil)).Elem(), "OnSaleDepleted")
	checkInterface(reflect.TypeOf((*OnLowStock)(nil)).Elem(), "OnLowStock")
	checkInterface(reflect.TypeOf((*OnPurchaseOrderGenerated)(nil)).Elem(), "OnPurchaseOrderGenerated")
	checkInterface(reflect.TypeOf((*CompleterPlugin)(nil)).Elem(), "Completer")
	checkInterface(reflect.TypeOf((*OrderPolicy)(nil)).Elem(), "OrderPolicy")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, larder interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, larder)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitIngredientCreated emits an ingredient created event.
func (r *Registry) EmitIngredientCreated(ctx context.Context, ing interface{}) {
	r.mu.RLock()
	plugins := r.onIngredientCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnIngredientCreated(ctx, ing)
		}); err != nil {
			r.logger.Warn("plugin OnIngredientCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitIngredientUpdated emits an ingredient updated event with the old and
// new records.
func (r *Registry) EmitIngredientUpdated(ctx context.Context, oldIng, newIng interface{}) {
	r.mu.RLock()
	plugins := r.onIngredientUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnIngredientUpdated(ctx, oldIng, newIng)
		}); err != nil {
			r.logger.Warn("plugin OnIngredientUpdated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStockAdjusted emits a stock adjusted event with the journal entry.
func (r *Registry) EmitStockAdjusted(ctx context.Context, entry interface{}) {
	r.mu.RLock()
	plugins := r.onStockAdjusted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStockAdjusted(ctx, entry)
		}); err != nil {
			r.logger.Warn("plugin OnStockAdjusted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStockClamped emits a clamped depletion event.
func (r *Registry) EmitStockClamped(ctx context.Context, ingredientID string, wanted, available float64) {
	r.mu.RLock()
	plugins := r.onStockClamped
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStockClamped(ctx, ingredientID, wanted, available)
		}); err != nil {
			r.logger.Warn("plugin OnStockClamped failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitLowStock emits a low stock event.
func (r *Registry) EmitLowStock(ctx context.Context, status interface{}) {
	r.mu.RLock()
	plugins := r.onLowStock
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnLowStock(ctx, status)
		}); err != nil {
			r.logger.Warn("plugin OnLowStock failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRecipeCreated emits a recipe created event.
func (r *Registry) EmitRecipeCreated(ctx context.Context, rec interface{}) {
	r.mu.RLock()
	plugins := r.onRecipeCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRecipeCreated(ctx, rec)
		}); err != nil {
			r.logger.Warn("plugin OnRecipeCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRecipeUpdated emits a recipe updated event with the old and new
// records.
func (r *Registry) EmitRecipeUpdated(ctx context.Context, oldRec, newRec interface{}) {
	r.mu.RLock()
	plugins := r.onRecipeUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRecipeUpdated(ctx, oldRec, newRec)
		}); err != nil {
			r.logger.Warn("plugin OnRecipeUpdated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSaleRecorded emits a sale recorded event.
func (r *Registry) EmitSaleRecorded(ctx context.Context, event interface{}) {
	r.mu.RLock()
	plugins := r.onSaleRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSaleRecorded(ctx, event)
		}); err != nil {
			r.logger.Warn("plugin OnSaleRecorded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSaleDepleted emits a sale depleted event with the depletion result.
func (r *Registry) EmitSaleDepleted(ctx context.Context, result interface{}) {
	r.mu.RLock()
	plugins := r.onSaleDepleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSaleDepleted(ctx, result)
		}); err != nil {
			r.logger.Warn("plugin OnSaleDepleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSalesFlushed emits a sales flushed event.
func (r *Registry) EmitSalesFlushed(ctx context.Context, count int, elapsed time.Duration) {
	r.mu.RLock()
	plugins := r.onSalesFlushed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSalesFlushed(ctx, count, elapsed)
		}); err != nil {
			r.logger.Warn("plugin OnSalesFlushed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStatusChecked emits a stock status checked event.
func (r *Registry) EmitStatusChecked(ctx context.Context, status interface{}) {
	r.mu.RLock()
	plugins := r.onStatusChecked
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStatusChecked(ctx, status)
		}); err != nil {
			r.logger.Warn("plugin OnStatusChecked failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPurchaseOrderGenerated emits a purchase order generated event.
func (r *Registry) EmitPurchaseOrderGenerated(ctx context.Context, po interface{}) {
	r.mu.RLock()
	plugins := r.onPurchaseOrderGenerated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPurchaseOrderGenerated(ctx, po)
		}); err != nil {
			r.logger.Warn("plugin OnPurchaseOrderGenerated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPurchaseOrderSubmitted emits a purchase order submitted event.
func (r *Registry) EmitPurchaseOrderSubmitted(ctx context.Context, po interface{}) {
	r.mu.RLock()
	plugins := r.onPurchaseOrderSubmitted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPurchaseOrderSubmitted(ctx, po)
		}); err != nil {
			r.logger.Warn("plugin OnPurchaseOrderSubmitted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPurchaseOrderReceived emits a purchase order received event.
func (r *Registry) EmitPurchaseOrderReceived(ctx context.Context, po interface{}) {
	r.mu.RLock()
	plugins := r.onPurchaseOrderReceived
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPurchaseOrderReceived(ctx, po)
		}); err != nil {
			r.logger.Warn("plugin OnPurchaseOrderReceived failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPurchaseOrderCanceled emits a purchase order canceled event.
func (r *Registry) EmitPurchaseOrderCanceled(ctx context.Context, po interface{}, reason string) {
	r.mu.RLock()
	plugins := r.onPurchaseOrderCanceled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPurchaseOrderCanceled(ctx, po, reason)
		}); err != nil {
			r.logger.Warn("plugin OnPurchaseOrderCanceled failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOnboardingStarted emits an onboarding started event.
func (r *Registry) EmitOnboardingStarted(ctx context.Context, progress interface{}) {
	r.mu.RLock()
	plugins := r.onOnboardingStarted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOnboardingStarted(ctx, progress)
		}); err != nil {
			r.logger.Warn("plugin OnOnboardingStarted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOnboardingAdvanced emits an onboarding advanced event.
func (r *Registry) EmitOnboardingAdvanced(ctx context.Context, progress interface{}, step string) {
	r.mu.RLock()
	plugins := r.onOnboardingAdvanced
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOnboardingAdvanced(ctx, progress, step)
		}); err != nil {
			r.logger.Warn("plugin OnOnboardingAdvanced failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitOnboardingCompleted emits an onboarding completed event.
func (r *Registry) EmitOnboardingCompleted(ctx context.Context, progress interface{}) {
	r.mu.RLock()
	plugins := r.onOnboardingCompleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnOnboardingCompleted(ctx, progress)
		}); err != nil {
			r.logger.Warn("plugin OnOnboardingCompleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSuggestionReady emits a suggestion ready event.
func (r *Registry) EmitSuggestionReady(ctx context.Context, suggestion interface{}) {
	r.mu.RLock()
	plugins := r.onSuggestionReady
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSuggestionReady(ctx, suggestion)
		}); err != nil {
			r.logger.Warn("plugin OnSuggestionReady failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// GetCompleters returns all registered completer plugins.
func (r *Registry) GetCompleters() []CompleterPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]CompleterPlugin, len(r.completers))
	copy(result, r.completers)
	return result
}

// GetOrderPolicy returns an order policy by name.
func (r *Registry) GetOrderPolicy(name string) OrderPolicy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.orderPolicies[name]
}

// GetWasteClassifiers returns all registered waste classifiers.
func (r *Registry) GetWasteClassifiers() []WasteClassifier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]WasteClassifier, len(r.wasteClassifiers))
	copy(result, r.wasteClassifiers)
	return result
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the depletion pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
