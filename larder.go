package larder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/larder/alert"
	"github.com/xraph/larder/id"
	"github.com/xraph/larder/ingredient"
	"github.com/xraph/larder/journal"
	"github.com/xraph/larder/plugin"
	"github.com/xraph/larder/sale"
	"github.com/xraph/larder/store"
	"github.com/xraph/larder/suggest"
	"github.com/xraph/larder/types"
)

// Larder is the main back-of-house engine.
type Larder struct {
	store     store.Store
	plugins   *plugin.Registry
	logger    *slog.Logger
	completer suggest.Completer

	// Background workers
	saleBuffer chan *sale.Event
	feeds      []sale.Feed
	stopChan   chan struct{}
	wg         sync.WaitGroup

	// Configuration
	saleBatchSize     int
	saleFlushInterval time.Duration
	statusCacheTTL    time.Duration
	orderPolicy       string
}

// New creates a new Larder instance.
func New(s store.Store, opts ...Option) *Larder {
	l := &Larder{
		store:             s,
		plugins:           plugin.NewRegistry(),
		logger:            slog.Default(),
		saleBuffer:        make(chan *sale.Event, 10000),
		stopChan:          make(chan struct{}),
		saleBatchSize:     100,
		saleFlushInterval: 5 * time.Second,
		statusCacheTTL:    30 * time.Second,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Larder instance.
type Option func(*Larder)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Larder) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Larder) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithSaleConfig configures sale ingestion parameters.
func WithSaleConfig(batchSize int, flushInterval time.Duration) Option {
	return func(l *Larder) {
		l.saleBatchSize = batchSize
		l.saleFlushInterval = flushInterval
	}
}

// WithStatusCacheTTL sets the stock status cache TTL.
func WithStatusCacheTTL(ttl time.Duration) Option {
	return func(l *Larder) {
		l.statusCacheTTL = ttl
	}
}

// WithCompleter sets the chat completion backend for suggestions.
func WithCompleter(c suggest.Completer) Option {
	return func(l *Larder) {
		l.completer = c
	}
}

// WithFeed attaches a sale feed consumed once Start is called.
func WithFeed(f sale.Feed) Option {
	return func(l *Larder) {
		l.feeds = append(l.feeds, f)
	}
}

// WithOrderPolicy selects a registered order policy plugin by name for
// purchase order generation. Defaults to filling to par.
func WithOrderPolicy(name string) Option {
	return func(l *Larder) {
		l.orderPolicy = name
	}
}

// Start begins background workers.
func (l *Larder) Start(ctx context.Context) error {
	// Migrate database
	if err := l.store.Migrate(ctx); err != nil {
		return err
	}

	// Initialize plugins
	l.plugins.EmitInit(ctx, l)

	// Start sale flush worker
	l.wg.Add(1)
	go l.saleFlushWorker(ctx)

	// Consume attached feeds
	for _, f := range l.feeds {
		events, err := f.Events(ctx)
		if err != nil {
			return fmt.Errorf("larder: attach feed: %w", err)
		}
		l.wg.Add(1)
		go l.consumeFeed(ctx, events)
	}

	l.logger.Info("larder started",
		"batch_size", l.saleBatchSize,
		"flush_interval", l.saleFlushInterval,
		"cache_ttl", l.statusCacheTTL,
		"feeds", len(l.feeds),
	)

	return nil
}

// Stop shuts down the Larder.
func (l *Larder) Stop() error {
	close(l.stopChan)
	l.wg.Wait()

	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	return l.store.Close()
}

// Plugins exposes the plugin registry.
func (l *Larder) Plugins() *plugin.Registry {
	return l.plugins
}

// AttachFeed registers a sale feed. Feeds attached after Start are not
// consumed until the next Start.
func (l *Larder) AttachFeed(f sale.Feed) {
	l.feeds = append(l.feeds, f)
}

// ──────────────────────────────────────────────────
// Sale recording and depletion
// ──────────────────────────────────────────────────

// DepletionResult reports what a sale event did to inventory.
type DepletionResult struct {
	SaleID    id.SaleEventID  `json:"sale_id"`
	Duplicate bool            `json:"duplicate"`
	Items     []ItemDepletion `json:"items"`
}

// ItemDepletion is the per-menu-item slice of a depletion result.
type ItemDepletion struct {
	RecipeID id.RecipeID     `json:"recipe_id"`
	Quantity int64           `json:"quantity"`
	Lines    []LineDepletion `json:"lines"`
}

// LineDepletion records one ingredient decrement. Consumed is the true
// theoretical consumption; when it exceeded available stock the write
// clamped at zero and Clamped is set.
type LineDepletion struct {
	IngredientID id.IngredientID   `json:"ingredient_id"`
	Consumed     float64           `json:"consumed"`
	Unit         types.Unit        `json:"unit"`
	Previous     float64           `json:"previous"`
	New          float64           `json:"new"`
	Clamped      bool              `json:"clamped"`
	JournalID    id.JournalEntryID `json:"journal_id"`
}

// RecordSale persists a sale event and runs it through depletion
// synchronously. Events carrying a previously seen idempotency key are
// dropped and reported as duplicates; keyless events always deplete.
func (l *Larder) RecordSale(ctx context.Context, event *sale.Event) (*DepletionResult, error) {
	if event.Empty() {
		return nil, ErrEmptySale
	}

	if event.ID == (id.SaleEventID{}) {
		event.ID = id.NewSaleEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	recorded, err := l.store.RecordSaleEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	if !recorded {
		l.logger.Debug("duplicate sale event dropped",
			"sale_id", event.ID,
			"idempotency_key", event.IdempotencyKey,
		)
		return &DepletionResult{SaleID: event.ID, Duplicate: true}, nil
	}

	l.plugins.EmitSaleRecorded(ctx, event)

	result, err := l.deplete(ctx, event)
	if err != nil {
		return result, err
	}

	l.plugins.EmitSaleDepleted(ctx, result)
	return result, nil
}

// Ingest enqueues a sale event for asynchronous processing (non-blocking).
// Empty events are a silent no-op.
func (l *Larder) Ingest(_ context.Context, event *sale.Event) error {
	if event.Empty() {
		return nil
	}

	select {
	case l.saleBuffer <- event:
		return nil
	default:
		return ErrSaleBufferFull
	}
}

// deplete walks every item of the sale through its recipe composition,
// applying one atomic clamped decrement and one journal entry per line.
// The first failure aborts the remaining lines; applied lines stay applied
// and the partial result is returned alongside the error.
func (l *Larder) deplete(ctx context.Context, event *sale.Event) (*DepletionResult, error) {
	result := &DepletionResult{SaleID: event.ID}
	source := fmt.Sprintf("sale:%s", event.ID)

	for _, item := range event.Items {
		if item.Quantity <= 0 || item.RecipeID.IsNil() {
			continue
		}

		rec, err := l.store.GetRecipe(ctx, item.RecipeID)
		if err != nil {
			return result, fmt.Errorf("deplete sale %s: recipe %s: %w", event.ID, item.RecipeID, err)
		}

		itemResult := ItemDepletion{RecipeID: item.RecipeID, Quantity: item.Quantity}

		for _, line := range rec.Lines {
			lineResult, err := l.depleteLine(ctx, line.IngredientID, line.Quantity, line.Unit, item.Quantity, source)
			if err != nil {
				result.Items = append(result.Items, itemResult)
				return result, fmt.Errorf("deplete sale %s: ingredient %s: %w", event.ID, line.IngredientID, err)
			}
			itemResult.Lines = append(itemResult.Lines, lineResult)
		}

		result.Items = append(result.Items, itemResult)
	}

	return result, nil
}

func (l *Larder) depleteLine(ctx context.Context, ingredientID id.IngredientID, lineQty float64, lineUnit types.Unit, saleQty int64, source string) (LineDepletion, error) {
	ing, err := l.store.GetIngredient(ctx, ingredientID)
	if err != nil {
		return LineDepletion{}, err
	}

	// Recipe lines may be written in a different unit than the ingredient
	// is stocked in.
	perUnit, err := types.Convert(lineQty, lineUnit, ing.Unit)
	if err != nil {
		return LineDepletion{}, fmt.Errorf("%w: %s to %s", ErrUnitMismatch, lineUnit, ing.Unit)
	}

	consumed := perUnit * float64(saleQty)

	change, err := l.store.ApplyStockDelta(ctx, ingredientID, -consumed)
	if err != nil {
		return LineDepletion{}, err
	}

	entry := &journal.Entry{
		ID:           id.NewJournalEntryID(),
		IngredientID: ingredientID,
		Kind:         journal.KindSale,
		Delta:        -consumed,
		Previous:     change.Previous,
		New:          change.New,
		Clamped:      change.Clamped,
		Source:       source,
		Timestamp:    time.Now(),
	}
	if err := l.store.AppendJournal(ctx, entry); err != nil {
		return LineDepletion{}, err
	}

	_ = l.store.InvalidateStatus(ctx, ingredientID) //nolint:errcheck // best-effort cache invalidation

	l.plugins.EmitStockAdjusted(ctx, entry)
	if change.Clamped {
		l.plugins.EmitStockClamped(ctx, ingredientID.String(), consumed, change.Previous)
		l.logger.Warn("stock clamped at zero",
			"ingredient_id", ingredientID,
			"wanted", consumed,
			"available", change.Previous,
		)
		l.classifyDeficit(ctx, ingredientID, consumed-change.Previous, source)
	}

	return LineDepletion{
		IngredientID: ingredientID,
		Consumed:     consumed,
		Unit:         ing.Unit,
		Previous:     change.Previous,
		New:          change.New,
		Clamped:      change.Clamped,
		JournalID:    entry.ID,
	}, nil
}

// classifyDeficit books a clamped deficit as waste when a registered
// classifier claims it; otherwise the deficit stays on the sale entry as
// shrinkage for review. The waste entry is bookkeeping only, stock is
// already at zero.
func (l *Larder) classifyDeficit(ctx context.Context, ingredientID id.IngredientID, deficit float64, source string) {
	for _, c := range l.plugins.GetWasteClassifiers() {
		isWaste, err := c.ClassifyWaste(ctx, ingredientID.String(), deficit)
		if err != nil {
			l.logger.Warn("waste classifier failed",
				"plugin", c.Name(),
				"error", err,
			)
			continue
		}
		if !isWaste {
			continue
		}

		entry := &journal.Entry{
			ID:           id.NewJournalEntryID(),
			IngredientID: ingredientID,
			Kind:         journal.KindWaste,
			Delta:        -deficit,
			Source:       source,
			Timestamp:    time.Now(),
		}
		if err := l.store.AppendJournal(ctx, entry); err != nil {
			l.logger.Error("failed to journal classified waste",
				"error", err,
				"ingredient_id", ingredientID,
			)
		}
		return
	}
}

// consumeFeed forwards feed events into the sale buffer until the feed
// closes or the engine stops.
func (l *Larder) consumeFeed(ctx context.Context, events <-chan *sale.Event) {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopChan:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := l.Ingest(ctx, event); err != nil {
				l.logger.Error("failed to ingest feed event",
					"error", err,
					"sale_id", event.ID,
				)
			}
		}
	}
}

// saleFlushWorker flushes buffered sale events through depletion.
func (l *Larder) saleFlushWorker(ctx context.Context) {
	defer l.wg.Done()

	batch := make([]*sale.Event, 0, l.saleBatchSize)
	ticker := time.NewTicker(l.saleFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			// Final flush
			if len(batch) > 0 {
				l.flushSaleBatch(ctx, batch)
			}
			return

		case event := <-l.saleBuffer:
			batch = append(batch, event)
			if len(batch) >= l.saleBatchSize {
				l.flushSaleBatch(ctx, batch)
				batch = make([]*sale.Event, 0, l.saleBatchSize)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				l.flushSaleBatch(ctx, batch)
				batch = make([]*sale.Event, 0, l.saleBatchSize)
			}
		}
	}
}

// flushSaleBatch runs each buffered event through depletion. Failures are
// logged and dropped, not retried; the journal shows what applied.
func (l *Larder) flushSaleBatch(ctx context.Context, batch []*sale.Event) {
	start := time.Now()

	for _, event := range batch {
		if _, err := l.RecordSale(ctx, event); err != nil {
			l.logger.Error("failed to process sale event",
				"error", err,
				"sale_id", event.ID,
			)
		}
	}

	elapsed := time.Since(start)
	l.plugins.EmitSalesFlushed(ctx, len(batch), elapsed)

	l.logger.Debug("flushed sale batch",
		"batch_size", len(batch),
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// ──────────────────────────────────────────────────
// Stock journal
// ──────────────────────────────────────────────────

// QueryJournal returns journal entries for an ingredient, newest unordered
// per store semantics.
func (l *Larder) QueryJournal(ctx context.Context, ingredientID id.IngredientID, opts journal.QueryOpts) ([]*journal.Entry, error) {
	return l.store.QueryJournal(ctx, ingredientID, opts)
}

// AdjustStock applies a manual stock change (receiving, waste, transfer,
// physical count correction) and journals it.
func (l *Larder) AdjustStock(ctx context.Context, ingredientID id.IngredientID, delta float64, kind journal.Kind, source, actorID string) (*journal.Entry, error) {
	if kind == journal.KindSale {
		return nil, fmt.Errorf("%w: sale entries come from depletion", ErrInvalidInput)
	}

	change, err := l.store.ApplyStockDelta(ctx, ingredientID, delta)
	if err != nil {
		return nil, err
	}

	entry := &journal.Entry{
		ID:           id.NewJournalEntryID(),
		IngredientID: ingredientID,
		Kind:         kind,
		Delta:        delta,
		Previous:     change.Previous,
		New:          change.New,
		Clamped:      change.Clamped,
		Source:       source,
		ActorID:      actorID,
		Timestamp:    time.Now(),
	}
	if err := l.store.AppendJournal(ctx, entry); err != nil {
		return nil, err
	}

	_ = l.store.InvalidateStatus(ctx, ingredientID) //nolint:errcheck // best-effort cache invalidation
	l.plugins.EmitStockAdjusted(ctx, entry)

	return entry, nil
}

// ──────────────────────────────────────────────────
// Stock alerts
// ──────────────────────────────────────────────────

// StockStatus reports the low-stock assessment for one ingredient.
// Results are cached with a TTL; any stock mutation invalidates the entry.
func (l *Larder) StockStatus(ctx context.Context, ingredientID id.IngredientID) (*alert.Status, error) {
	if cached, err := l.store.GetCachedStatus(ctx, ingredientID); err == nil {
		return cached, nil
	}

	ing, err := l.store.GetIngredient(ctx, ingredientID)
	if err != nil {
		return nil, err
	}

	status := &alert.Status{
		IngredientID: ing.ID,
		Name:         ing.Name,
		Stock:        ing.Stock,
		ReorderPoint: ing.ReorderPoint,
		ParLevel:     ing.ParLevel,
	}

	if ing.BelowReorder() {
		status.Low = true
		status.SuggestedOrder = l.orderQuantity(ing.Stock, ing.ReorderPoint, ing.ParLevel)
		status.Reason = "stock at or below reorder point"
	}

	_ = l.store.SetCachedStatus(ctx, ingredientID, status, l.statusCacheTTL) //nolint:errcheck // best-effort cache set
	l.plugins.EmitStatusChecked(ctx, status)

	if status.Low {
		l.plugins.EmitLowStock(ctx, status)
	}

	return status, nil
}

// LowStock returns the status of every ingredient at or below its reorder
// point for a location.
func (l *Larder) LowStock(ctx context.Context, locationID string) ([]*alert.Status, error) {
	ings, err := l.store.ListIngredients(ctx, locationID, ingredient.ListOpts{BelowReorder: true})
	if err != nil {
		return nil, err
	}

	statuses := make([]*alert.Status, 0, len(ings))
	for _, ing := range ings {
		status, err := l.StockStatus(ctx, ing.ID)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// orderQuantity asks the configured order policy plugin, falling back to
// filling to par.
func (l *Larder) orderQuantity(stock, reorderPoint, parLevel float64) float64 {
	if l.orderPolicy != "" {
		if policy := l.plugins.GetOrderPolicy(l.orderPolicy); policy != nil {
			return policy.OrderQuantity(stock, reorderPoint, parLevel)
		}
	}
	if stock >= parLevel {
		return 0
	}
	return parLevel - stock
}
