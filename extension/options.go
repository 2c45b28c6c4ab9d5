package extension

import (
	"time"

	larder "github.com/xraph/larder"
	"github.com/xraph/larder/plugin"
	"github.com/xraph/larder/store"
)

// Option configures the Larder Forge extension.
type Option func(*Extension)

// WithStore sets the store for the larder engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithLarderOption passes a larder.Option through to the underlying engine.
func WithLarderOption(opt larder.Option) Option {
	return func(e *Extension) {
		e.larderOpts = append(e.larderOpts, opt)
	}
}

// WithPlugin registers a larder plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.larderOpts = append(e.larderOpts, larder.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableRoutes prevents HTTP route registration.
func WithDisableRoutes() Option {
	return func(e *Extension) { e.config.DisableRoutes = true }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithBasePath sets the URL prefix for larder routes.
func WithBasePath(path string) Option {
	return func(e *Extension) { e.config.BasePath = path }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithSaleBatchSize sets the number of sale events to buffer before flushing.
func WithSaleBatchSize(size int) Option {
	return func(e *Extension) { e.config.SaleBatchSize = size }
}

// WithSaleFlushInterval sets how frequently the sale buffer is flushed.
func WithSaleFlushInterval(d time.Duration) Option {
	return func(e *Extension) { e.config.SaleFlushInterval = d }
}

// WithStatusCacheTTL sets the stock status cache duration.
func WithStatusCacheTTL(d time.Duration) Option {
	return func(e *Extension) { e.config.StatusCacheTTL = d }
}

// WithOrderPolicy names the order policy plugin used when generating
// purchase orders.
func WithOrderPolicy(name string) Option {
	return func(e *Extension) { e.config.OrderPolicy = name }
}
