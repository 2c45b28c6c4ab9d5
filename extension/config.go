package extension

import "time"

// Config holds the Larder extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.larder" or "larder" keys).
type Config struct {
	// DisableRoutes prevents HTTP route registration.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// BasePath is the URL prefix for larder routes (default: "/larder").
	BasePath string `json:"base_path" mapstructure:"base_path" yaml:"base_path"`

	// SaleBatchSize is the number of sale events to buffer before flushing
	// through depletion (default: 100).
	SaleBatchSize int `json:"sale_batch_size" mapstructure:"sale_batch_size" yaml:"sale_batch_size"`

	// SaleFlushInterval is how frequently the sale buffer is flushed
	// even if the batch size has not been reached (default: 5s).
	SaleFlushInterval time.Duration `json:"sale_flush_interval" mapstructure:"sale_flush_interval" yaml:"sale_flush_interval"`

	// StatusCacheTTL controls how long stock status results are cached
	// before re-evaluating against the store (default: 30s).
	StatusCacheTTL time.Duration `json:"status_cache_ttl" mapstructure:"status_cache_ttl" yaml:"status_cache_ttl"`

	// OrderPolicy names the registered order policy plugin used when
	// generating purchase orders. Empty means fill-to-par.
	OrderPolicy string `json:"order_policy" mapstructure:"order_policy" yaml:"order_policy"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SaleBatchSize:     100,
		SaleFlushInterval: 5 * time.Second,
		StatusCacheTTL:    30 * time.Second,
	}
}
