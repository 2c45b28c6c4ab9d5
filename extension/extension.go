// Package extension provides the Forge extension adapter for Larder.
//
// It implements the forge.Extension interface to integrate Larder
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.larder" or "larder" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	larder "github.com/xraph/larder"
	"github.com/xraph/larder/store"
	"github.com/xraph/larder/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "larder"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Restaurant inventory and recipe costing engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Larder as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *larder.Larder
	store      store.Store
	larderOpts []larder.Option
}

// New creates a new Larder Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Larder instance.
// This is nil until Register is called.
func (e *Extension) Engine() *larder.Larder { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the larder engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	// Build larder options from resolved config.
	opts := e.buildLarderOpts()

	eng := larder.New(e.store, opts...)
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*larder.Larder, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("larder: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("larder: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildLarderOpts constructs larder.Option values from the resolved config.
func (e *Extension) buildLarderOpts() []larder.Option {
	opts := make([]larder.Option, 0, len(e.larderOpts)+3)

	// Apply config-derived options.
	if e.config.SaleBatchSize > 0 || e.config.SaleFlushInterval > 0 {
		batchSize := e.config.SaleBatchSize
		flushInterval := e.config.SaleFlushInterval
		defaults := DefaultConfig()
		if batchSize == 0 {
			batchSize = defaults.SaleBatchSize
		}
		if flushInterval == 0 {
			flushInterval = defaults.SaleFlushInterval
		}
		opts = append(opts, larder.WithSaleConfig(batchSize, flushInterval))
	}

	if e.config.StatusCacheTTL > 0 {
		opts = append(opts, larder.WithStatusCacheTTL(e.config.StatusCacheTTL))
	}

	if e.config.OrderPolicy != "" {
		opts = append(opts, larder.WithOrderPolicy(e.config.OrderPolicy))
	}

	// Append any pass-through larder options.
	opts = append(opts, e.larderOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("larder: configuration is required but not found in config files; " +
				"ensure 'extensions.larder' or 'larder' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("larder: configuration loaded",
		forge.F("disable_routes", e.config.DisableRoutes),
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("base_path", e.config.BasePath),
		forge.F("sale_batch_size", e.config.SaleBatchSize),
		forge.F("sale_flush_interval", e.config.SaleFlushInterval),
		forge.F("status_cache_ttl", e.config.StatusCacheTTL),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.larder" first (namespaced pattern).
	if cm.IsSet("extensions.larder") {
		if err := cm.Bind("extensions.larder", &cfg); err == nil {
			e.Logger().Debug("larder: loaded config from file",
				forge.F("key", "extensions.larder"),
			)
			return cfg, true
		}
		e.Logger().Warn("larder: failed to bind extensions.larder config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "larder" key.
	if cm.IsSet("larder") {
		if err := cm.Bind("larder", &cfg); err == nil {
			e.Logger().Debug("larder: loaded config from file",
				forge.F("key", "larder"),
			)
			return cfg, true
		}
		e.Logger().Warn("larder: failed to bind larder config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.SaleBatchSize == 0 {
		cfg.SaleBatchSize = defaults.SaleBatchSize
	}
	if cfg.SaleFlushInterval == 0 {
		cfg.SaleFlushInterval = defaults.SaleFlushInterval
	}
	if cfg.StatusCacheTTL == 0 {
		cfg.StatusCacheTTL = defaults.StatusCacheTTL
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableRoutes {
		yamlConfig.DisableRoutes = true
	}
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.BasePath == "" && programmaticConfig.BasePath != "" {
		yamlConfig.BasePath = programmaticConfig.BasePath
	}
	if yamlConfig.OrderPolicy == "" && programmaticConfig.OrderPolicy != "" {
		yamlConfig.OrderPolicy = programmaticConfig.OrderPolicy
	}

	// Duration/int fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.SaleBatchSize == 0 && programmaticConfig.SaleBatchSize != 0 {
		yamlConfig.SaleBatchSize = programmaticConfig.SaleBatchSize
	}
	if yamlConfig.SaleFlushInterval == 0 && programmaticConfig.SaleFlushInterval != 0 {
		yamlConfig.SaleFlushInterval = programmaticConfig.SaleFlushInterval
	}
	if yamlConfig.StatusCacheTTL == 0 && programmaticConfig.StatusCacheTTL != 0 {
		yamlConfig.StatusCacheTTL = programmaticConfig.StatusCacheTTL
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
