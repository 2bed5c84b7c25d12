package cli

import (
	"log/slog"

	"github.com/quotelens/quotedb/internal/cache"
	"github.com/quotelens/quotedb/internal/config"
	"github.com/quotelens/quotedb/internal/store"
)

// core bundles the composition root shared by the dataset-touching
// commands: config, the persistent store (possibly absent), and the cache
// manager that owns it.
type core struct {
	cfg     config.Config
	store   *store.Store // nil when the store could not be opened
	manager *cache.Manager
}

// openCore builds the composition root from the config file.
//
// A store that cannot be opened is a warning, not an error: the session
// continues memory-only and loses nothing but next-session durability.
func openCore(opts *RootOptions) (*core, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		slog.Warn("persistent store unavailable, continuing memory-only", "path", cfg.DatabasePath, "error", err)
		st = nil
	}

	fetcher := cache.NewHTTPFetcher(cfg.DatasetURL, cfg.VersionURL, cfg.HTTPTimeout.Std())

	return &core{
		cfg:     cfg,
		store:   st,
		manager: cache.NewManager(st, fetcher),
	}, nil
}

// close flushes background persistence and releases the store.
func (c *core) close() {
	c.manager.Flush()
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			slog.Error("error closing store", "error", err)
		}
	}
}
