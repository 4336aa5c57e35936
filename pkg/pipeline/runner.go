package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/magnetsheet/pkg/artifact"
	"github.com/matzehuels/magnetsheet/pkg/cache"
	"github.com/matzehuels/magnetsheet/pkg/notify"
	"github.com/matzehuels/magnetsheet/pkg/sheet"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching and delivery logic.
//
// The Runner holds no per-order state. Multiple goroutines can safely use
// the same Runner with different orders.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Engine   *sheet.Engine
	Store    artifact.Store
	Notifier *notify.Notifier
	Logger   *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// Store and Notifier are left for the caller to set; only Submit needs them.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Engine: sheet.New(sheet.WithLogger(logger)),
		Logger: logger,
	}
}

// engine returns the engine for one run, honouring a worker override.
func (r *Runner) engine(opts Options) *sheet.Engine {
	if opts.Workers > 0 || r.Engine == nil {
		return sheet.New(sheet.WithWorkers(opts.Workers), sheet.WithLogger(opts.Logger))
	}
	return r.Engine
}

// Close releases resources held by the runner: the cache and the store.
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
