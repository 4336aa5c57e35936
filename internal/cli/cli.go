// Package cli implements the magnetsheet command-line interface.
//
// # Commands
//
//   - render: lay out an order file and write the sheet PNGs
//   - submit: render, deliver and notify the print shop
//   - serve: run the HTTP intake server
//   - geometry: print the page and grid constants
//   - cache: inspect or clear the sheet cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Settings
// come from the config file (--config, or the XDG default).
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/magnetsheet/pkg/buildinfo"
	"github.com/matzehuels/magnetsheet/pkg/cache"
	"github.com/matzehuels/magnetsheet/pkg/config"
	"github.com/matzehuels/magnetsheet/pkg/pipeline"
	"github.com/matzehuels/magnetsheet/pkg/sheet"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Magnetsheet lays out magnet orders on printable A4 sheets",
		Long:         `Magnetsheet turns a magnet order (cropped photos and copy counts) into print-ready A4 sheets at 300 DPI, and delivers them to the print shop.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/magnetsheet/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.submitCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.geometryCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.ConfigPath)
}

// newRunner creates a pipeline runner for CLI use. With deliver set it also
// opens the artifact store and notifier.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache, deliver bool) (*pipeline.Runner, error) {
	var ch cache.Cache = cache.NewNullCache()
	if !noCache {
		var err error
		if ch, err = cfg.NewCache(ctx); err != nil {
			return nil, err
		}
	}

	r := pipeline.NewRunner(ch, cfg.NewKeyer(), c.Logger)
	r.Engine = sheet.New(sheet.WithWorkers(cfg.Render.Workers), sheet.WithLogger(c.Logger))
	if !deliver {
		return r, nil
	}

	store, err := cfg.NewStore(ctx)
	if err != nil {
		ch.Close()
		return nil, err
	}
	r.Store = store
	r.Notifier = cfg.NewNotifier(c.Logger)
	return r, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: the configured one, or the
// XDG default (~/.cache/magnetsheet/).
func cacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.DefaultDir(appName)
}
