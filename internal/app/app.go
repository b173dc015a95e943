package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/strset/internal/config"
	"github.com/vk/strset/internal/ctxlog"
	"github.com/vk/strset/internal/script"
	"github.com/vk/strset/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
}

// NewApp builds an App with its own logger and registry. Results go to outW,
// log records to logW.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)

	// Registry diagnostics are emitted only in debug mode, and then always at
	// debug level whatever the app's own level is.
	var regLogger *slog.Logger
	if cfg.Debug {
		regLogger = newLogger("debug", cfg.LogFormat, logW).With("component", "registry")
	}

	logger.Debug("App configured.", "script_path", cfg.ScriptPath, "debug", cfg.Debug)
	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: registry.New(registry.WithLogger(regLogger)),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Run loads the configured script and executes it.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	// Settings files share the .hcl extension and must not be read as scripts.
	skip := []string{config.DefaultFileName}
	if a.config.ConfigPath != "" {
		skip = append(skip, a.config.ConfigPath)
	}
	s, err := script.Load(ctx, a.config.ScriptPath, skip...)
	if err != nil {
		return fmt.Errorf("failed to load script: %w", err)
	}
	a.logger.Info("Script loaded.", "calls", len(s.Calls))

	report, err := script.NewRunner(a.registry, a.outW).Run(ctx, s)
	if err != nil {
		return fmt.Errorf("script run failed: %w", err)
	}

	a.logger.Info("Script finished.", "calls", report.Calls, "named_sets", len(report.Names))
	return nil
}
