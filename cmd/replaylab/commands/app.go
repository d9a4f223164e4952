// Package commands implements the replaylab CLI subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/HEATLabs/replaylab/pkg/config"
	"github.com/HEATLabs/replaylab/pkg/observability"
	"github.com/HEATLabs/replaylab/pkg/version"
)

// App carries shared state resolved before any subcommand runs:
// the loaded configuration and the observability providers.
type App struct {
	Config    *config.Config
	Providers observability.Providers

	configPath string
	silent     bool
}

// NewApp wires the persistent flags and lifecycle hooks into the root
// command and returns the shared application state.
func NewApp(rootCmd *cobra.Command) *App {
	app := &App{}

	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "path to config file (default: ./replaylab.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&app.silent, "silent", "s", false, "suppress progress output")

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return app.initialize()
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, _ []string) error {
		return app.shutdown(cmd.Context())
	}

	return app
}

func (a *App) initialize() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a.Config = cfg

	providers, err := observability.Init(observability.Config{
		ServiceName:    "replaylab",
		ServiceVersion: version.Version,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure:   cfg.Telemetry.OTLPInsecure,
		LogLevel:       observability.ParseLogLevel(cfg.Logging.Level),
		LogJSON:        cfg.Logging.Format == "json",
	})
	if err != nil {
		return fmt.Errorf("initializing observability: %w", err)
	}

	a.Providers = providers

	return nil
}

func (a *App) shutdown(ctx context.Context) error {
	if a.Providers.Shutdown == nil {
		return nil
	}

	return a.Providers.Shutdown(ctx)
}

// Logger returns the application logger, falling back to slog.Default
// when observability was never initialized.
func (a *App) Logger() *slog.Logger {
	if a.Providers.Logger != nil {
		return a.Providers.Logger
	}

	return slog.Default()
}

// progressf prints progress output to stderr unless silent mode is on.
func (a *App) progressf(format string, args ...any) {
	if a.silent {
		return
	}

	fmt.Fprintf(os.Stderr, format, args...)
}
