package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aretw0/eventdeck/internal/config"
	"github.com/aretw0/eventdeck/internal/logging"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/observability"
)

var rootCmd = &cobra.Command{
	Use:   "eventdeck",
	Short: "eventdeck is a headless swipe-to-discover event deck",
	Long: `eventdeck drives a stack of event cards with drag gestures, pin tokens,
a feed mode toggle and an orbit of avatars, all on a deterministic frame clock.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// env is the state shared by every command, built before the command runs.
type env struct {
	cfgPath  string
	cfg      config.Config
	logger   *slog.Logger
	level    slog.Level
	registry *prometheus.Registry
	metrics  *observability.Metrics
}

var app env

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringArray("set", nil, "Override a config key, e.g. --set gesture.threshold=80")
}

func setup(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	levelName, _ := cmd.Flags().GetString("log-level")
	sets, _ := cmd.Flags().GetStringArray("set")

	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(path, sets)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	app = env{
		cfgPath:  path,
		cfg:      cfg,
		logger:   logging.NewWriter(cmd.ErrOrStderr(), level),
		level:    level,
		registry: reg,
		metrics:  metrics,
	}
	return nil
}

// loadConfig reads path, applies key=value overrides and validates the result.
func loadConfig(path string, sets []string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	overrides, err := config.ParseOverrides(sets)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyOverrides(overrides); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (e *env) hooks() domain.LifecycleHooks {
	return observability.Chain(e.metrics.Hooks(), observability.LogHooks(e.logger))
}
