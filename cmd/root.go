// Package cmd implements the growthbi CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/laccsec/growthbi/internal/config"
	"github.com/laccsec/growthbi/internal/logging"
	"github.com/laccsec/growthbi/internal/pipeline"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagHorizon  int
	flagSeed     uint64
	flagConfig   string
	flagQuiet    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "growthbi",
	Short:         "Social follower growth dashboard with forecasting",
	Long:          "Synthesize monthly follower history per channel, aggregate it, and forecast total reach.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  growthbi: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagHorizon, "horizon", "H", 0, "Forecast horizon in months (default from config)")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Noise seed (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// configPath returns the --config value or the default location.
func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.Path()
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.LoadFrom(configPath())
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.General.Seed = flagSeed
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, nil
}

// resolveHorizon picks the flag value or the configured default and checks bounds.
func resolveHorizon(cmd *cobra.Command, cfg config.Config) (int, error) {
	h := cfg.Forecast.Horizon
	if cmd.Flags().Changed("horizon") {
		h = flagHorizon
	}
	if err := cfg.CheckHorizon(h); err != nil {
		return 0, err
	}
	return h, nil
}

func newLogger(cfg config.Config) (zerolog.Logger, error) {
	return logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Quiet:  flagQuiet,
	}, os.Stderr)
}

// loadDashboard is the shared data path used by the report commands.
func loadDashboard(cmd *cobra.Command) (*pipeline.Dashboard, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, cfg, err
	}
	h, err := resolveHorizon(cmd, cfg)
	if err != nil {
		return nil, cfg, err
	}

	d, err := pipeline.Build(cfg, h)
	if err != nil {
		return nil, cfg, err
	}

	log.Debug().
		Int("channels", len(d.Channels)).
		Int("months", d.Total.Len()).
		Int("horizon", h).
		Dur("took", d.BuildTime).
		Msg("dashboard built")
	if !d.Forecast.Available {
		log.Warn().Str("reason", d.Forecast.Reason).Msg("forecast unavailable")
	}
	return d, cfg, nil
}
