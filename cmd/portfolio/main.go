package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/NicXVII/analisiPortafoglio/internal/config"
	"github.com/NicXVII/analisiPortafoglio/internal/data"
	"github.com/NicXVII/analisiPortafoglio/internal/engine"
	"github.com/NicXVII/analisiPortafoglio/internal/override"
)

var (
	configPath string
	verbose    bool
)

// rootCmd is the base command for the portfolio CLI
var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio structural evaluation engine",
	Long: `Evaluates portfolio snapshots through a confidence scorer and four hard
gates (data integrity, risk intent, structural fragility, benchmark
categorization), producing a single final verdict. Inconclusive runs block
until an explicit, audited override is recorded.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to engine configuration YAML")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

// buildEngine loads the configuration and wires the engine with the
// configured audit store and provider decorators.
func buildEngine(ctx context.Context, inputsPath string) (*engine.Engine, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, config.Config{}, err
	}

	var store override.Store
	if cfg.Audit.PostgresDSN != "" {
		pg, err := override.NewPostgresStore(ctx, cfg.Audit.PostgresDSN)
		if err != nil {
			return nil, config.Config{}, err
		}
		store = pg
	} else {
		fs, err := override.NewFileStore(cfg.Audit.FilePath)
		if err != nil {
			return nil, config.Config{}, err
		}
		store = fs
	}

	var provider data.MetricsProvider = data.NewFileProvider(inputsPath)
	provider = data.NewThrottledProvider(provider, cfg.Provider.RatePerSecond, cfg.Provider.Burst)
	provider = data.NewBreakerProvider("inputs", provider)

	return engine.New(cfg, provider, store), cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
