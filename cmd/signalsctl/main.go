package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/signals-planner/internal/app"
	"github.com/couchcryptid/signals-planner/internal/config"
	"github.com/couchcryptid/signals-planner/internal/domain"
	"github.com/couchcryptid/signals-planner/internal/observability"
)

var (
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
)

var rootCmd = &cobra.Command{
	Use:   "signalsctl",
	Short: "Pick calmer streets and hand trips off to a navigation app",
	Long: "Ranks your personal street notes, keeps favorite trips, frames a trip with nearby " +
		"traffic signals and stop signs, and builds navigation deep links.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := applyFlagOverrides(cmd, c); err != nil {
			return err
		}
		cfg = c
		logger = observability.NewLoggerTo(cmd.ErrOrStderr(), cfg)
		if metrics == nil {
			metrics = observability.NewMetrics()
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("store", "", "favorites database path (overrides STORE_PATH)")
	pf.String("catalog", "", "street catalog YAML file (overrides CATALOG_PATH)")
	pf.String("mode", "", "turn penalty mode: perStreet or flatBonus (overrides TURN_PENALTY_MODE)")
	pf.String("log-level", "", "log level (overrides LOG_LEVEL)")
	pf.Bool("json", false, "print JSON instead of text")
}

func applyFlagOverrides(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if v, _ := flags.GetString("store"); v != "" {
		c.StorePath = v
	}
	if v, _ := flags.GetString("catalog"); v != "" {
		c.CatalogPath = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		c.LogLevel = v
	}
	if v, _ := flags.GetString("mode"); v != "" {
		mode, err := domain.ParseTurnPenaltyMode(v)
		if err != nil {
			return fmt.Errorf("--mode: %w", err)
		}
		c.TurnPenaltyMode = mode
	}
	return nil
}

// openApp wires the planner for one command run. Callers close it.
func openApp(cmd *cobra.Command) (*app.App, error) {
	return app.New(cmd.Context(), cfg, logger, metrics)
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
