package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/signals-planner/internal/domain"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect street catalogs",
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active street catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalog, err := cfg.LoadCatalog()
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return writeJSON(cmd.OutOrStdout(), catalog)
		}
		ranked := make([]domain.ScoredStreet, len(catalog))
		for i, s := range catalog {
			ranked[i] = domain.ScoredStreet{StreetRecord: s, Score: float64(s.Rating)}
		}
		return printRanking(cmd.OutOrStdout(), ranked)
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a catalog YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()

		catalog, err := domain.LoadCatalog(f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d streets, ok\n", args[0], len(catalog))
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogShowCmd, catalogValidateCmd)
	rootCmd.AddCommand(catalogCmd)
}
