package main

import (
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the street catalog for the given preferences",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		prefer, _ := cmd.Flags().GetBool("prefer-lights")
		avoid, _ := cmd.Flags().GetBool("avoid-turns")
		ranked := a.Planner.Rank(prefer, avoid)

		if jsonOutput(cmd) {
			return writeJSON(cmd.OutOrStdout(), ranked)
		}
		return printRanking(cmd.OutOrStdout(), ranked)
	},
}

func addPreferenceFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("prefer-lights", false, "reward streets known for traffic signals")
	cmd.Flags().Bool("avoid-turns", false, "apply the turn avoidance adjustment")
}

func init() {
	addPreferenceFlags(rankCmd)
	rootCmd.AddCommand(rankCmd)
}
