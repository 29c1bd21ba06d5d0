package main

import (
	"github.com/spf13/cobra"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Frame a trip and list nearby traffic signals and stop signs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		start, _ := cmd.Flags().GetString("start")
		dest, _ := cmd.Flags().GetString("dest")
		view, err := a.Planner.DrawMap(cmd.Context(), start, dest)
		if err != nil {
			return userError(err)
		}

		if jsonOutput(cmd) {
			return writeJSON(cmd.OutOrStdout(), view)
		}
		printMap(cmd.OutOrStdout(), view)
		return nil
	},
}

func init() {
	addTripFlags(mapCmd)
	rootCmd.AddCommand(mapCmd)
}
