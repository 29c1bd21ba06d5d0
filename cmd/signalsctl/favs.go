package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var favsCmd = &cobra.Command{
	Use:   "favs",
	Short: "Manage favorite trips",
}

var favsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites, most recent first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		favs := a.Planner.Favorites(cmd.Context())
		if jsonOutput(cmd) {
			return writeJSON(cmd.OutOrStdout(), favs)
		}
		printFavorites(cmd.OutOrStdout(), favs)
		return nil
	},
}

var favsSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a trip with its current best pick",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		entry, err := a.Planner.SaveFavorite(cmd.Context(), planRequestFromFlags(cmd))
		if err != nil {
			return userError(err)
		}
		if jsonOutput(cmd) {
			return writeJSON(cmd.OutOrStdout(), entry)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s → %s [%s]\n", entry.Start, entry.Dest, entry.Choice)
		return nil
	},
}

var favsRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove the favorite at index (0 is the most recent)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("index must be an integer: %q", args[0])
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		if err := a.Planner.RemoveFavorite(cmd.Context(), index); err != nil {
			return userError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed favorite %d.\n", index)
		return nil
	},
}

func init() {
	addTripFlags(favsSaveCmd)
	addPreferenceFlags(favsSaveCmd)
	favsCmd.AddCommand(favsListCmd, favsSaveCmd, favsRemoveCmd)
	rootCmd.AddCommand(favsCmd)
}
