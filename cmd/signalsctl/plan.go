package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/signals-planner/internal/domain"
	"github.com/couchcryptid/signals-planner/internal/mapview"
	"github.com/couchcryptid/signals-planner/internal/planner"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Suggest a best and backup street for a trip",
	Long:  "Prints the suggestion first, then frames the trip on a map with nearby traffic signals and stop signs.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		req := planRequestFromFlags(cmd)
		out := cmd.OutOrStdout()
		suggestion := a.Planner.Plan(cmd.Context(), req)

		save, _ := cmd.Flags().GetBool("save")
		noMap, _ := cmd.Flags().GetBool("no-map")

		result := planResult{Suggestion: suggestion}
		if save && suggestion.SaveEnabled {
			entry, err := a.Planner.SaveFavorite(cmd.Context(), req)
			if err != nil {
				return err
			}
			result.Saved = &entry
		}
		if !jsonOutput(cmd) {
			printSuggestion(out, suggestion)
			if result.Saved != nil {
				fmt.Fprintf(out, "Saved to favorites: %s\n", result.Saved.Choice)
			}
		}

		if suggestion.State != planner.StateReady || noMap {
			if jsonOutput(cmd) {
				return writeJSON(out, result)
			}
			return nil
		}

		view, err := a.Planner.DrawMapAfterDelay(cmd.Context(), req.Start, req.Dest)
		switch {
		case err == nil:
			result.Map = &view
		case errors.Is(err, domain.ErrLocationNotFound):
			result.MapMessage = domain.UserMessage(err)
		default:
			return fmt.Errorf("draw map: %w", err)
		}

		if jsonOutput(cmd) {
			return writeJSON(out, result)
		}
		fmt.Fprintln(out)
		if result.Map != nil {
			printMap(out, *result.Map)
		} else {
			fmt.Fprintln(out, result.MapMessage)
		}
		return nil
	},
}

type planResult struct {
	planner.Suggestion
	Saved      *domain.FavoriteEntry `json:"saved,omitempty"`
	Map        *mapview.MapView      `json:"map,omitempty"`
	MapMessage string                `json:"mapMessage,omitempty"`
}

func addTripFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "start address or place")
	cmd.Flags().String("dest", "", "destination address or place")
}

func planRequestFromFlags(cmd *cobra.Command) planner.PlanRequest {
	start, _ := cmd.Flags().GetString("start")
	dest, _ := cmd.Flags().GetString("dest")
	prefer, _ := cmd.Flags().GetBool("prefer-lights")
	avoid, _ := cmd.Flags().GetBool("avoid-turns")
	return planner.PlanRequest{Start: start, Dest: dest, PreferLights: prefer, AvoidTurns: avoid}
}

func init() {
	addTripFlags(planCmd)
	addPreferenceFlags(planCmd)
	planCmd.Flags().Bool("save", false, "save the best pick to favorites")
	planCmd.Flags().Bool("no-map", false, "skip geocoding and the signal overlay")
	rootCmd.AddCommand(planCmd)
}
