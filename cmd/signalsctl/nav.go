package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/signals-planner/internal/adapter/navlink"
	"github.com/couchcryptid/signals-planner/internal/domain"
	"github.com/couchcryptid/signals-planner/internal/planner"
)

var navCmd = &cobra.Command{
	Use:   "nav",
	Short: "Print a navigation deep link for a trip",
	Long: "Builds an Apple Maps, Google Maps, or Waze link. Without --start the configured " +
		"origin (ORIGIN_LAT/ORIGIN_LON) or --lat/--lon is used when available.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		appName, _ := cmd.Flags().GetString("app")
		app, err := navlink.ParseApp(appName)
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		start, _ := cmd.Flags().GetString("start")
		dest, _ := cmd.Flags().GetString("dest")
		ua, _ := cmd.Flags().GetString("user-agent")
		req := planner.HandoffRequest{App: app, UserAgent: ua, Start: start, Dest: dest}
		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
			lat, _ := cmd.Flags().GetFloat64("lat")
			lon, _ := cmd.Flags().GetFloat64("lon")
			req.Origin = &domain.Coordinate{Lat: lat, Lon: lon}
		}

		result, err := a.Planner.Handoff(cmd.Context(), req)
		if err != nil {
			return userError(err)
		}
		if jsonOutput(cmd) {
			return writeJSON(cmd.OutOrStdout(), result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.URL)
		return nil
	},
}

func init() {
	addTripFlags(navCmd)
	navCmd.Flags().String("app", "", "apple, google, or waze (default: by --user-agent)")
	navCmd.Flags().String("user-agent", "", "platform user agent used to pick the default app")
	navCmd.Flags().Float64("lat", 0, "origin latitude when --start is empty")
	navCmd.Flags().Float64("lon", 0, "origin longitude when --start is empty")
	rootCmd.AddCommand(navCmd)
}
