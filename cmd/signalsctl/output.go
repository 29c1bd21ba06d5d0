package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/couchcryptid/signals-planner/internal/domain"
	"github.com/couchcryptid/signals-planner/internal/mapview"
	"github.com/couchcryptid/signals-planner/internal/planner"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRanking(w io.Writer, ranked []domain.ScoredStreet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTREET\tRATING\tSCORE\tNOTES")
	for i, s := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%g\t%s\n", i+1, s.Name, s.Rating, s.Score, s.Notes)
	}
	return tw.Flush()
}

func printSuggestion(w io.Writer, s planner.Suggestion) {
	if s.State != planner.StateReady {
		fmt.Fprintln(w, s.Message)
		return
	}
	fmt.Fprintf(w, "Best pick: %s\n", describeStreet(*s.Best))
	if s.Backup != nil {
		fmt.Fprintf(w, "Backup: %s\n", describeStreet(*s.Backup))
	}
	fmt.Fprintln(w, s.Tip)
}

func describeStreet(s domain.ScoredStreet) string {
	out := fmt.Sprintf("%s (rating %d, score %g)", s.Name, s.Rating, s.Score)
	if s.Notes != "" {
		out += " - " + s.Notes
	}
	return out
}

func printMap(w io.Writer, v mapview.MapView) {
	b := v.Bounds
	fmt.Fprintf(w, "Frame: south %.5f, west %.5f, north %.5f, east %.5f\n", b.South, b.West, b.North, b.East)
	if v.Route != nil {
		fmt.Fprintf(w, "Start: %.5f, %.5f\n", v.Route.Start.Lat, v.Route.Start.Lon)
		fmt.Fprintf(w, "Destination: %.5f, %.5f\n", v.Route.Destination.Lat, v.Route.Destination.Lon)
	}
	fmt.Fprintf(w, "Traffic signals: %d\n", len(v.Signals))
	fmt.Fprintf(w, "Stop signs: %d\n", len(v.Stops))
}

func printFavorites(w io.Writer, favs []domain.FavoriteView) {
	if len(favs) == 0 {
		fmt.Fprintln(w, domain.NoFavoritesLabel)
		return
	}
	for _, f := range favs {
		fmt.Fprintf(w, "%d. %s\n", f.Index, f.Label)
	}
}

// userError replaces domain errors with the message shown to the driver.
func userError(err error) error {
	if !domain.HasUserMessage(err) {
		return err
	}
	return errors.New(domain.UserMessage(err))
}
