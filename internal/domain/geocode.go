package domain

import (
	"context"
	"log/slog"
)

// ResolvePlace geocodes query and reports whether it produced a usable match.
// Geocoder failures are logged and reported as no match, so a flaky provider
// degrades map drawing instead of failing the request.
func ResolvePlace(ctx context.Context, geocoder Geocoder, query string, logger *slog.Logger) (GeocodingResult, bool) {
	if geocoder == nil || query == "" {
		return GeocodingResult{}, false
	}

	result, err := geocoder.Search(ctx, query)
	if err != nil {
		logger.Warn("geocoding failed", "query", query, "error", err)
		return GeocodingResult{}, false
	}
	if !result.Found() {
		logger.Debug("geocoding found no match", "query", query)
		return GeocodingResult{}, false
	}
	return result, true
}
