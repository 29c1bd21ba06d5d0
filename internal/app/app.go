// Package app wires the planner from configuration. Both the HTTP service
// and the CLI build on it.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/signals-planner/internal/adapter/nominatim"
	"github.com/couchcryptid/signals-planner/internal/adapter/overpass"
	"github.com/couchcryptid/signals-planner/internal/adapter/sqlite"
	"github.com/couchcryptid/signals-planner/internal/config"
	"github.com/couchcryptid/signals-planner/internal/domain"
	"github.com/couchcryptid/signals-planner/internal/favorites"
	"github.com/couchcryptid/signals-planner/internal/mapview"
	"github.com/couchcryptid/signals-planner/internal/observability"
	"github.com/couchcryptid/signals-planner/internal/planner"
)

// App holds the wired planner and the resources it owns.
type App struct {
	Planner   *planner.Planner
	KV        *sqlite.KV
	Favorites *favorites.Store
}

// New opens the store, loads the catalog, and builds the planner with its
// geocoding and overlay clients.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*App, error) {
	catalog, err := cfg.LoadCatalog()
	if err != nil {
		return nil, err
	}

	kv, err := sqlite.Open(ctx, cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	store := favorites.New(kv, cfg.FavoritesKey, cfg.FavoritesCap, logger, metrics)

	geocoder := nominatim.NewCachedGeocoder(
		nominatim.NewClient(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.NominatimTimeout, cfg.NominatimRate, metrics, logger),
		cfg.GeocodeCacheSize,
		metrics,
	)
	var overlay domain.OverlaySource = overpass.NewClient(cfg.OverpassURL, cfg.OverpassTimeout, metrics, logger)
	if cfg.OverlayCacheTTL > 0 {
		overlay = overpass.NewCachedSource(overlay, cfg.OverlayCacheTTL, metrics)
	}
	session := mapview.NewSession(geocoder, overlay, mapview.Options{}, logger, metrics)

	opts := planner.Options{
		MapDelay:      cfg.MapDelay,
		OriginTimeout: cfg.GeolocationTimeout,
	}
	if cfg.Origin != nil {
		opts.Locator = domain.FixedLocator{Coord: *cfg.Origin}
	}

	ranker := domain.NewRanker(cfg.RankerConfig(catalog))
	logger.Info("planner ready",
		"streets", len(catalog),
		"turn_penalty_mode", cfg.TurnPenaltyMode,
		"store", cfg.StorePath,
		"favorites_cap", store.Cap(),
	)

	return &App{
		Planner:   planner.New(ranker, store, session, opts, logger, metrics),
		KV:        kv,
		Favorites: store,
	}, nil
}

// Close disposes the map session and closes the store.
func (a *App) Close() error {
	a.Planner.Close()
	return a.KV.Close()
}
