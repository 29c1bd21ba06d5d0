// Package planner ties the ranker, favorites, map session, and navigation
// hand-off into the operations the HTTP and CLI surfaces expose.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/signals-planner/internal/adapter/navlink"
	"github.com/couchcryptid/signals-planner/internal/domain"
	"github.com/couchcryptid/signals-planner/internal/mapview"
	"github.com/couchcryptid/signals-planner/internal/observability"
)

// Tip is shown under every ready suggestion.
const Tip = "Tip: This is a personal filter. Use the map (green = traffic lights, red = stop signs) to confirm."

// FavoritesStore persists saved plans most-recent-first.
type FavoritesStore interface {
	Load(ctx context.Context) []domain.FavoriteEntry
	Add(ctx context.Context, entry domain.FavoriteEntry) ([]domain.FavoriteEntry, error)
	Remove(ctx context.Context, index int) ([]domain.FavoriteEntry, error)
}

// MapDrawer frames a trip and its overlay.
type MapDrawer interface {
	Draw(ctx context.Context, start, dest string) (mapview.MapView, error)
	Dispose()
}

// DefaultMapDelay lets a suggestion render before the map is drawn.
const DefaultMapDelay = 120 * time.Millisecond

// Options holds the planner's tunables. Zero values fall back to defaults.
type Options struct {
	// MapDelay is how long DrawMapAfterDelay waits before drawing.
	// Defaults to DefaultMapDelay.
	MapDelay time.Duration
	// OriginTimeout bounds origin acquisition during a hand-off.
	// Defaults to domain.DefaultOriginTimeout.
	OriginTimeout time.Duration
	// Locator supplies the device position when a hand-off has no start.
	Locator domain.Locator
	// Location renders favorite timestamps. Defaults to time.Local.
	Location *time.Location
	Clock    clockwork.Clock
}

// Planner serves plan, favorites, map, and hand-off requests.
type Planner struct {
	ranker    *domain.Ranker
	favorites FavoritesStore
	maps      MapDrawer
	opts      Options
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Planner. A nil MapDrawer disables map drawing.
func New(ranker *domain.Ranker, favorites FavoritesStore, maps MapDrawer, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Planner {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MapDelay <= 0 {
		opts.MapDelay = DefaultMapDelay
	}
	if opts.OriginTimeout <= 0 {
		opts.OriginTimeout = domain.DefaultOriginTimeout
	}
	return &Planner{
		ranker:    ranker,
		favorites: favorites,
		maps:      maps,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
	}
}

// Catalog returns the street notes the planner ranks.
func (p *Planner) Catalog() []domain.StreetRecord {
	return p.ranker.Catalog()
}

// Rank scores the catalog for the given preferences.
func (p *Planner) Rank(preferLights, avoidTurns bool) []domain.ScoredStreet {
	return p.ranker.Rank(preferLights, avoidTurns)
}

// Plan ranks the catalog and builds the suggestion shown to the driver.
// Input problems are reported through the suggestion state, never as errors.
func (p *Planner) Plan(_ context.Context, req PlanRequest) Suggestion {
	req = req.normalized()
	if !req.complete() {
		p.metrics.PlansTotal.WithLabelValues(string(StateNeedInput)).Inc()
		return Suggestion{State: StateNeedInput, Message: domain.UserMessage(domain.ErrMissingInput)}
	}

	ranked := p.ranker.Rank(req.PreferLights, req.AvoidTurns)
	best, ok := domain.Best(ranked)
	if !ok {
		p.metrics.PlansTotal.WithLabelValues(string(StateNoPick)).Inc()
		return Suggestion{State: StateNoPick, Message: domain.UserMessage(domain.ErrNoPick)}
	}

	s := Suggestion{
		State:       StateReady,
		Best:        &best,
		Ranked:      ranked,
		Tip:         Tip,
		SaveEnabled: true,
	}
	if backup, ok := domain.Backup(ranked); ok {
		s.Backup = &backup
	}
	p.metrics.PlansTotal.WithLabelValues(string(StateReady)).Inc()
	p.logger.Debug("plan ready", "best", best.Name, "score", best.Score, "prefer_lights", req.PreferLights, "avoid_turns", req.AvoidTurns)
	return s
}

// SaveFavorite re-ranks with the request's preferences and prepends the best
// pick to the favorites.
func (p *Planner) SaveFavorite(ctx context.Context, req PlanRequest) (domain.FavoriteEntry, error) {
	req = req.normalized()
	if !req.complete() {
		return domain.FavoriteEntry{}, domain.ErrMissingInput
	}

	best, ok := domain.Best(p.ranker.Rank(req.PreferLights, req.AvoidTurns))
	if !ok {
		return domain.FavoriteEntry{}, domain.ErrNoPick
	}

	entry := domain.NewFavorite(req.Start, req.Dest, best.Name)
	if _, err := p.favorites.Add(ctx, entry); err != nil {
		return domain.FavoriteEntry{}, fmt.Errorf("save favorite: %w", err)
	}
	p.logger.Info("favorite saved", "start", entry.Start, "dest", entry.Dest, "choice", entry.Choice)
	return entry, nil
}

// Favorites returns the saved plans ready for display.
func (p *Planner) Favorites(ctx context.Context) []domain.FavoriteView {
	return domain.RenderFavorites(p.favorites.Load(ctx), p.opts.Location)
}

// RemoveFavorite deletes the favorite at index.
func (p *Planner) RemoveFavorite(ctx context.Context, index int) error {
	if _, err := p.favorites.Remove(ctx, index); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// DrawMap frames start and dest and overlays nearby signals and stop signs.
func (p *Planner) DrawMap(ctx context.Context, start, dest string) (mapview.MapView, error) {
	if p.maps == nil {
		return mapview.MapView{}, domain.ErrSessionClosed
	}
	return p.maps.Draw(ctx, start, dest)
}

// DrawMapAfterDelay waits MapDelay so the suggestion can render first, then
// draws the map.
func (p *Planner) DrawMapAfterDelay(ctx context.Context, start, dest string) (mapview.MapView, error) {
	select {
	case <-ctx.Done():
		return mapview.MapView{}, ctx.Err()
	case <-p.opts.Clock.After(p.opts.MapDelay):
	}
	return p.DrawMap(ctx, start, dest)
}

// Handoff builds the deep link for the driver's navigation app. With no
// start text it first tries to acquire the origin, waiting at most
// OriginTimeout.
func (p *Planner) Handoff(ctx context.Context, req HandoffRequest) (HandoffResult, error) {
	req.Start, req.Dest = strings.TrimSpace(req.Start), strings.TrimSpace(req.Dest)
	if req.Dest == "" {
		return HandoffResult{}, domain.ErrMissingDestination
	}

	var result HandoffResult
	var origin *domain.Coordinate
	if req.Start == "" {
		locator := p.opts.Locator
		if req.Origin != nil {
			locator = domain.FixedLocator{Coord: *req.Origin}
		}
		result.Origin = domain.AcquireOrigin(ctx, locator, p.opts.OriginTimeout)
		if result.Origin.Acquired() {
			origin = &result.Origin.Coord
		} else {
			p.logger.Debug("handing off without origin", "outcome", result.Origin.Outcome)
		}
	}

	h, err := navlink.Build(req.App, req.UserAgent, req.Start, req.Dest, origin)
	if err != nil {
		return HandoffResult{}, err
	}
	result.Handoff = h
	p.metrics.Handoffs.WithLabelValues(string(h.App)).Inc()
	return result, nil
}

// Close releases the map session.
func (p *Planner) Close() {
	if p.maps != nil {
		p.maps.Dispose()
	}
}
