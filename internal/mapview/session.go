// Package mapview frames a trip on a map and overlays the traffic signals and
// stop signs around it.
package mapview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/twpayne/go-geom"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/signals-planner/internal/domain"
	"github.com/couchcryptid/signals-planner/internal/observability"
)

// DefaultPadding grows the framed bounds by a quarter of their span per side.
const DefaultPadding = 0.25

// minSpan keeps a frame around two identical endpoints from collapsing to a point.
const minSpan = 0.002

// Icon names the marker color a client should draw.
type Icon string

const (
	IconEndpoint Icon = "blue"
	IconSignal   Icon = "green"
	IconStop     Icon = "red"
)

// Marker is a labelled point on the map.
type Marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
	Icon  Icon    `json:"icon"`
}

// Line is a polyline through Points in order.
type Line struct {
	Points []domain.Coordinate `json:"points"`
}

// RouteLayer is the start marker, destination marker, and the straight
// context line between them. It is not a routed path.
type RouteLayer struct {
	Start       Marker `json:"start"`
	Destination Marker `json:"destination"`
	Line        Line   `json:"line"`
}

// MapView is a snapshot of the session's layers.
type MapView struct {
	Bounds  domain.BBox `json:"bounds"`
	Route   *RouteLayer `json:"route,omitempty"`
	Signals []Marker    `json:"signals"`
	Stops   []Marker    `json:"stops"`
}

// Options tunes a Session.
type Options struct {
	// Padding is the fraction of the endpoint span added on each side.
	Padding float64
}

// Session owns the route, signal, and stop layers of one map. It is safe
// for concurrent use; draws are serialized.
type Session struct {
	geocoder domain.Geocoder
	overlay  domain.OverlaySource
	padding  float64
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu     sync.Mutex
	view   MapView
	closed bool
}

// NewSession creates an empty map session. Nothing is fetched until Draw.
func NewSession(geocoder domain.Geocoder, overlay domain.OverlaySource, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Session {
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	return &Session{
		geocoder: geocoder,
		overlay:  overlay,
		padding:  padding,
		logger:   logger,
		metrics:  metrics,
	}
}

// Draw geocodes both endpoints, frames them, and replaces every layer.
// Overlay failures leave the signal and stop layers empty; only input and
// geocoding problems are returned.
func (s *Session) Draw(ctx context.Context, start, dest string) (MapView, error) {
	start, dest = strings.TrimSpace(start), strings.TrimSpace(dest)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.metrics.MapDraws.WithLabelValues("closed").Inc()
		return MapView{}, domain.ErrSessionClosed
	}
	if start == "" || dest == "" {
		s.metrics.MapDraws.WithLabelValues("need_input").Inc()
		return MapView{}, domain.ErrMissingInput
	}

	s.view = MapView{}

	from, to, err := s.geocodePair(ctx, start, dest)
	if err != nil {
		s.metrics.MapDraws.WithLabelValues("not_found").Inc()
		return MapView{}, err
	}

	route := geom.NewLineStringFlat(geom.XY, []float64{from.Lon, from.Lat, to.Lon, to.Lat})
	bbox := frame(route.Bounds(), s.padding)

	view := MapView{
		Bounds: bbox,
		Route: &RouteLayer{
			Start:       Marker{Lat: from.Lat, Lon: from.Lon, Label: "Start", Icon: IconEndpoint},
			Destination: Marker{Lat: to.Lat, Lon: to.Lon, Label: "Destination", Icon: IconEndpoint},
			Line:        lineOf(route),
		},
	}

	overlay := s.fetchOverlay(ctx, bbox)
	view.Signals = markers(overlay.Signals, "Traffic signal", IconSignal)
	view.Stops = markers(overlay.Stops, "Stop sign", IconStop)

	s.view = view
	s.metrics.MapDraws.WithLabelValues("drawn").Inc()
	s.logger.Debug("map drawn",
		"start", from.DisplayName,
		"destination", to.DisplayName,
		"signals", len(view.Signals),
		"stops", len(view.Stops),
	)
	return cloneView(view), nil
}

// View returns the layers from the last successful draw.
func (s *Session) View() MapView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneView(s.view)
}

// Clear removes every layer. The session stays usable.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = MapView{}
}

// Dispose clears the session and rejects further draws.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = MapView{}
	s.closed = true
}

// geocodePair resolves both endpoints concurrently. Either failing cancels
// the other.
func (s *Session) geocodePair(ctx context.Context, start, dest string) (domain.GeocodingResult, domain.GeocodingResult, error) {
	var from, to domain.GeocodingResult
	g, gctx := errgroup.WithContext(ctx)
	resolve := func(query string, out *domain.GeocodingResult) func() error {
		return func() error {
			r, ok := domain.ResolvePlace(gctx, s.geocoder, query, s.logger)
			if !ok {
				return fmt.Errorf("%w: %q", domain.ErrLocationNotFound, query)
			}
			*out = r
			return nil
		}
	}
	g.Go(resolve(start, &from))
	g.Go(resolve(dest, &to))

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return from, to, ctxErr
		}
		return from, to, err
	}
	return from, to, nil
}

func (s *Session) fetchOverlay(ctx context.Context, bbox domain.BBox) domain.Overlay {
	if s.overlay == nil {
		return domain.Overlay{}
	}
	overlay, err := s.overlay.Features(ctx, bbox)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("overlay fetch failed, drawing without signals and stops", "bbox", bbox.Key(), "error", err)
		}
		return domain.Overlay{}
	}
	return overlay
}

// frame pads b by padding times its span on each side. Coordinates are X=lon, Y=lat.
func frame(b *geom.Bounds, padding float64) domain.BBox {
	west, south := b.Min(0), b.Min(1)
	east, north := b.Max(0), b.Max(1)
	padLon := max((east-west)*padding, minSpan/2)
	padLat := max((north-south)*padding, minSpan/2)
	return domain.BBox{
		South: south - padLat,
		West:  west - padLon,
		North: north + padLat,
		East:  east + padLon,
	}
}

func lineOf(ls *geom.LineString) Line {
	coords := ls.Coords()
	points := make([]domain.Coordinate, 0, len(coords))
	for _, c := range coords {
		points = append(points, domain.Coordinate{Lat: c.Y(), Lon: c.X()})
	}
	return Line{Points: points}
}

func markers(features []domain.OverlayFeature, label string, icon Icon) []Marker {
	out := make([]Marker, 0, len(features))
	for _, f := range features {
		out = append(out, Marker{Lat: f.Lat, Lon: f.Lon, Label: label, Icon: icon})
	}
	return out
}

func cloneView(v MapView) MapView {
	out := v
	if v.Route != nil {
		route := *v.Route
		route.Line.Points = slices.Clone(v.Route.Line.Points)
		out.Route = &route
	}
	out.Signals = slices.Clone(v.Signals)
	out.Stops = slices.Clone(v.Stops)
	return out
}
