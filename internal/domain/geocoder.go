package domain

import (
	"context"
	"fmt"
)

// GeocodingResult is the best match for a free-text place query. The zero
// value means no match; DisplayName may be empty even for a match.
type GeocodingResult struct {
	Lat         float64
	Lon         float64
	DisplayName string
	Matched     bool
}

// Found reports whether the result holds a match.
func (r GeocodingResult) Found() bool {
	return r.Matched
}

// Geocoder resolves free-text places to coordinates.
type Geocoder interface {
	// Search returns the single best match for query, or a zero result when
	// nothing matches.
	Search(ctx context.Context, query string) (GeocodingResult, error)
}

// BBox is a south/west/north/east bounding box in degrees.
type BBox struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Key renders the box rounded to 5 decimals (about 1 m), for cache keys.
func (b BBox) Key() string {
	return fmt.Sprintf("%.5f,%.5f,%.5f,%.5f", b.South, b.West, b.North, b.East)
}

// FeatureKind classifies an overlay point.
type FeatureKind string

const (
	FeatureTrafficSignal FeatureKind = "traffic_signals"
	FeatureStopSign      FeatureKind = "stop"
)

// OverlayFeature is a traffic signal or stop sign location.
type OverlayFeature struct {
	ID   int64       `json:"id"`
	Kind FeatureKind `json:"kind"`
	Lat  float64     `json:"lat"`
	Lon  float64     `json:"lon"`
}

// Overlay groups overlay features by kind.
type Overlay struct {
	Signals []OverlayFeature `json:"signals"`
	Stops   []OverlayFeature `json:"stops"`
}

// OverlaySource fetches overlay features inside a bounding box.
type OverlaySource interface {
	Features(ctx context.Context, bbox BBox) (Overlay, error)
}
