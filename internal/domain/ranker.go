package domain

import (
	"fmt"
	"slices"
)

// TurnPenaltyMode selects how the avoid-turns preference adjusts a score.
type TurnPenaltyMode string

const (
	// TurnPenaltyPerStreet subtracts each street's own turnsPenalty.
	TurnPenaltyPerStreet TurnPenaltyMode = "perStreet"
	// TurnPenaltyFlatBonus adds AvoidTurnsWeight*0.5 to every street.
	TurnPenaltyFlatBonus TurnPenaltyMode = "flatBonus"
)

// ParseTurnPenaltyMode maps a configuration string to a mode.
func ParseTurnPenaltyMode(s string) (TurnPenaltyMode, error) {
	switch TurnPenaltyMode(s) {
	case TurnPenaltyPerStreet:
		return TurnPenaltyPerStreet, nil
	case TurnPenaltyFlatBonus:
		return TurnPenaltyFlatBonus, nil
	default:
		return "", fmt.Errorf("unknown turn penalty mode %q (want %q or %q)", s, TurnPenaltyPerStreet, TurnPenaltyFlatBonus)
	}
}

// RankerConfig holds the catalog and scoring weights for a Ranker.
type RankerConfig struct {
	Catalog            []StreetRecord
	LightsThreshold    int
	PreferLightsWeight float64
	AvoidTurnsWeight   float64
	TurnPenaltyMode    TurnPenaltyMode
}

// DefaultRankerConfig returns the reference weights over the built-in catalog.
func DefaultRankerConfig() RankerConfig {
	return RankerConfig{
		Catalog:            DefaultCatalog(),
		LightsThreshold:    8,
		PreferLightsWeight: 1.0,
		AvoidTurnsWeight:   0.5,
		TurnPenaltyMode:    TurnPenaltyFlatBonus,
	}
}

// Ranker orders the catalog by calmness score. It is safe for concurrent use.
type Ranker struct {
	catalog []StreetRecord
	cfg     RankerConfig
}

// NewRanker copies the catalog so later changes to cfg.Catalog do not leak in.
// An empty TurnPenaltyMode defaults to TurnPenaltyFlatBonus.
func NewRanker(cfg RankerConfig) *Ranker {
	if cfg.TurnPenaltyMode == "" {
		cfg.TurnPenaltyMode = TurnPenaltyFlatBonus
	}
	catalog := slices.Clone(cfg.Catalog)
	cfg.Catalog = nil
	return &Ranker{catalog: catalog, cfg: cfg}
}

// Catalog returns a copy of the ranker's streets in catalog order.
func (r *Ranker) Catalog() []StreetRecord {
	return slices.Clone(r.catalog)
}

// Rank scores every street and returns them highest score first. Ties keep
// catalog order. An empty catalog yields an empty, non-nil slice.
func (r *Ranker) Rank(preferLights, avoidTurns bool) []ScoredStreet {
	ranked := make([]ScoredStreet, len(r.catalog))
	for i, s := range r.catalog {
		ranked[i] = ScoredStreet{StreetRecord: s, Score: r.score(s, preferLights, avoidTurns)}
	}
	slices.SortStableFunc(ranked, func(a, b ScoredStreet) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return ranked
}

func (r *Ranker) score(s StreetRecord, preferLights, avoidTurns bool) float64 {
	score := float64(s.Rating)
	if preferLights && s.Rating >= r.cfg.LightsThreshold {
		score += r.cfg.PreferLightsWeight
	}
	if avoidTurns {
		switch r.cfg.TurnPenaltyMode {
		case TurnPenaltyPerStreet:
			score -= float64(s.TurnsPenalty)
		case TurnPenaltyFlatBonus:
			score += r.cfg.AvoidTurnsWeight * 0.5
		}
	}
	return score
}

// Best returns the top-ranked street, if any.
func Best(ranked []ScoredStreet) (ScoredStreet, bool) {
	if len(ranked) == 0 {
		return ScoredStreet{}, false
	}
	return ranked[0], true
}

// Backup returns the runner-up street, if any.
func Backup(ranked []ScoredStreet) (ScoredStreet, bool) {
	if len(ranked) < 2 {
		return ScoredStreet{}, false
	}
	return ranked[1], true
}
