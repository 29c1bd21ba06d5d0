package domain

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// StreetRecord is one entry of the driver's street catalog.
type StreetRecord struct {
	Name         string `json:"name" yaml:"name"`
	Rating       int    `json:"rating" yaml:"rating"`
	TurnsPenalty int    `json:"turnsPenalty" yaml:"turnsPenalty"`
	Notes        string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// ScoredStreet is a ranked copy of a StreetRecord carrying its computed score.
type ScoredStreet struct {
	StreetRecord
	Score float64 `json:"score"`
}

// DefaultCatalog returns the built-in street notes. The slice is a fresh copy.
func DefaultCatalog() []StreetRecord {
	return []StreetRecord{
		{Name: "E Cottage St", Rating: 9, TurnsPenalty: 0, Notes: "Mostly signals; good flow"},
		{Name: "Batchelder St", Rating: 8, TurnsPenalty: 1, Notes: "Residential but straightforward"},
		{Name: "Harvest St", Rating: 7, TurnsPenalty: 1, Notes: "Okay during day; a few stops"},
		{Name: "Clifton St", Rating: 6, TurnsPenalty: 2, Notes: "Can feel busy by the rail"},
		{Name: "Leyland St", Rating: 6, TurnsPenalty: 1, Notes: "Parking pockets; be aware"},
	}
}

// ValidateCatalog checks that every street has a unique non-empty name and a
// non-negative turns penalty. An empty catalog is valid.
func ValidateCatalog(catalog []StreetRecord) error {
	var errs []error
	seen := make(map[string]int, len(catalog))
	for i, s := range catalog {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("street %d: name is required", i))
			continue
		}
		if j, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("street %d: duplicate name %q (first at %d)", i, name, j))
		} else {
			seen[name] = i
		}
		if s.TurnsPenalty < 0 {
			errs = append(errs, fmt.Errorf("street %q: turnsPenalty must be >= 0, got %d", name, s.TurnsPenalty))
		}
	}
	return errors.Join(errs...)
}

// catalogFile is the on-disk YAML layout.
type catalogFile struct {
	Streets []catalogEntry `yaml:"streets"`
}

type catalogEntry struct {
	Name         string `yaml:"name"`
	Rating       *int   `yaml:"rating"`
	Score        *int   `yaml:"score"` // legacy name for rating
	TurnsPenalty int    `yaml:"turnsPenalty"`
	Notes        string `yaml:"notes"`
}

// LoadCatalog decodes and validates a YAML catalog of the form:
//
//	streets:
//	  - name: E Cottage St
//	    rating: 9
//	    turnsPenalty: 0
//	    notes: Mostly signals; good flow
func LoadCatalog(r io.Reader) ([]StreetRecord, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	catalog := make([]StreetRecord, 0, len(f.Streets))
	for i, e := range f.Streets {
		rec := StreetRecord{
			Name:         strings.TrimSpace(e.Name),
			TurnsPenalty: e.TurnsPenalty,
			Notes:        e.Notes,
		}
		switch {
		case e.Rating != nil:
			rec.Rating = *e.Rating
		case e.Score != nil:
			rec.Rating = *e.Score
		default:
			return nil, fmt.Errorf("street %d (%q): rating is required", i, e.Name)
		}
		catalog = append(catalog, rec)
	}

	if err := ValidateCatalog(catalog); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return catalog, nil
}
