package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abcCatalog() []StreetRecord {
	return []StreetRecord{
		{Name: "A", Rating: 9, TurnsPenalty: 3},
		{Name: "B", Rating: 8, TurnsPenalty: 0},
		{Name: "C", Rating: 6, TurnsPenalty: 1},
	}
}

func testRanker(catalog []StreetRecord, mode TurnPenaltyMode) *Ranker {
	cfg := DefaultRankerConfig()
	cfg.Catalog = catalog
	cfg.TurnPenaltyMode = mode
	return NewRanker(cfg)
}

func names(ranked []ScoredStreet) []string {
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.Name
	}
	return out
}

func scores(ranked []ScoredStreet) map[string]float64 {
	out := make(map[string]float64, len(ranked))
	for _, s := range ranked {
		out[s.Name] = s.Score
	}
	return out
}

func TestRank_PreferLightsBonus(t *testing.T) {
	r := testRanker(abcCatalog(), TurnPenaltyFlatBonus)

	ranked := r.Rank(true, false)

	assert.Equal(t, []string{"A", "B", "C"}, names(ranked))
	if diff := cmp.Diff(map[string]float64{"A": 10, "B": 9, "C": 6}, scores(ranked)); diff != "" {
		t.Fatalf("scores mismatch (-want +got):\n%s", diff)
	}
}

func TestRank_NoPreferencesUsesRating(t *testing.T) {
	r := testRanker(abcCatalog(), TurnPenaltyFlatBonus)

	ranked := r.Rank(false, false)

	assert.Equal(t, map[string]float64{"A": 9, "B": 8, "C": 6}, scores(ranked))
}

func TestRank_FlatBonusAddsToEveryStreet(t *testing.T) {
	r := testRanker(abcCatalog(), TurnPenaltyFlatBonus)

	ranked := r.Rank(false, true)

	assert.Equal(t, []string{"A", "B", "C"}, names(ranked))
	assert.Equal(t, map[string]float64{"A": 9.25, "B": 8.25, "C": 6.25}, scores(ranked))
}

func TestRank_PerStreetSubtractsPenalty(t *testing.T) {
	r := testRanker(abcCatalog(), TurnPenaltyPerStreet)

	ranked := r.Rank(false, true)

	// A: 9-3=6, B: 8-0=8, C: 6-1=5
	assert.Equal(t, []string{"B", "A", "C"}, names(ranked))
	assert.Equal(t, map[string]float64{"A": 6, "B": 8, "C": 5}, scores(ranked))
}

func TestRank_BothPreferencesPerStreet(t *testing.T) {
	r := testRanker(abcCatalog(), TurnPenaltyPerStreet)

	ranked := r.Rank(true, true)

	// A: 9+1-3=7, B: 8+1-0=9, C: 6-1=5
	assert.Equal(t, []string{"B", "A", "C"}, names(ranked))
}

func TestRank_ThresholdIsConfigurable(t *testing.T) {
	cfg := DefaultRankerConfig()
	cfg.Catalog = abcCatalog()
	cfg.LightsThreshold = 9
	cfg.PreferLightsWeight = 2
	r := NewRanker(cfg)

	ranked := r.Rank(true, false)

	assert.Equal(t, map[string]float64{"A": 11, "B": 8, "C": 6}, scores(ranked))
}

func TestRank_TiesKeepCatalogOrder(t *testing.T) {
	catalog := []StreetRecord{
		{Name: "first", Rating: 6},
		{Name: "high", Rating: 7},
		{Name: "second", Rating: 6},
		{Name: "third", Rating: 6},
	}
	r := testRanker(catalog, TurnPenaltyFlatBonus)

	ranked := r.Rank(true, true)

	assert.Equal(t, []string{"high", "first", "second", "third"}, names(ranked))
}

func TestRank_PermutationForAllFlagCombinations(t *testing.T) {
	for _, mode := range []TurnPenaltyMode{TurnPenaltyFlatBonus, TurnPenaltyPerStreet} {
		r := testRanker(DefaultCatalog(), mode)
		for _, prefer := range []bool{false, true} {
			for _, avoid := range []bool{false, true} {
				ranked := r.Rank(prefer, avoid)

				require.Len(t, ranked, len(DefaultCatalog()))
				assert.ElementsMatch(t, names(testRanker(DefaultCatalog(), mode).Rank(false, false)), names(ranked))
				for i := 1; i < len(ranked); i++ {
					assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score,
						"mode=%s prefer=%v avoid=%v not sorted at %d", mode, prefer, avoid, i)
				}
			}
		}
	}
}

func TestRank_Idempotent(t *testing.T) {
	r := testRanker(DefaultCatalog(), TurnPenaltyPerStreet)

	first := r.Rank(true, true)
	second := r.Rank(true, true)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("rank not idempotent (-first +second):\n%s", diff)
	}
}

func TestRank_DoesNotMutateCatalog(t *testing.T) {
	catalog := abcCatalog()
	r := testRanker(catalog, TurnPenaltyPerStreet)

	_ = r.Rank(true, true)
	catalog[0].Rating = 1 // caller mutation after construction

	assert.Equal(t, 9, r.Catalog()[0].Rating)
	assert.Equal(t, "A", r.Rank(false, false)[0].Name)
}

func TestRank_EmptyCatalog(t *testing.T) {
	r := testRanker(nil, TurnPenaltyFlatBonus)

	ranked := r.Rank(true, true)

	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
	_, ok := Best(ranked)
	assert.False(t, ok)
	_, ok = Backup(ranked)
	assert.False(t, ok)
}

func TestBestAndBackup(t *testing.T) {
	ranked := testRanker(abcCatalog(), TurnPenaltyFlatBonus).Rank(true, false)

	best, ok := Best(ranked)
	require.True(t, ok)
	assert.Equal(t, "A", best.Name)

	backup, ok := Backup(ranked)
	require.True(t, ok)
	assert.Equal(t, "B", backup.Name)

	_, ok = Backup(ranked[:1])
	assert.False(t, ok)
}

func TestNewRanker_DefaultsMode(t *testing.T) {
	cfg := DefaultRankerConfig()
	cfg.Catalog = abcCatalog()
	cfg.TurnPenaltyMode = ""
	r := NewRanker(cfg)

	assert.Equal(t, 9.25, r.Rank(false, true)[0].Score)
}

func TestParseTurnPenaltyMode(t *testing.T) {
	mode, err := ParseTurnPenaltyMode("perStreet")
	require.NoError(t, err)
	assert.Equal(t, TurnPenaltyPerStreet, mode)

	mode, err = ParseTurnPenaltyMode("flatBonus")
	require.NoError(t, err)
	assert.Equal(t, TurnPenaltyFlatBonus, mode)

	_, err = ParseTurnPenaltyMode("average")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "average")
}
