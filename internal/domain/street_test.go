package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_IsValid(t *testing.T) {
	require.NoError(t, ValidateCatalog(DefaultCatalog()))
	assert.Len(t, DefaultCatalog(), 5)
}

func TestDefaultCatalog_ReturnsCopy(t *testing.T) {
	c := DefaultCatalog()
	c[0].Name = "changed"
	assert.Equal(t, "E Cottage St", DefaultCatalog()[0].Name)
}

func TestValidateCatalog_Errors(t *testing.T) {
	err := ValidateCatalog([]StreetRecord{
		{Name: "A", Rating: 5},
		{Name: " ", Rating: 5},
		{Name: "A", Rating: 4},
		{Name: "B", Rating: 3, TurnsPenalty: -1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "street 1: name is required")
	assert.Contains(t, err.Error(), `duplicate name "A"`)
	assert.Contains(t, err.Error(), "turnsPenalty must be >= 0")
}

func TestValidateCatalog_EmptyIsValid(t *testing.T) {
	assert.NoError(t, ValidateCatalog(nil))
}

func TestLoadCatalog(t *testing.T) {
	yml := `
streets:
  - name: Main St
    rating: 9
    turnsPenalty: 1
    notes: Signals all the way
  - name: Old Rd
    score: 5
`
	catalog, err := LoadCatalog(strings.NewReader(yml))
	require.NoError(t, err)

	assert.Equal(t, []StreetRecord{
		{Name: "Main St", Rating: 9, TurnsPenalty: 1, Notes: "Signals all the way"},
		{Name: "Old Rd", Rating: 5},
	}, catalog)
}

func TestLoadCatalog_RatingWinsOverScore(t *testing.T) {
	yml := "streets:\n  - name: X\n    rating: 7\n    score: 2\n"
	catalog, err := LoadCatalog(strings.NewReader(yml))
	require.NoError(t, err)
	assert.Equal(t, 7, catalog[0].Rating)
}

func TestLoadCatalog_MissingRating(t *testing.T) {
	_, err := LoadCatalog(strings.NewReader("streets:\n  - name: X\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating is required")
}

func TestLoadCatalog_UnknownField(t *testing.T) {
	_, err := LoadCatalog(strings.NewReader("streets:\n  - name: X\n    rating: 1\n    colour: red\n"))
	require.Error(t, err)
}

func TestLoadCatalog_Duplicate(t *testing.T) {
	_, err := LoadCatalog(strings.NewReader("streets:\n  - {name: X, rating: 1}\n  - {name: X, rating: 2}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid catalog")
}

func TestLoadCatalog_EmptyDocument(t *testing.T) {
	catalog, err := LoadCatalog(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, catalog)
}
