//go:build nominatim

package nominatim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the public Nominatim instance.
// Run with: go test -tags=nominatim ./internal/adapter/nominatim/ -v -count=1

func smokeClient() *Client {
	return NewClient("https://nominatim.openstreetmap.org", "signals-planner-smoke/1.0", 10*time.Second, 1, testMetrics(), testLogger())
}

func TestSmoke_Search(t *testing.T) {
	c := smokeClient()

	result, err := c.Search(context.Background(), "Salem, Massachusetts")
	require.NoError(t, err)

	assert.InDelta(t, 42.52, result.Lat, 0.1, "lat should be near Salem")
	assert.InDelta(t, -70.89, result.Lon, 0.1, "lon should be near Salem")
	assert.Contains(t, result.DisplayName, "Salem")
}

func TestSmoke_Search_NoMatch(t *testing.T) {
	c := smokeClient()

	result, err := c.Search(context.Background(), "xyznonexistentplace99 zz")
	require.NoError(t, err)
	assert.False(t, result.Found())
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	inner := smokeClient()
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	r1, err := cached.Search(context.Background(), "Beverly, Massachusetts")
	require.NoError(t, err)
	assert.Contains(t, r1.DisplayName, "Beverly")

	r2, err := cached.Search(context.Background(), "Beverly, Massachusetts")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
