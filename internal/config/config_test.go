package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/signals-planner/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "signals-planner.db", cfg.StorePath)
	assert.Equal(t, "signalsPlanner:favs", cfg.FavoritesKey)
	assert.Equal(t, 20, cfg.FavoritesCap)
	assert.Empty(t, cfg.CatalogPath)
	assert.Equal(t, 8, cfg.LightsThreshold)
	assert.Equal(t, 1.0, cfg.PreferLightsWeight)
	assert.Equal(t, 0.5, cfg.AvoidTurnsWeight)
	assert.Equal(t, domain.TurnPenaltyFlatBonus, cfg.TurnPenaltyMode)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.NominatimURL)
	assert.Equal(t, 10*time.Second, cfg.NominatimTimeout)
	assert.Equal(t, 1.0, cfg.NominatimRate)
	assert.Equal(t, 500, cfg.GeocodeCacheSize)
	assert.Equal(t, "https://overpass-api.de", cfg.OverpassURL)
	assert.Equal(t, 30*time.Second, cfg.OverpassTimeout)
	assert.Equal(t, 10*time.Minute, cfg.OverlayCacheTTL)
	assert.Equal(t, 120*time.Millisecond, cfg.MapDelay)
	assert.Equal(t, 8*time.Second, cfg.GeolocationTimeout)
	assert.Nil(t, cfg.Origin)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://planner.example")
	t.Setenv("STORE_PATH", ":memory:")
	t.Setenv("FAVORITES_KEY", "custom:favs")
	t.Setenv("FAVORITES_CAP", "5")
	t.Setenv("LIGHTS_THRESHOLD", "7")
	t.Setenv("WEIGHT_PREFER_LIGHTS", "2.5")
	t.Setenv("WEIGHT_AVOID_TURNS", "1")
	t.Setenv("TURN_PENALTY_MODE", "perStreet")
	t.Setenv("NOMINATIM_URL", "http://localhost:7070")
	t.Setenv("NOMINATIM_RATE", "0.5")
	t.Setenv("GEOCODE_CACHE_SIZE", "50")
	t.Setenv("MAP_DELAY", "1s")
	t.Setenv("GEOLOCATION_TIMEOUT", "3s")
	t.Setenv("ORIGIN_LAT", "42.52")
	t.Setenv("ORIGIN_LON", "-70.89")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:5173", "https://planner.example"}, cfg.CORSOrigins)
	assert.Equal(t, ":memory:", cfg.StorePath)
	assert.Equal(t, "custom:favs", cfg.FavoritesKey)
	assert.Equal(t, 5, cfg.FavoritesCap)
	assert.Equal(t, 7, cfg.LightsThreshold)
	assert.Equal(t, 2.5, cfg.PreferLightsWeight)
	assert.Equal(t, 1.0, cfg.AvoidTurnsWeight)
	assert.Equal(t, domain.TurnPenaltyPerStreet, cfg.TurnPenaltyMode)
	assert.Equal(t, "http://localhost:7070", cfg.NominatimURL)
	assert.Equal(t, 0.5, cfg.NominatimRate)
	assert.Equal(t, 50, cfg.GeocodeCacheSize)
	assert.Equal(t, time.Second, cfg.MapDelay)
	assert.Equal(t, 3*time.Second, cfg.GeolocationTimeout)
	require.NotNil(t, cfg.Origin)
	assert.Equal(t, domain.Coordinate{Lat: 42.52, Lon: -70.89}, *cfg.Origin)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"NOMINATIM_TIMEOUT", "OVERPASS_TIMEOUT", "OVERLAY_CACHE_TTL", "MAP_DELAY", "GEOLOCATION_TIMEOUT"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "-1s")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_InvalidFavoritesCap(t *testing.T) {
	t.Setenv("FAVORITES_CAP", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FAVORITES_CAP")
}

func TestLoad_InvalidWeight(t *testing.T) {
	t.Setenv("WEIGHT_PREFER_LIGHTS", "lots")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEIGHT_PREFER_LIGHTS")
}

func TestLoad_InvalidTurnPenaltyMode(t *testing.T) {
	t.Setenv("TURN_PENALTY_MODE", "both")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TURN_PENALTY_MODE")
}

func TestLoad_InvalidNominatimRate(t *testing.T) {
	t.Setenv("NOMINATIM_RATE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOMINATIM_RATE")
}

func TestLoad_OriginRequiresBoth(t *testing.T) {
	t.Setenv("ORIGIN_LAT", "42.5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORIGIN_LON")
}

func TestLoad_OriginOutOfRange(t *testing.T) {
	t.Setenv("ORIGIN_LAT", "95")
	t.Setenv("ORIGIN_LON", "10")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORIGIN_LAT")
}

func TestConfig_LoadCatalog_Default(t *testing.T) {
	cfg := &Config{}
	catalog, err := cfg.LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCatalog(), catalog)
}

func TestConfig_LoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("streets:\n  - {name: Elm St, rating: 8, turnsPenalty: 2}\n"), 0o600))

	cfg := &Config{CatalogPath: path}
	catalog, err := cfg.LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, []domain.StreetRecord{{Name: "Elm St", Rating: 8, TurnsPenalty: 2}}, catalog)
}

func TestConfig_LoadCatalog_MissingFile(t *testing.T) {
	cfg := &Config{CatalogPath: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := cfg.LoadCatalog()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open catalog")
}

func TestConfig_RankerConfig(t *testing.T) {
	cfg := &Config{LightsThreshold: 7, PreferLightsWeight: 2, AvoidTurnsWeight: 1, TurnPenaltyMode: domain.TurnPenaltyPerStreet}
	rc := cfg.RankerConfig(domain.DefaultCatalog())

	assert.Equal(t, 7, rc.LightsThreshold)
	assert.Equal(t, 2.0, rc.PreferLightsWeight)
	assert.Equal(t, 1.0, rc.AvoidTurnsWeight)
	assert.Equal(t, domain.TurnPenaltyPerStreet, rc.TurnPenaltyMode)
	assert.Len(t, rc.Catalog, 5)
}
