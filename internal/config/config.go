package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/signals-planner/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Favorites persistence.
	StorePath    string
	FavoritesKey string
	FavoritesCap int

	// Ranking.
	CatalogPath        string
	LightsThreshold    int
	PreferLightsWeight float64
	AvoidTurnsWeight   float64
	TurnPenaltyMode    domain.TurnPenaltyMode

	// Nominatim geocoding.
	NominatimURL       string
	NominatimUserAgent string
	NominatimTimeout   time.Duration
	NominatimRate      float64
	GeocodeCacheSize   int

	// Overpass overlay.
	OverpassURL     string
	OverpassTimeout time.Duration
	OverlayCacheTTL time.Duration

	// Interaction timing.
	MapDelay           time.Duration
	GeolocationTimeout time.Duration

	// Optional fixed origin used for hand-off when no start text is given.
	Origin *domain.Coordinate
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	nominatimTimeout, err := parseDuration("NOMINATIM_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	overpassTimeout, err := parseDuration("OVERPASS_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	overlayTTL, err := parseDuration("OVERLAY_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}
	mapDelay, err := parseDuration("MAP_DELAY", "120ms")
	if err != nil {
		return nil, err
	}
	geoTimeout, err := parseDuration("GEOLOCATION_TIMEOUT", "8s")
	if err != nil {
		return nil, err
	}

	favCap, err := parsePositiveInt("FAVORITES_CAP", 20)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("GEOCODE_CACHE_SIZE", 500)
	if err != nil {
		return nil, err
	}
	threshold, err := parseInt("LIGHTS_THRESHOLD", 8)
	if err != nil {
		return nil, err
	}

	preferWeight, err := parseFloat("WEIGHT_PREFER_LIGHTS", 1.0)
	if err != nil {
		return nil, err
	}
	avoidWeight, err := parseFloat("WEIGHT_AVOID_TURNS", 0.5)
	if err != nil {
		return nil, err
	}
	rate, err := parseFloat("NOMINATIM_RATE", 1.0)
	if err != nil {
		return nil, err
	}
	if rate <= 0 {
		return nil, errors.New("invalid NOMINATIM_RATE: must be > 0")
	}

	mode, err := domain.ParseTurnPenaltyMode(sharedcfg.EnvOrDefault("TURN_PENALTY_MODE", string(domain.TurnPenaltyFlatBonus)))
	if err != nil {
		return nil, fmt.Errorf("invalid TURN_PENALTY_MODE: %w", err)
	}

	origin, err := parseOrigin()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		CORSOrigins:     parseList(sharedcfg.EnvOrDefault("CORS_ORIGINS", "*")),

		StorePath:    sharedcfg.EnvOrDefault("STORE_PATH", "signals-planner.db"),
		FavoritesKey: sharedcfg.EnvOrDefault("FAVORITES_KEY", "signalsPlanner:favs"),
		FavoritesCap: favCap,

		CatalogPath:        os.Getenv("CATALOG_PATH"),
		LightsThreshold:    threshold,
		PreferLightsWeight: preferWeight,
		AvoidTurnsWeight:   avoidWeight,
		TurnPenaltyMode:    mode,

		NominatimURL:       sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: sharedcfg.EnvOrDefault("NOMINATIM_USER_AGENT", "signals-planner/1.0"),
		NominatimTimeout:   nominatimTimeout,
		NominatimRate:      rate,
		GeocodeCacheSize:   cacheSize,

		OverpassURL:     sharedcfg.EnvOrDefault("OVERPASS_URL", "https://overpass-api.de"),
		OverpassTimeout: overpassTimeout,
		OverlayCacheTTL: overlayTTL,

		MapDelay:           mapDelay,
		GeolocationTimeout: geoTimeout,
		Origin:             origin,
	}

	if cfg.StorePath == "" {
		return nil, errors.New("STORE_PATH is required")
	}
	if cfg.FavoritesKey == "" {
		return nil, errors.New("FAVORITES_KEY is required")
	}
	if cfg.NominatimUserAgent == "" {
		return nil, errors.New("NOMINATIM_USER_AGENT is required by the Nominatim usage policy")
	}

	return cfg, nil
}

// RankerConfig builds the ranking configuration over the given catalog.
func (c *Config) RankerConfig(catalog []domain.StreetRecord) domain.RankerConfig {
	return domain.RankerConfig{
		Catalog:            catalog,
		LightsThreshold:    c.LightsThreshold,
		PreferLightsWeight: c.PreferLightsWeight,
		AvoidTurnsWeight:   c.AvoidTurnsWeight,
		TurnPenaltyMode:    c.TurnPenaltyMode,
	}
}

// LoadCatalog returns the catalog from CatalogPath, or the built-in one when unset.
func (c *Config) LoadCatalog() ([]domain.StreetRecord, error) {
	if c.CatalogPath == "" {
		return domain.DefaultCatalog(), nil
	}
	f, err := os.Open(c.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return domain.LoadCatalog(f)
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	n, err := parseInt(key, def)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be > 0", key)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// parseOrigin reads ORIGIN_LAT/ORIGIN_LON. Both or neither must be set.
func parseOrigin() (*domain.Coordinate, error) {
	latStr, lonStr := os.Getenv("ORIGIN_LAT"), os.Getenv("ORIGIN_LON")
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	if latStr == "" || lonStr == "" {
		return nil, errors.New("ORIGIN_LAT and ORIGIN_LON must be set together")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, errors.New("invalid ORIGIN_LAT")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		return nil, errors.New("invalid ORIGIN_LON")
	}
	return &domain.Coordinate{Lat: lat, Lon: lon}, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
