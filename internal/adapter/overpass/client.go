package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/osm"

	"github.com/couchcryptid/signals-planner/internal/domain"
	"github.com/couchcryptid/signals-planner/internal/observability"
)

const queryTemplate = `[out:json][timeout:25];
(
  node["highway"="traffic_signals"](%[1]s);
  node["highway"="stop"](%[1]s);
);
out body;`

// Client implements domain.OverlaySource using the Overpass interpreter API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Overpass client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		metrics:    metrics,
		logger:     logger,
	}
}

// Query renders the Overpass QL for signals and stop signs inside bbox.
func Query(bbox domain.BBox) string {
	box := fmt.Sprintf("%g,%g,%g,%g", bbox.South, bbox.West, bbox.North, bbox.East)
	return fmt.Sprintf(queryTemplate, box)
}

// Features fetches traffic signals and stop signs inside bbox. A body that
// is not valid OSM JSON yields an empty overlay and a nil error.
func (c *Client) Features(ctx context.Context, bbox domain.BBox) (domain.Overlay, error) {
	start := time.Now()
	defer func() { c.metrics.OverlayAPIDuration.Observe(time.Since(start).Seconds()) }()

	body, err := c.doRequest(ctx, Query(bbox))
	if err != nil {
		c.metrics.OverlayRequests.WithLabelValues("error").Inc()
		return domain.Overlay{}, err
	}

	overlay, err := parseOverlay(body)
	if err != nil {
		c.metrics.OverlayRequests.WithLabelValues("malformed").Inc()
		c.logger.Warn("overpass returned malformed data", "bbox", bbox.Key(), "error", err)
		return domain.Overlay{}, nil
	}

	c.metrics.OverlayRequests.WithLabelValues("success").Inc()
	c.metrics.OverlayFeatures.WithLabelValues(string(domain.FeatureTrafficSignal)).Observe(float64(len(overlay.Signals)))
	c.metrics.OverlayFeatures.WithLabelValues(string(domain.FeatureStopSign)).Observe(float64(len(overlay.Stops)))
	return overlay, nil
}

func (c *Client) doRequest(ctx context.Context, query string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/interpreter", strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=UTF-8")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("overpass API error: status %d: %s", resp.StatusCode, msg)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// parseOverlay keeps only tagged nodes whose highway tag is a signal or stop.
// Overpass wraps the elements in its own envelope (numeric version, osm3s
// block), so only the element list is handed to the osm decoder.
func parseOverlay(body []byte) (domain.Overlay, error) {
	var envelope struct {
		Elements json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return domain.Overlay{}, fmt.Errorf("decode envelope: %w", err)
	}
	if len(envelope.Elements) == 0 || string(envelope.Elements) == "null" {
		return domain.Overlay{}, nil
	}

	doc := &osm.OSM{}
	wrapped := append(append([]byte(`{"elements":`), envelope.Elements...), '}')
	if err := json.Unmarshal(wrapped, doc); err != nil {
		return domain.Overlay{}, fmt.Errorf("decode elements: %w", err)
	}

	var overlay domain.Overlay
	for _, node := range doc.Nodes {
		feature := domain.OverlayFeature{ID: int64(node.ID), Lat: node.Lat, Lon: node.Lon}
		switch domain.FeatureKind(node.Tags.Find("highway")) {
		case domain.FeatureTrafficSignal:
			feature.Kind = domain.FeatureTrafficSignal
			overlay.Signals = append(overlay.Signals, feature)
		case domain.FeatureStopSign:
			feature.Kind = domain.FeatureStopSign
			overlay.Stops = append(overlay.Stops, feature)
		}
	}
	return overlay, nil
}
