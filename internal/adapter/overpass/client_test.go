package overpass

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/signals-planner/internal/domain"
	"github.com/couchcryptid/signals-planner/internal/observability"
)

const (
	testBaseURL     = "https://overpass.test"
	interpreterURL  = testBaseURL + "/api/interpreter"
	overpassPayload = `{
  "version": 0.6,
  "generator": "Overpass API 0.7.62",
  "osm3s": {"timestamp_osm_base": "2026-10-01T00:00:00Z", "copyright": "ODbL"},
  "elements": [
    {"type": "node", "id": 101, "lat": 42.5201, "lon": -70.8954, "tags": {"highway": "traffic_signals"}},
    {"type": "node", "id": 102, "lat": 42.5188, "lon": -70.8990, "tags": {"highway": "stop", "direction": "forward"}},
    {"type": "node", "id": 103, "lat": 42.5170, "lon": -70.8921, "tags": {"highway": "crossing"}},
    {"type": "node", "id": 104, "lat": 42.5165, "lon": -70.8900},
    {"type": "node", "id": 105, "lat": 42.5215, "lon": -70.8933, "tags": {"highway": "traffic_signals"}}
  ]
}`
)

var testBBox = domain.BBox{South: 42.51, West: -70.90, North: 42.53, East: -70.88}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func testClient() *Client {
	return NewClient(testBaseURL, 5*time.Second, observability.NewMetricsForTesting(), testLogger())
}

func TestQuery(t *testing.T) {
	q := Query(testBBox)
	assert.Contains(t, q, "[out:json][timeout:25];")
	assert.Contains(t, q, `node["highway"="traffic_signals"](42.51,-70.9,42.53,-70.88);`)
	assert.Contains(t, q, `node["highway"="stop"](42.51,-70.9,42.53,-70.88);`)
	assert.Contains(t, q, "out body;")
}

func TestClient_Features_Success(t *testing.T) {
	setupMock(t)
	httpmock.RegisterResponder(http.MethodPost, interpreterURL,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "text/plain;charset=UTF-8", req.Header.Get("Content-Type"))
			body, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			assert.Equal(t, Query(testBBox), string(body))
			return httpmock.NewStringResponse(http.StatusOK, overpassPayload), nil
		})

	c := testClient()
	overlay, err := c.Features(context.Background(), testBBox)
	require.NoError(t, err)

	require.Len(t, overlay.Signals, 2)
	require.Len(t, overlay.Stops, 1)
	assert.Equal(t, domain.OverlayFeature{ID: 101, Kind: domain.FeatureTrafficSignal, Lat: 42.5201, Lon: -70.8954}, overlay.Signals[0])
	assert.Equal(t, int64(105), overlay.Signals[1].ID)
	assert.Equal(t, domain.OverlayFeature{ID: 102, Kind: domain.FeatureStopSign, Lat: 42.5188, Lon: -70.8990}, overlay.Stops[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.OverlayRequests.WithLabelValues("success")))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestClient_Features_MissingElements(t *testing.T) {
	setupMock(t)
	httpmock.RegisterResponder(http.MethodPost, interpreterURL,
		httpmock.NewStringResponder(http.StatusOK, `{"version":0.6}`))

	overlay, err := testClient().Features(context.Background(), testBBox)
	require.NoError(t, err)
	assert.Empty(t, overlay.Signals)
	assert.Empty(t, overlay.Stops)
}

func TestClient_Features_MalformedIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"truncated", `{"elements":[{"type":"node"`},
		{"html", `<html>rate limited</html>`},
		{"elements not a list", `{"elements":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupMock(t)
			httpmock.RegisterResponder(http.MethodPost, interpreterURL,
				httpmock.NewStringResponder(http.StatusOK, tt.body))

			c := testClient()
			overlay, err := c.Features(context.Background(), testBBox)
			require.NoError(t, err)
			assert.Equal(t, domain.Overlay{}, overlay)
			assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.OverlayRequests.WithLabelValues("malformed")))
		})
	}
}

func TestClient_Features_APIError(t *testing.T) {
	setupMock(t)
	httpmock.RegisterResponder(http.MethodPost, interpreterURL,
		httpmock.NewStringResponder(http.StatusTooManyRequests, "slow down"))

	c := testClient()
	_, err := c.Features(context.Background(), testBBox)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.OverlayRequests.WithLabelValues("error")))
}

func TestClient_Features_TransportError(t *testing.T) {
	setupMock(t)
	httpmock.RegisterResponder(http.MethodPost, interpreterURL,
		httpmock.NewErrorResponder(assert.AnError))

	_, err := testClient().Features(context.Background(), testBBox)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
