package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/signals-planner/internal/adapter/navlink"
	"github.com/couchcryptid/signals-planner/internal/domain"
	"github.com/couchcryptid/signals-planner/internal/mapview"
	"github.com/couchcryptid/signals-planner/internal/planner"
)

// Planner is the application surface served over HTTP.
type Planner interface {
	Catalog() []domain.StreetRecord
	Plan(ctx context.Context, req planner.PlanRequest) planner.Suggestion
	SaveFavorite(ctx context.Context, req planner.PlanRequest) (domain.FavoriteEntry, error)
	Favorites(ctx context.Context) []domain.FavoriteView
	RemoveFavorite(ctx context.Context, index int) error
	DrawMap(ctx context.Context, start, dest string) (mapview.MapView, error)
	Handoff(ctx context.Context, req planner.HandoffRequest) (planner.HandoffResult, error)
}

// Options configures the middleware around the API.
type Options struct {
	// CORSOrigins lists allowed browser origins. Empty disables CORS headers.
	CORSOrigins []string
	// AccessLog receives one Common Log Format line per request. Nil disables it.
	AccessLog io.Writer
}

// Server exposes the planner API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	planner    Planner
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and /api routes.
func NewServer(addr string, p Planner, ready sharedobs.ReadinessChecker, opts Options, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second, // map draws wait on two upstream APIs
			IdleTimeout:  60 * time.Second,
		},
		planner: p,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.HandleFunc("POST /api/plan", s.handlePlan)
	mux.HandleFunc("GET /api/map", s.handleMap)
	mux.HandleFunc("GET /api/favorites", s.handleListFavorites)
	mux.HandleFunc("POST /api/favorites", s.handleSaveFavorite)
	mux.HandleFunc("DELETE /api/favorites/{index}", s.handleRemoveFavorite)
	mux.HandleFunc("GET /api/handoff", s.handleHandoff)

	s.httpServer.Handler = wrap(mux, opts, logger)
	return s
}

func wrap(h http.Handler, opts Options, logger *slog.Logger) http.Handler {
	if len(opts.CORSOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(opts.CORSOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(h)
	}
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
	)(h)
	if opts.AccessLog != nil {
		h = handlers.LoggingHandler(opts.AccessLog, h)
	}
	return h
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type catalogResponse struct {
	Streets []domain.StreetRecord `json:"streets"`
}

type favoritesResponse struct {
	Favorites []domain.FavoriteView `json:"favorites"`
	Message   string                `json:"message,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{Streets: s.planner.Catalog()})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planner.PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.planner.Plan(r.Context(), req))
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := s.planner.DrawMap(r.Context(), q.Get("start"), q.Get("dest"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	resp := favoritesResponse{Favorites: s.planner.Favorites(r.Context())}
	if len(resp.Favorites) == 0 {
		resp.Message = domain.NoFavoritesLabel
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSaveFavorite(w http.ResponseWriter, r *http.Request) {
	var req planner.PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	entry, err := s.planner.SaveFavorite(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "favorite index must be an integer"})
		return
	}
	if err := s.planner.RemoveFavorite(r.Context(), index); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHandoff(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	app, err := navlink.ParseApp(q.Get("app"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	origin, err := parseOrigin(q.Get("lat"), q.Get("lon"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := s.planner.Handoff(r.Context(), planner.HandoffRequest{
		App:       app,
		UserAgent: r.UserAgent(),
		Start:     q.Get("start"),
		Dest:      q.Get("dest"),
		Origin:    origin,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if redirect, _ := strconv.ParseBool(q.Get("redirect")); redirect {
		http.Redirect(w, r, result.URL, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func parseOrigin(lat, lon string) (*domain.Coordinate, error) {
	if lat == "" && lon == "" {
		return nil, nil
	}
	la, errLat := strconv.ParseFloat(lat, 64)
	lo, errLon := strconv.ParseFloat(lon, 64)
	if errLat != nil || errLon != nil || la < -90 || la > 90 || lo < -180 || lo > 180 {
		return nil, errors.New("lat and lon must be given together as valid coordinates")
	}
	return &domain.Coordinate{Lat: la, Lon: lo}, nil
}

// writeError maps domain errors to status codes and the driver-facing message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: domain.UserMessage(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingInput), errors.Is(err, domain.ErrMissingDestination):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLocationNotFound), errors.Is(err, domain.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoPick):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
