// Package viewer serves the interactive choropleth viewer: a small
// HTTP API in front of the view data controller plus an embedded
// Leaflet page. Every privileged route runs through the same
// guard/load lifecycle the CLI uses.
package viewer

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/settlesavvy/settlemap-cli/internal/choropleth"
	"github.com/settlesavvy/settlemap-cli/internal/model"
	"github.com/settlesavvy/settlemap-cli/internal/store"
	"github.com/settlesavvy/settlemap-cli/internal/viewdata"
	"github.com/settlesavvy/settlemap-cli/pkg/settleapi"
)

// Server exposes overlay, legend, and map data over HTTP.
type Server struct {
	api       settleapi.Client
	guard     viewdata.Guard
	cache     *OverlayCache
	snapshots store.Store // optional; nil disables snapshot capture
}

// NewServer creates a viewer server.
func NewServer(api settleapi.Client, guard viewdata.Guard, cache *OverlayCache, snapshots store.Store) *Server {
	return &Server{api: api, guard: guard, cache: cache, snapshots: snapshots}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Get("/maps/{id}", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.Get("/maps", s.handleListMaps)
		r.Get("/maps/{id}", s.handleGetMap)
		r.Get("/maps/{id}/view", s.handleView)
		r.Get("/maps/{id}/overlay", s.handleOverlay)
		r.Get("/maps/{id}/legend", s.handleLegend)
		r.Get("/cache/stats", s.handleCacheStats)
	})

	return r
}

// requestLogger logs one line per request with a correlation id.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.New().String()
		next.ServeHTTP(w, r)
		zap.L().Debug("viewer: request",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cache.Stats())
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"title":   "Neighborhood Score",
		"entries": choropleth.LegendEntries(),
	})
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	screen := viewdata.NewScreen[[]model.Map](s.guard, noopNav{})
	st := screen.Load(r.Context(), viewdata.FetchMapList(s.api))
	s.writeState(w, st.Status, st.Err, st.Data)
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "id")
	screen := viewdata.NewScreen[*model.Map](s.guard, noopNav{})
	st := screen.Load(r.Context(), func(ctx context.Context) (*model.Map, error) {
		return s.api.GetMap(ctx, mapID)
	})
	s.writeState(w, st.Status, st.Err, st.Data)
}

// handleView returns the camera parameters for a map, applying the
// fallback center and zoom when the record carries none.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "id")
	screen := viewdata.NewScreen[*model.Map](s.guard, noopNav{})
	st := screen.Load(r.Context(), func(ctx context.Context) (*model.Map, error) {
		return s.api.GetMap(ctx, mapID)
	})
	if st.Status != viewdata.StatusReady {
		s.writeState(w, st.Status, st.Err, nil)
		return
	}

	cam := choropleth.NewCamera()
	cam.SyncView(st.Data.CenterPoint, st.Data.ZoomLevel)
	lat, lng, zoom := cam.View()
	writeJSON(w, http.StatusOK, map[string]any{
		"name": st.Data.Name,
		"lat":  lat,
		"lng":  lng,
		"zoom": zoom,
	})
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "id")

	// The guard runs before the cache: a cached overlay is still
	// privileged content, and the session may have been cleared since
	// it was rendered.
	if !s.guard() {
		s.writeState(w, viewdata.StatusRedirect, "", nil)
		return
	}

	if cached := s.cache.Get(mapID); cached != nil {
		w.Header().Set("Content-Type", "application/geo+json")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write(cached)
		return
	}

	screen := viewdata.NewScreen[viewdata.MapDetail](s.guard, noopNav{})
	st := screen.Load(r.Context(), viewdata.FetchMapDetail(s.api, mapID))
	if st.Status != viewdata.StatusReady {
		s.writeState(w, st.Status, st.Err, nil)
		return
	}

	fc, err := choropleth.BuildOverlay(st.Data.Scores)
	if err != nil {
		zap.L().Error("viewer: overlay build failed", zap.String("map_id", mapID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "overlay build failed"})
		return
	}
	if fc == nil {
		// No scored neighborhoods is a valid state: no overlay at all.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	data, err := json.Marshal(fc)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "overlay encode failed"})
		return
	}

	s.cache.Put(mapID, data)
	s.snapshot(r.Context(), st.Data.Map, data)

	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(data)
}

// snapshot captures the rendered overlay for offline viewing.
func (s *Server) snapshot(ctx context.Context, m model.Map, overlay []byte) {
	if s.snapshots == nil {
		return
	}
	if _, err := s.snapshots.SaveSnapshot(ctx, m, overlay); err != nil {
		zap.L().Warn("viewer: snapshot save failed", zap.String("map_id", m.MapID), zap.Error(err))
	}
}

// writeState maps a view state onto an HTTP response.
func (s *Server) writeState(w http.ResponseWriter, status viewdata.Status, errMsg string, data any) {
	switch status {
	case viewdata.StatusReady:
		writeJSON(w, http.StatusOK, data)
	case viewdata.StatusRedirect:
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error":    "authentication required",
			"redirect": viewdata.RouteLogin,
		})
	default:
		code := http.StatusBadGateway
		if errMsg == "Map not found" {
			code = http.StatusNotFound
		}
		writeJSON(w, code, map[string]string{"error": errMsg})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// noopNav satisfies the navigator port for HTTP screens, where the
// redirect is expressed in the response instead of an in-process
// navigation.
type noopNav struct{}

func (noopNav) Navigate(string) {}
