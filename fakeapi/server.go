// Package fakeapi is an embedded stand-in for the VodHunter service. It
// serves the same endpoints and error envelope so the dashboard can be
// exercised without the real backend; the simulated monitor lives here, on
// the server side, never in the client.
package fakeapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vodhunter/vodwatch/api"
)

const (
	defaultSessionsLimit = 50
	maxSessionsLimit     = 200
)

var (
	errMonitorRunning  = errors.New("a monitor is already running")
	errInvalidStreamer = errors.New("streamer must not be empty")
)

// Server implements the VodHunter HTTP surface over a simulated monitor.
type Server struct {
	log *zap.Logger
	mon *simMonitor
}

// Option customizes a Server.
type Option func(*Server)

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.mon.now = now
	}
}

// NewServer creates a fake service whose simulated streamer goes live
// goLiveAfter after a start command.
func NewServer(log *zap.Logger, goLiveAfter time.Duration, opts ...Option) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		log: log,
		mon: newSimMonitor(goLiveAfter, nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router for the service.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/live/status", s.handleStatus)
		r.Post("/live/start", s.handleStart)
		r.Post("/live/stop", s.handleStop)
		r.Get("/live/sessions", s.handleSessions)
		r.Post("/search/clip", s.handleSearch)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	requestsTotal.WithLabelValues("/health", "200").Inc()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.mon.status())
	requestsTotal.WithLabelValues("/live/status", "200").Inc()
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Streamer string `json:"streamer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_STREAMER", "invalid request body")
		requestsTotal.WithLabelValues("/live/start", "400").Inc()
		return
	}

	status, err := s.mon.start(req.Streamer)
	switch {
	case errors.Is(err, errMonitorRunning):
		writeError(w, http.StatusConflict, "MONITOR_RUNNING", err.Error())
		requestsTotal.WithLabelValues("/live/start", "409").Inc()
		return
	case errors.Is(err, errInvalidStreamer):
		writeError(w, http.StatusBadRequest, "INVALID_STREAMER", err.Error())
		requestsTotal.WithLabelValues("/live/start", "400").Inc()
		return
	}

	monitorStartsTotal.Inc()
	s.log.Info("monitor started", zap.String("streamer", req.Streamer))
	writeJSON(w, http.StatusOK, map[string]any{"status": status})
	requestsTotal.WithLabelValues("/live/start", "200").Inc()
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	stopped, status := s.mon.stop()
	if stopped {
		s.log.Info("monitor stopped")
	}
	writeJSON(w, http.StatusOK, map[string]any{"stopped": stopped, "status": status})
	requestsTotal.WithLabelValues("/live/stop", "200").Inc()
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultSessionsLimit)
	offset := queryInt(r, "offset", 0)
	if limit < 1 {
		limit = 1
	}
	if limit > maxSessionsLimit {
		limit = maxSessionsLimit
	}
	if offset < 0 {
		offset = 0
	}

	writeJSON(w, http.StatusOK, s.mon.listSessions(limit, offset))
	requestsTotal.WithLabelValues("/live/sessions", "200").Inc()
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if status := s.mon.status(); status.State != api.StateIdle {
		writeError(w, http.StatusConflict, "SEARCH_BLOCKED", "cannot search while a live monitor is running")
		requestsTotal.WithLabelValues("/search/clip", "409").Inc()
		searchesTotal.WithLabelValues("blocked").Inc()
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "missing file upload")
		requestsTotal.WithLabelValues("/search/clip", "400").Inc()
		searchesTotal.WithLabelValues("invalid").Inc()
		return
	}
	file.Close()

	resp := api.SearchResponse{Found: false, Reason: strptr("no match above threshold")}
	if target, ok := s.mon.searchTarget(); ok {
		resp = api.SearchResponse{
			Found:            true,
			Streamer:         strptr(target.CreatorName),
			VideoID:          i64ptr(target.VideoID),
			VideoURL:         strptr(target.URL),
			Title:            strptr(target.Title),
			TimestampSeconds: i64ptr(42),
			Score:            f64ptr(0.93),
		}
	}

	outcome := "miss"
	if resp.Found {
		outcome = "hit"
	}
	searchesTotal.WithLabelValues(outcome).Inc()
	writeJSON(w, http.StatusOK, resp)
	requestsTotal.WithLabelValues("/search/clip", "200").Inc()
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", reqID),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	writeJSON(w, code, map[string]any{
		"detail": map[string]string{"code": errCode, "message": message},
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func f64ptr(v float64) *float64 { return &v }
