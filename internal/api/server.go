// Package api provides the HTTP server for FitProof: profile and streak
// reads, submission and shield writes, and rule administration.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrcaqui/fit-proof-sub000/internal/app/profile"
	"github.com/mrcaqui/fit-proof-sub000/internal/health"
)

// Version is the reported API version.
const Version = "0.1.0"

// Server is the FitProof HTTP API server.
type Server struct {
	profiles       *profile.Service
	health         *health.Checker
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(profiles *profile.Service, checker *health.Checker) *Server {
	return &Server{profiles: profiles, health: checker}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "FitProof is running",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Route("/api/users/{userID}", func(r chi.Router) {
		r.Get("/profile", s.handleProfile)
		r.Get("/streak", s.handleStreak)
		r.Get("/weeks", s.handleWeeks)
		r.Get("/summary", s.handleSummary)
		r.Get("/submissions", s.handleListSubmissions)
		r.Post("/submissions", s.handleApproveSubmission)
		r.Delete("/submissions/{date}", s.handleRemoveSubmission)
		r.Post("/shields", s.handleApplyShield)
		r.Delete("/shields/{date}", s.handleRemoveShield)
		r.Post("/recompute", s.handleRecompute)
	})

	r.Route("/api/rules", func(r chi.Router) {
		r.Get("/", s.handleListRules)
		r.Put("/", s.handleSaveRule)
		r.Delete("/{id}", s.handleDeleteRule)
	})

	r.Route("/api/groups", func(r chi.Router) {
		r.Get("/", s.handleListGroups)
		r.Put("/", s.handleSaveGroup)
		r.Delete("/{id}", s.handleDeleteGroup)
	})

	r.Route("/api/settings", func(r chi.Router) {
		r.Get("/", s.handleGetSettings)
		r.Put("/", s.handleSaveSettings)
	})

	r.Post("/api/recompute", s.handleRecomputeAll)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
