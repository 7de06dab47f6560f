// internal/httpserver/server.go
//
// HTTP server wiring for the word-search backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Puzzle endpoints (optional auth): mounted under /puzzle.
//   - Daily puzzle endpoints (optional auth): mounted under /daily.
//   - Auth endpoints (/auth/*) and progress (/progress/me).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Guests play under an anonymous cookie id; progress moves to the account on login.
//   - Unfinished puzzles are sent as grid + word list only, never placements.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/auth"
	"github.com/robalobadob/wordsearch/internal/daily"
	"github.com/robalobadob/wordsearch/internal/generator"
	"github.com/robalobadob/wordsearch/internal/progress"
	"github.com/robalobadob/wordsearch/internal/store"
)

// clock is swapped in tests.
var clock = time.Now

// Server bundles the router, session store, generator and DB-backed services.
type Server struct {
	r        *chi.Mux
	store    store.Store
	db       *sql.DB
	gen      *generator.Generator
	auth     *auth.Service
	daily    *daily.Store
	progress *progress.Store
	dailies  *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
// Auth settings come from JWT_SECRET and JWT_EXPIRES_DAYS.
func New(st store.Store, db *sql.DB, gen *generator.Generator) *Server {
	if gen == nil {
		gen = generator.New(nil, nil)
	}
	days := envInt("JWT_EXPIRES_DAYS", 14)
	s := &Server{
		r:        chi.NewRouter(),
		store:    st,
		db:       db,
		gen:      gen,
		auth:     auth.NewService(db, os.Getenv("JWT_SECRET"), time.Duration(days)*24*time.Hour),
		daily:    daily.NewStore(db),
		progress: progress.NewStore(db),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "wordsearch-go",
			"endpoints": []string{"/health", "POST /puzzle/new", "POST /puzzle/select", "/daily/*", "/auth/*", "/progress/me"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		total, short, medium, long := s.gen.Catalog().Stats()
		writeJSON(w, http.StatusOK, map[string]int{"total": total, "short": short, "medium": medium, "long": long})
	})

	// Puzzles and daily: OPTIONAL AUTH (guests can play)
	s.mountPuzzle(s.r.With(s.withOptionalAuth()))
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
