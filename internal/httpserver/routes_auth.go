package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/auth"
)

// credentials is the payload for signup and login.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers /auth/* and /progress/me.
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r))
	})

	// Progress works for guests too (anonymous cookie owner).
	s.r.With(s.withOptionalAuth()).Get("/progress/me", s.handleProgress)
}

// handleSignup creates a user, sets the auth cookie, and claims anonymous progress.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.auth.Signup(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "Username taken")
		return
	case errors.Is(err, auth.ErrInvalidSignup):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Msg("signup")
		writeError(w, http.StatusInternalServerError, "signup_failed")
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	s.claimAnonymous(r.Context(), ensureAnonID(w, r), u.ID)
	writeJSON(w, http.StatusOK, u)
}

// handleLogin authenticates, sets the cookie, and claims anonymous progress.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			log.Error().Err(err).Msg("login")
		}
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !s.issueToken(w, u) {
		return
	}
	s.claimAnonymous(r.Context(), ensureAnonID(w, r), u.ID)
	writeJSON(w, http.StatusOK, map[string]string{"id": u.ID, "username": u.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) issueToken(w http.ResponseWriter, u *auth.User) bool {
	tok, exp, err := s.auth.Sign(u)
	if err != nil {
		log.Error().Err(err).Str("user", u.ID).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	setAuthCookie(w, tok, exp)
	return true
}

// claimAnonymous moves guest results and progress to the account (best effort).
func (s *Server) claimAnonymous(ctx context.Context, anonID, userID string) {
	if err := s.daily.ClaimAnonymous(ctx, anonID, userID); err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("claim anon daily results")
	}
	if err := s.progress.ClaimAnonymous(ctx, anonID, userID); err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("claim anon progress")
	}
}

// handleProgress returns campaign progress and quick-play stats for the caller.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(w, r)
	c, err := s.progress.Campaign(r.Context(), owner)
	if err != nil {
		log.Error().Err(err).Str("owner", owner).Msg("load campaign")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	q, err := s.progress.QuickPlayStats(r.Context(), owner)
	if err != nil {
		log.Error().Err(err).Str("owner", owner).Msg("load quick play stats")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"campaign": c, "quickPlay": q})
}
