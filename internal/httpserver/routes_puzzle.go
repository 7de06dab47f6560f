// internal/httpserver/routes_puzzle.go
//
// HTTP routes for puzzle play under /puzzle:
//   - POST /puzzle/new          → generate a puzzle (quickplay | twoplayer | campaign | custom)
//   - GET  /puzzle/{id}         → current state of a session
//   - POST /puzzle/select       → submit a cell selection
//   - POST /puzzle/confirm      → credit the pending word to player 1 or 2
//   - POST /puzzle/hint         → reveal the next unfound word
//   - POST /puzzle/reset        → restart the same puzzle
//   - GET  /puzzle/{id}/save    → resumable saved state
//   - POST /puzzle/resume       → start a session from a saved state
//
// Campaign levels are locked until the previous level is completed.
// Completed campaign and quick-play sessions update the owner's progress.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/level"
	"github.com/robalobadob/wordsearch/internal/puzzle"
	"github.com/robalobadob/wordsearch/internal/store"
)

// Request limits for generated puzzles.
const (
	defaultWordCount = 10
	maxWordCount     = 40
	maxCustomGrid    = level.MaxQuickPlayGrid
)

// mountPuzzle registers all /puzzle routes.
func (s *Server) mountPuzzle(r chi.Router) {
	r.Route("/puzzle", func(r chi.Router) {
		r.Post("/new", s.handleNewPuzzle)
		r.Post("/select", s.handleSelect)
		r.Post("/confirm", s.handleConfirm)
		r.Post("/hint", s.handleHint)
		r.Post("/reset", s.handleReset)
		r.Post("/pause", s.handlePause)
		r.Post("/resume", s.handleResume)
		r.Get("/{id}", s.handleGetPuzzle)
		r.Get("/{id}/save", s.handleSavePuzzle)
	})
}

// newPuzzleReq is the payload for POST /puzzle/new.
type newPuzzleReq struct {
	Mode       string        `json:"mode"`       // quickplay (default) | twoplayer | campaign | custom
	Difficulty string        `json:"difficulty"` // quickplay/twoplayer; default medium
	WordCount  int           `json:"wordCount"`  // quickplay/twoplayer; default 10
	Level      int           `json:"level"`      // campaign; default current level
	Config     *level.Config `json:"config"`     // custom
	Seed       *int64        `json:"seed"`       // optional; forces a single attempt
}

// handleNewPuzzle generates a puzzle and stores a new session for it.
func (s *Server) handleNewPuzzle(w http.ResponseWriter, r *http.Request) {
	var req newPuzzleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	mode, ok := game.ParseMode(req.Mode)
	if !ok || mode == game.ModeDaily {
		writeError(w, http.StatusBadRequest, "unknown_mode")
		return
	}
	owner := ownerID(w, r)

	cfg, diff, status, msg := s.resolveConfig(r.Context(), owner, mode, req)
	if status != 0 {
		writeError(w, status, msg)
		return
	}

	p, st, err := s.gen.Generate(cfg, req.Seed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if st.Empty() {
		log.Warn().Int("requested", st.Requested).Int64("seed", st.Seed).Str("mode", string(mode)).
			Msg("no words placed")
		writeError(w, http.StatusUnprocessableEntity, "generation_failed")
		return
	}
	if st.Degraded {
		log.Warn().Int("requested", st.Requested).Int("placed", st.Placed).Str("mode", string(mode)).
			Msg("serving puzzle with reduced word list")
	}

	sess := game.New(p, mode)
	sess.Owner = owner
	sess.LevelNumber = cfg.LevelNumber
	sess.Difficulty = string(diff)
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// resolveConfig turns a request into a level config. A non-zero status reports a client error.
func (s *Server) resolveConfig(ctx context.Context, owner string, mode game.Mode, req newPuzzleReq) (level.Config, level.Difficulty, int, string) {
	switch mode {
	case game.ModeCampaign:
		n := req.Level
		if n == 0 {
			c, err := s.progress.Campaign(ctx, owner)
			if err != nil {
				log.Error().Err(err).Str("owner", owner).Msg("load campaign")
				return level.Config{}, "", http.StatusInternalServerError, "db_error"
			}
			n = c.CurrentLevel
		}
		unlocked, err := s.progress.Unlocked(ctx, owner, n)
		if err != nil {
			log.Error().Err(err).Str("owner", owner).Msg("check unlock")
			return level.Config{}, "", http.StatusInternalServerError, "db_error"
		}
		if !unlocked {
			return level.Config{}, "", http.StatusForbidden, "level_locked"
		}
		cfg, err := level.Campaign(n)
		if err != nil {
			return level.Config{}, "", http.StatusBadRequest, err.Error()
		}
		return cfg, "", 0, ""

	case game.ModeCustom:
		if req.Config == nil {
			return level.Config{}, "", http.StatusBadRequest, "missing_config"
		}
		cfg := *req.Config
		if err := cfg.Validate(); err != nil {
			return level.Config{}, "", http.StatusBadRequest, err.Error()
		}
		if cfg.GridSize > maxCustomGrid || cfg.WordCount > maxWordCount {
			return level.Config{}, "", http.StatusBadRequest, "config_too_large"
		}
		return cfg, "", 0, ""
	}

	// quickplay, twoplayer
	diff := level.Medium
	if req.Difficulty != "" {
		d, err := level.ParseDifficulty(req.Difficulty)
		if err != nil {
			return level.Config{}, "", http.StatusBadRequest, "unknown_difficulty"
		}
		diff = d
	}
	n := req.WordCount
	if n == 0 {
		n = defaultWordCount
	}
	if n < 1 || n > maxWordCount {
		return level.Config{}, "", http.StatusBadRequest, "invalid_word_count"
	}
	cfg, err := level.QuickPlay(diff, n)
	if err != nil {
		return level.Config{}, "", http.StatusBadRequest, err.Error()
	}
	return cfg, diff, 0, ""
}

// sessionFor loads the session named by id, writing a 404 when missing
// or owned by someone other than the caller.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request, id string) (*game.Session, bool) {
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Str("puzzleId", id).Msg("load session")
		}
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	owner := ownerID(w, r)
	if sess.Owner != owner {
		// a guest puzzle started in this browser follows the player into their account
		c, err := r.Cookie(anonCookieName)
		if err != nil || currentUser(r) == nil || c.Value != sess.Owner {
			writeError(w, http.StatusNotFound, "not_found")
			return nil, false
		}
		sess.Owner = owner
	}
	return sess, true
}

func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.sessionFor(w, r, chi.URLParam(r, "id")); ok {
		writeJSON(w, http.StatusOK, sess.View())
	}
}

func (s *Server) handleSavePuzzle(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.sessionFor(w, r, chi.URLParam(r, "id")); ok {
		writeJSON(w, http.StatusOK, sess.Save())
	}
}

// selectReq is the payload for POST /puzzle/select and /daily/select.
type selectReq struct {
	PuzzleID string         `json:"puzzleId"`
	Cells    []puzzle.Coord `json:"cells"`
}

// selectRes is a SelectionResult plus completion stats once the puzzle is finished.
type selectRes struct {
	game.SelectionResult
	Completion *game.Completion   `json:"completion,omitempty"`
	Placements []puzzle.Placement `json:"placements,omitempty"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.sessionFor(w, r, req.PuzzleID)
	if !ok {
		return
	}
	res, err := sess.ApplySelection(req.Cells)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.finishIfDone(r.Context(), sess, res))
}

// confirmReq is the payload for POST /puzzle/confirm.
type confirmReq struct {
	PuzzleID string `json:"puzzleId"`
	Player   int    `json:"player"`
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.sessionFor(w, r, req.PuzzleID)
	if !ok {
		return
	}
	res, err := sess.ConfirmPlayer(req.Player)
	switch {
	case errors.Is(err, game.ErrInvalidPlayer):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.finishIfDone(r.Context(), sess, res))
}

// finishIfDone attaches completion stats and records progress when res finished the puzzle.
func (s *Server) finishIfDone(ctx context.Context, sess *game.Session, res game.SelectionResult) selectRes {
	out := selectRes{SelectionResult: res}
	if !res.Finished {
		return out
	}
	c, _ := sess.Completion()
	out.Completion = &c
	out.Placements = sess.View().Placements

	switch {
	case sess.Mode == game.ModeCampaign:
		if _, err := s.progress.CompleteLevel(ctx, sess.Owner, sess.LevelNumber, c.TimeSeconds, c.Stars); err != nil {
			log.Warn().Err(err).Str("puzzleId", sess.ID).Str("owner", sess.Owner).Msg("record campaign level")
		}
	case sess.Mode == game.ModeQuickPlay && sess.Difficulty != "":
		if err := s.progress.RecordQuickPlay(ctx, sess.Owner, sess.Difficulty, c.TimeSeconds, true); err != nil {
			log.Warn().Err(err).Str("puzzleId", sess.ID).Str("owner", sess.Owner).Msg("record quick play")
		}
	}
	return out
}

// idReq carries just a session id.
type idReq struct {
	PuzzleID string `json:"puzzleId"`
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req idReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.sessionFor(w, r, req.PuzzleID)
	if !ok {
		return
	}
	word, ok := sess.Hint()
	if !ok {
		writeError(w, http.StatusConflict, "no_words_left")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"word": word, "hintsUsed": sess.View().HintsUsed})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req idReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.sessionFor(w, r, req.PuzzleID)
	if !ok {
		return
	}
	sess.Reset()
	writeJSON(w, http.StatusOK, sess.View())
}

// pauseReq is the payload for POST /puzzle/pause.
type pauseReq struct {
	PuzzleID string `json:"puzzleId"`
	Paused   bool   `json:"paused"`
}

// handlePause stops or restarts a session's clock.
func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	var req pauseReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.sessionFor(w, r, req.PuzzleID)
	if !ok {
		return
	}
	if req.Paused {
		sess.Pause()
	} else {
		sess.Resume()
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// handleResume starts a new session from a SavedState body.
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	var st game.SavedState
	if err := json.NewDecoder(r.Body).Decode(&st); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if st.Mode == game.ModeDaily {
		writeError(w, http.StatusBadRequest, "unknown_mode")
		return
	}
	sess, err := game.Restore(st)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.Owner = ownerID(w, r)
	if sess.Mode == game.ModeCampaign {
		if ok, err := s.progress.Unlocked(r.Context(), sess.Owner, sess.LevelNumber); err != nil || !ok {
			writeError(w, http.StatusForbidden, "level_locked")
			return
		}
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}
