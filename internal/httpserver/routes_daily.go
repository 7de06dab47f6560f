// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Puzzle" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's puzzle (creates or reuses session)
//   - POST /daily/select      → submit a selection on today's puzzle
//   - GET  /daily/leaderboard → fastest results for today (or a given date)
//
// Everyone gets the same puzzle for a date: the generator seed is derived
// from date + DAILY_SALT. Each player can finish once per day (enforced by DB
// + in-memory session). Sessions are held in memory and the result is
// persisted when the last word is found.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/daily"
	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/level"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv        *Server
	salt       string
	difficulty level.Difficulty
	wordCount  int
	sessions   map[string]*game.Session // active sessions keyed by userID|date
	mu         sync.Mutex               // guards sessions
}

// mountDaily registers all /daily routes.
// DAILY_DIFFICULTY and DAILY_WORD_COUNT pick the puzzle shape (medium, 10).
func (s *Server) mountDaily(r chi.Router) {
	diff, err := level.ParseDifficulty(getEnv("DAILY_DIFFICULTY", string(level.Medium)))
	if err != nil {
		log.Warn().Err(err).Msg("DAILY_DIFFICULTY; using medium")
		diff = level.Medium
	}
	count := envInt("DAILY_WORD_COUNT", defaultWordCount)
	if count < 1 || count > maxWordCount {
		log.Warn().Int("count", count).Msg("DAILY_WORD_COUNT out of range; using default")
		count = defaultWordCount
	}
	dd := &dailyServer{
		srv:        s,
		salt:       getEnv("DAILY_SALT", "local_dev_salt"),
		difficulty: diff,
		wordCount:  count,
		sessions:   make(map[string]*game.Session),
	}
	s.dailies = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/select", dd.handleSelect)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// today returns today's date key and the day's generator seed.
func (d *dailyServer) today() (date string, seed int64) {
	date = daily.DateKey(clock())
	return date, daily.SeedForKey(date, d.salt)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new. Puzzle is omitted once played.
type dailyNewRes struct {
	Date   string     `json:"date"`
	Played bool       `json:"played"`
	Puzzle *game.View `json:"puzzle,omitempty"`
}

// handleNew creates or reuses today's session.
//   - If the player already has a DB row for today → Played=true.
//   - Otherwise create/reuse an in-memory session.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := ownerID(w, r)
	date, seed := d.today()

	played, err := d.srv.daily.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		log.Error().Err(err).Str("user", uid).Msg("daily already played")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pruneLocked(date)
	if sess, ok := d.sessions[key]; ok {
		v := sess.View()
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Puzzle: &v})
		return
	}

	p, st, err := d.srv.gen.QuickPlay(d.difficulty, d.wordCount, &seed)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("generate daily puzzle")
		writeError(w, http.StatusInternalServerError, "generate_failed")
		return
	}
	if st.Empty() {
		log.Error().Str("date", date).Int64("seed", seed).Msg("daily puzzle placed no words")
		writeError(w, http.StatusUnprocessableEntity, "generation_failed")
		return
	}
	sess := game.New(p, game.ModeDaily)
	sess.Owner = uid
	sess.Difficulty = string(d.difficulty)
	d.sessions[key] = sess

	v := sess.View()
	writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Puzzle: &v})
}

// pruneLocked drops sessions for any date other than today. Caller holds d.mu.
func (d *dailyServer) pruneLocked(today string) {
	suffix := "|" + today
	for k := range d.sessions {
		if !strings.HasSuffix(k, suffix) {
			delete(d.sessions, k)
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/select

// handleSelect applies a selection to today's session and persists the result
// when it completes the puzzle.
func (d *dailyServer) handleSelect(w http.ResponseWriter, r *http.Request) {
	uid := ownerID(w, r)

	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	date, seed := d.today()

	key := uid + "|" + date
	d.mu.Lock()
	sess, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok || sess.ID != req.PuzzleID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}

	res, err := sess.ApplySelection(req.Cells)
	if err != nil {
		writeError(w, http.StatusConflict, "locked")
		return
	}
	out := selectRes{SelectionResult: res}
	if res.Finished {
		c, _ := sess.Completion()
		out.Completion = &c
		out.Placements = sess.View().Placements
		if err := d.srv.daily.InsertResult(r.Context(), daily.Result{
			UserID:     uid,
			Date:       date,
			Seed:       seed,
			WordsFound: c.WordsFound,
			HintsUsed:  c.HintsUsed,
			ElapsedMs:  c.TimeSeconds * 1000,
		}); err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _ = d.today()
	}
	rows, err := d.srv.daily.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
