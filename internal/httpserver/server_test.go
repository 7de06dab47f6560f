package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/generator"
	"github.com/robalobadob/wordsearch/internal/puzzle"
	"github.com/robalobadob/wordsearch/internal/schema"
	"github.com/robalobadob/wordsearch/internal/store"
)

type harness struct {
	srv    *Server
	ts     *httptest.Server
	client *http.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := schema.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	opts := generator.DefaultOptions()
	nop := zerolog.Nop()
	opts.Logger = &nop
	opts.SeedSource = func() int64 { return 2000 }
	srv := New(store.NewMemoryStore(), db, generator.New(nil, opts))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return &harness{srv: srv, ts: ts, client: newClient(t)}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

// call sends body as JSON (nil for none) and decodes the response into out when non-nil.
func (h *harness) call(t *testing.T, c *http.Client, method, path string, body, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, h.ts.URL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

// solve selects every target of the session in order and returns the last response.
func (h *harness) solve(t *testing.T, c *http.Client, path, id string, placements []puzzle.Placement) selectRes {
	t.Helper()
	var last selectRes
	for _, pl := range placements {
		last = selectRes{}
		if code := h.call(t, c, http.MethodPost, path, selectReq{PuzzleID: id, Cells: pl.Coords}, &last); code != http.StatusOK {
			t.Fatalf("select %s: status %d", pl.Word, code)
		}
		if last.Outcome != game.OutcomeFound || last.Word != pl.Word {
			t.Fatalf("select %s: %+v", pl.Word, last.SelectionResult)
		}
	}
	return last
}

func (h *harness) session(t *testing.T, id string) *game.Session {
	t.Helper()
	sess, err := h.srv.store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("store.Get(%s): %v", id, err)
	}
	return sess
}

// pinClock fixes the server clock at midnight UTC on date.
func pinClock(t *testing.T, date string) {
	t.Helper()
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatal(err)
	}
	clock = func() time.Time { return day }
	t.Cleanup(func() { clock = time.Now })
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	var body map[string]bool
	if code := h.call(t, h.client, http.MethodGet, "/health", nil, &body); code != http.StatusOK || !body["ok"] {
		t.Fatalf("health = %d %v", code, body)
	}
	var nf map[string]string
	if code := h.call(t, h.client, http.MethodGet, "/nope", nil, &nf); code != http.StatusNotFound || nf["error"] != "not_found" {
		t.Fatalf("404 = %d %v", code, nf)
	}
}

func TestNewPuzzleHidesSolution(t *testing.T) {
	h := newHarness(t)
	seed := int64(6)
	var v game.View
	code := h.call(t, h.client, http.MethodPost, "/puzzle/new",
		newPuzzleReq{Difficulty: "hard", WordCount: 8, Seed: &seed}, &v)
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if v.ID == "" || v.GridSize == 0 || len(v.Grid) != v.GridSize || len(v.Words) == 0 {
		t.Fatalf("view = %+v", v)
	}
	if len(v.Placements) != 0 || v.Finished {
		t.Fatalf("unfinished view leaks placements: %+v", v.Placements)
	}

	var again game.View
	h.call(t, h.client, http.MethodPost, "/puzzle/new", newPuzzleReq{Difficulty: "hard", WordCount: 8, Seed: &seed}, &again)
	if again.ID == v.ID {
		t.Fatal("sessions should get distinct ids")
	}
	for r := range v.Grid {
		for c := range v.Grid[r] {
			if v.Grid[r][c] != again.Grid[r][c] {
				t.Fatal("same seed should produce the same grid")
			}
		}
	}

	var got game.View
	if code := h.call(t, h.client, http.MethodGet, "/puzzle/"+v.ID, nil, &got); code != http.StatusOK || got.ID != v.ID {
		t.Fatalf("get = %d %+v", code, got)
	}
	if code := h.call(t, h.client, http.MethodGet, "/puzzle/missing", nil, nil); code != http.StatusNotFound {
		t.Fatalf("missing = %d", code)
	}
}

func TestNewPuzzleFailsWhenNothingPlaced(t *testing.T) {
	h := newHarness(t)
	seed := int64(42)
	var body map[string]string
	code := h.call(t, h.client, http.MethodPost, "/puzzle/new",
		newPuzzleReq{Difficulty: "hard", WordCount: 8, Seed: &seed}, &body)
	if code != http.StatusUnprocessableEntity || body["error"] != "generation_failed" {
		t.Fatalf("new = %d %v", code, body)
	}
}

func TestNewPuzzleRejectsBadRequests(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		name string
		req  any
		want int
	}{
		{"unknown mode", map[string]any{"mode": "arcade"}, http.StatusBadRequest},
		{"daily mode", map[string]any{"mode": "daily"}, http.StatusBadRequest},
		{"unknown difficulty", map[string]any{"difficulty": "nightmare"}, http.StatusBadRequest},
		{"too many words", map[string]any{"wordCount": 500}, http.StatusBadRequest},
		{"custom without config", map[string]any{"mode": "custom"}, http.StatusBadRequest},
		{"custom no directions", map[string]any{"mode": "custom", "config": map[string]any{
			"gridSize": 8, "wordCount": 3, "minWordLength": 3, "maxWordLength": 5}}, http.StatusBadRequest},
		{"custom too large", map[string]any{"mode": "custom", "config": map[string]any{
			"gridSize": 200, "wordCount": 3, "minWordLength": 3, "maxWordLength": 5, "allowHorizontal": true}}, http.StatusBadRequest},
		{"locked campaign level", map[string]any{"mode": "campaign", "level": 3}, http.StatusForbidden},
		{"custom ok", map[string]any{"mode": "custom", "config": map[string]any{
			"gridSize": 8, "wordCount": 3, "minWordLength": 3, "maxWordLength": 5, "allowVertical": true}}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := h.call(t, h.client, http.MethodPost, "/puzzle/new", tt.req, nil); code != tt.want {
				t.Fatalf("status %d, want %d", code, tt.want)
			}
		})
	}
}

func TestQuickPlayFlow(t *testing.T) {
	h := newHarness(t)
	seed := int64(7)
	var v game.View
	h.call(t, h.client, http.MethodPost, "/puzzle/new", newPuzzleReq{Difficulty: "easy", WordCount: 5, Seed: &seed}, &v)
	sess := h.session(t, v.ID)

	// a miss changes nothing
	var miss selectRes
	h.call(t, h.client, http.MethodPost, "/puzzle/select", selectReq{PuzzleID: v.ID, Cells: []puzzle.Coord{{Row: 0, Col: 0}}}, &miss)
	if miss.Outcome != game.OutcomeNone {
		t.Fatalf("single cell = %+v", miss)
	}

	var hint map[string]any
	if code := h.call(t, h.client, http.MethodPost, "/puzzle/hint", idReq{PuzzleID: v.ID}, &hint); code != http.StatusOK || hint["word"] != v.Words[0] {
		t.Fatalf("hint = %d %v", code, hint)
	}

	last := h.solve(t, h.client, "/puzzle/select", v.ID, sess.Puzzle.Placements())
	if !last.Finished || last.Completion == nil || last.Completion.HintsUsed != 1 || len(last.Placements) < len(v.Words) {
		t.Fatalf("final = %+v", last)
	}

	var done game.View
	h.call(t, h.client, http.MethodGet, "/puzzle/"+v.ID, nil, &done)
	if !done.Finished || len(done.Placements) < len(v.Words) {
		t.Fatalf("finished view = %+v", done)
	}
	if code := h.call(t, h.client, http.MethodPost, "/puzzle/select", selectReq{PuzzleID: v.ID, Cells: sess.Puzzle.Placements()[0].Coords}, nil); code != http.StatusConflict {
		t.Fatalf("select after finish = %d", code)
	}

	var prog struct {
		QuickPlay []struct {
			Difficulty string `json:"difficulty"`
			Games      int    `json:"games"`
			Wins       int    `json:"wins"`
		} `json:"quickPlay"`
	}
	h.call(t, h.client, http.MethodGet, "/progress/me", nil, &prog)
	if len(prog.QuickPlay) != 1 || prog.QuickPlay[0].Difficulty != "easy" || prog.QuickPlay[0].Wins != 1 {
		t.Fatalf("progress = %+v", prog)
	}

	var reset game.View
	h.call(t, h.client, http.MethodPost, "/puzzle/reset", idReq{PuzzleID: v.ID}, &reset)
	if reset.Finished || len(reset.Found) != 0 || len(reset.Placements) != 0 {
		t.Fatalf("reset view = %+v", reset)
	}
}

func TestCampaignUnlocks(t *testing.T) {
	h := newHarness(t)
	var v game.View
	if code := h.call(t, h.client, http.MethodPost, "/puzzle/new", map[string]any{"mode": "campaign"}, &v); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if v.LevelNumber != 1 || v.GridSize != 6 {
		t.Fatalf("view = %+v", v)
	}
	if code := h.call(t, h.client, http.MethodPost, "/puzzle/new", map[string]any{"mode": "campaign", "level": 2}, nil); code != http.StatusForbidden {
		t.Fatalf("level 2 before level 1 = %d", code)
	}

	h.solve(t, h.client, "/puzzle/select", v.ID, h.session(t, v.ID).Puzzle.Placements())

	var next game.View
	if code := h.call(t, h.client, http.MethodPost, "/puzzle/new", map[string]any{"mode": "campaign"}, &next); code != http.StatusOK || next.LevelNumber != 2 {
		t.Fatalf("next = %d %+v", code, next)
	}

	// progress belongs to this browser's anonymous id, not to a new visitor
	other := newClient(t)
	if code := h.call(t, other, http.MethodPost, "/puzzle/new", map[string]any{"mode": "campaign", "level": 2}, nil); code != http.StatusForbidden {
		t.Fatalf("other visitor level 2 = %d", code)
	}
}

func TestTwoPlayerConfirm(t *testing.T) {
	h := newHarness(t)
	seed := int64(1)
	var v game.View
	h.call(t, h.client, http.MethodPost, "/puzzle/new", map[string]any{"mode": "twoplayer", "difficulty": "easy", "wordCount": 3, "seed": seed}, &v)
	if !v.TwoPlayer {
		t.Fatalf("view = %+v", v)
	}
	pls := h.session(t, v.ID).Puzzle.Placements()

	if code := h.call(t, h.client, http.MethodPost, "/puzzle/confirm", confirmReq{PuzzleID: v.ID, Player: 1}, nil); code != http.StatusConflict {
		t.Fatalf("confirm without pending = %d", code)
	}
	var last selectRes
	for i, pl := range pls {
		var res selectRes
		h.call(t, h.client, http.MethodPost, "/puzzle/select", selectReq{PuzzleID: v.ID, Cells: pl.Coords}, &res)
		if res.Outcome != game.OutcomePending {
			t.Fatalf("select = %+v", res)
		}
		if code := h.call(t, h.client, http.MethodPost, "/puzzle/confirm", confirmReq{PuzzleID: v.ID, Player: 7}, nil); code != http.StatusBadRequest {
			t.Fatalf("bad player = %d", code)
		}
		h.call(t, h.client, http.MethodPost, "/puzzle/confirm", confirmReq{PuzzleID: v.ID, Player: i%2 + 1}, &last)
	}
	if !last.Finished || last.Completion == nil || last.Completion.Player1Score+last.Completion.Player2Score != len(pls) {
		t.Fatalf("final = %+v", last)
	}
}

func TestPauseStopsClock(t *testing.T) {
	h := newHarness(t)
	seed := int64(11)
	var v game.View
	h.call(t, h.client, http.MethodPost, "/puzzle/new", newPuzzleReq{Difficulty: "medium", WordCount: 4, Seed: &seed}, &v)
	first := h.session(t, v.ID).Puzzle.Placements()[0]

	var paused game.View
	if code := h.call(t, h.client, http.MethodPost, "/puzzle/pause", pauseReq{PuzzleID: v.ID, Paused: true}, &paused); code != http.StatusOK || !paused.Paused {
		t.Fatalf("pause = %d %+v", code, paused)
	}
	if code := h.call(t, h.client, http.MethodPost, "/puzzle/select", selectReq{PuzzleID: v.ID, Cells: first.Coords}, nil); code != http.StatusConflict {
		t.Fatalf("select while paused = %d", code)
	}

	var resumed game.View
	h.call(t, h.client, http.MethodPost, "/puzzle/pause", pauseReq{PuzzleID: v.ID, Paused: false}, &resumed)
	if resumed.Paused {
		t.Fatalf("resume = %+v", resumed)
	}
	var res selectRes
	if code := h.call(t, h.client, http.MethodPost, "/puzzle/select", selectReq{PuzzleID: v.ID, Cells: first.Coords}, &res); code != http.StatusOK || res.Outcome != game.OutcomeFound {
		t.Fatalf("select after resume = %d %+v", code, res)
	}
}

func TestSessionsAreOwnerScoped(t *testing.T) {
	h := newHarness(t)
	seed := int64(11)
	var v game.View
	h.call(t, h.client, http.MethodPost, "/puzzle/new", newPuzzleReq{Difficulty: "medium", WordCount: 4, Seed: &seed}, &v)
	first := h.session(t, v.ID).Puzzle.Placements()[0]

	other := newClient(t)
	tests := []struct {
		name, method, path string
		body               any
	}{
		{"get", http.MethodGet, "/puzzle/" + v.ID, nil},
		{"save", http.MethodGet, "/puzzle/" + v.ID + "/save", nil},
		{"select", http.MethodPost, "/puzzle/select", selectReq{PuzzleID: v.ID, Cells: first.Coords}},
		{"hint", http.MethodPost, "/puzzle/hint", idReq{PuzzleID: v.ID}},
		{"reset", http.MethodPost, "/puzzle/reset", idReq{PuzzleID: v.ID}},
		{"pause", http.MethodPost, "/puzzle/pause", pauseReq{PuzzleID: v.ID, Paused: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := h.call(t, other, tt.method, tt.path, tt.body, nil); code != http.StatusNotFound {
				t.Fatalf("status %d, want 404", code)
			}
		})
	}

	sess := h.session(t, v.ID)
	if len(sess.Found) != 0 || sess.HintsUsed != 0 || sess.Paused {
		t.Fatalf("session touched by another visitor: found=%v hints=%d paused=%v", sess.Found, sess.HintsUsed, sess.Paused)
	}

	// the guest who started it keeps it after signing up
	guest := sess.Owner
	creds := credentials{Username: "keeper", Password: "letmein123"}
	if code := h.call(t, h.client, http.MethodPost, "/auth/signup", creds, nil); code != http.StatusOK {
		t.Fatalf("signup = %d", code)
	}
	if code := h.call(t, h.client, http.MethodGet, "/puzzle/"+v.ID, nil, nil); code != http.StatusOK {
		t.Fatalf("get after signup = %d", code)
	}
	if sess.Owner == guest {
		t.Fatal("session still owned by the anonymous id")
	}
}

func TestSaveAndResume(t *testing.T) {
	h := newHarness(t)
	seed := int64(11)
	var v game.View
	h.call(t, h.client, http.MethodPost, "/puzzle/new", newPuzzleReq{Difficulty: "medium", WordCount: 4, Seed: &seed}, &v)
	first := h.session(t, v.ID).Puzzle.Placements()[0]
	h.call(t, h.client, http.MethodPost, "/puzzle/select", selectReq{PuzzleID: v.ID, Cells: first.Coords}, nil)

	var st game.SavedState
	if code := h.call(t, h.client, http.MethodGet, "/puzzle/"+v.ID+"/save", nil, &st); code != http.StatusOK {
		t.Fatalf("save = %d", code)
	}
	var resumed game.View
	if code := h.call(t, h.client, http.MethodPost, "/puzzle/resume", st, &resumed); code != http.StatusOK {
		t.Fatalf("resume = %d", code)
	}
	if resumed.ID == v.ID || len(resumed.Found) != 1 || resumed.Found[0] != first.Word {
		t.Fatalf("resumed = %+v", resumed)
	}

	st.FoundWords = []string{"NOTAWORD"}
	if code := h.call(t, h.client, http.MethodPost, "/puzzle/resume", st, nil); code != http.StatusBadRequest {
		t.Fatalf("bad resume = %d", code)
	}
}

func TestDailyFlow(t *testing.T) {
	pinClock(t, "2026-03-14")
	h := newHarness(t)
	var first dailyNewRes
	if code := h.call(t, h.client, http.MethodPost, "/daily/new", nil, &first); code != http.StatusOK || first.Puzzle == nil || first.Played {
		t.Fatalf("daily/new = %d %+v", code, first)
	}
	var again dailyNewRes
	h.call(t, h.client, http.MethodPost, "/daily/new", nil, &again)
	if again.Puzzle == nil || again.Puzzle.ID != first.Puzzle.ID {
		t.Fatal("daily session should be reused")
	}

	// another player gets the same grid
	other := newClient(t)
	var theirs dailyNewRes
	h.call(t, other, http.MethodPost, "/daily/new", nil, &theirs)
	if theirs.Puzzle == nil || theirs.Puzzle.ID == first.Puzzle.ID {
		t.Fatalf("other player = %+v", theirs)
	}
	for r := range first.Puzzle.Grid {
		for c := range first.Puzzle.Grid[r] {
			if first.Puzzle.Grid[r][c] != theirs.Puzzle.Grid[r][c] {
				t.Fatal("daily grids differ between players")
			}
		}
	}

	// daily sessions are not reachable through /puzzle
	if code := h.call(t, h.client, http.MethodGet, "/puzzle/"+first.Puzzle.ID, nil, nil); code != http.StatusNotFound {
		t.Fatalf("daily via /puzzle = %d", code)
	}
	if code := h.call(t, h.client, http.MethodPost, "/daily/select", selectReq{PuzzleID: "wrong"}, nil); code != http.StatusConflict {
		t.Fatalf("wrong id = %d", code)
	}

	sess := dailySessionFor(t, h, first.Puzzle.ID)
	last := h.solve(t, h.client, "/daily/select", first.Puzzle.ID, sess.Puzzle.Placements())
	if !last.Finished || last.Completion == nil {
		t.Fatalf("final = %+v", last)
	}

	var played dailyNewRes
	h.call(t, h.client, http.MethodPost, "/daily/new", nil, &played)
	if !played.Played || played.Puzzle != nil {
		t.Fatalf("after finishing = %+v", played)
	}

	var lb lbRes
	if code := h.call(t, h.client, http.MethodGet, "/daily/leaderboard", nil, &lb); code != http.StatusOK || len(lb.Top) != 1 {
		t.Fatalf("leaderboard = %d %+v", code, lb)
	}
}

func TestDailyDropsStaleSessions(t *testing.T) {
	pinClock(t, "2026-03-13")
	h := newHarness(t)
	if code := h.call(t, h.client, http.MethodPost, "/daily/new", nil, nil); code != http.StatusOK {
		t.Fatalf("day one = %d", code)
	}
	pinClock(t, "2026-03-14")
	if code := h.call(t, newClient(t), http.MethodPost, "/daily/new", nil, nil); code != http.StatusOK {
		t.Fatalf("day two = %d", code)
	}

	d := h.srv.dailies
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(d.sessions))
	}
	for k := range d.sessions {
		if !strings.HasSuffix(k, "|2026-03-14") {
			t.Fatalf("stale key %q kept", k)
		}
	}
}

// dailySessionFor finds a live daily session by id.
func dailySessionFor(t *testing.T, h *harness, id string) *game.Session {
	t.Helper()
	d := h.srv.dailies
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.sessions {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("no daily session %s", id)
	return nil
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t)

	// play a campaign level as a guest first
	var v game.View
	h.call(t, h.client, http.MethodPost, "/puzzle/new", map[string]any{"mode": "campaign"}, &v)
	h.solve(t, h.client, "/puzzle/select", v.ID, h.session(t, v.ID).Puzzle.Placements())

	if code := h.call(t, h.client, http.MethodGet, "/auth/me", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("me before login = %d", code)
	}
	creds := credentials{Username: "finder", Password: "letmein123"}
	var u map[string]any
	if code := h.call(t, h.client, http.MethodPost, "/auth/signup", creds, &u); code != http.StatusOK || u["username"] != "finder" {
		t.Fatalf("signup = %d %v", code, u)
	}
	if code := h.call(t, newClient(t), http.MethodPost, "/auth/signup", creds, nil); code != http.StatusConflict {
		t.Fatalf("duplicate signup = %d", code)
	}
	if code := h.call(t, h.client, http.MethodPost, "/auth/signup", credentials{Username: "x", Password: "y"}, nil); code != http.StatusBadRequest {
		t.Fatalf("invalid signup = %d", code)
	}

	var me map[string]any
	if code := h.call(t, h.client, http.MethodGet, "/auth/me", nil, &me); code != http.StatusOK || me["username"] != "finder" {
		t.Fatalf("me = %d %v", code, me)
	}

	// guest campaign progress moved onto the account
	var prog struct {
		Campaign struct {
			CurrentLevel int `json:"currentLevel"`
		} `json:"campaign"`
	}
	h.call(t, h.client, http.MethodGet, "/progress/me", nil, &prog)
	if prog.Campaign.CurrentLevel != 2 {
		t.Fatalf("progress after signup = %+v", prog)
	}

	h.call(t, h.client, http.MethodPost, "/auth/logout", nil, nil)
	if code := h.call(t, h.client, http.MethodGet, "/auth/me", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("me after logout = %d", code)
	}

	fresh := newClient(t)
	if code := h.call(t, fresh, http.MethodPost, "/auth/login", credentials{Username: "finder", Password: "wrong-password"}, nil); code != http.StatusUnauthorized {
		t.Fatalf("bad login = %d", code)
	}
	if code := h.call(t, fresh, http.MethodPost, "/auth/login", creds, nil); code != http.StatusOK {
		t.Fatalf("login = %d", code)
	}
	h.call(t, fresh, http.MethodGet, "/progress/me", nil, &prog)
	if prog.Campaign.CurrentLevel != 2 {
		t.Fatalf("progress on new device = %+v", prog)
	}
}
