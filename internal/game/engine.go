// internal/game/engine.go
//
// Gameplay engine for a single word-search session.
// Responsibilities:
//   - Track found target words, found bonus words, hints and elapsed time.
//   - Resolve a drag selection against the puzzle (targets first, then bonus words).
//   - Two-player mode: hold a matched target as pending until a player claims it.
//   - Completion stats and star rating; reset; save/resume.
//
// Notes:
//   - A Session is shared between requests, so every exported method locks it.
//   - View never exposes placements of unfound words while the session is running.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/robalobadob/wordsearch/internal/puzzle"
)

// now is swapped in tests.
var now = time.Now

// Pending is a matched target waiting for a player in two-player mode.
type Pending struct {
	Word  string         `json:"word"`
	Cells []puzzle.Coord `json:"cells"`
}

// Session holds the state of one play-through of a puzzle.
type Session struct {
	ID          string
	Owner       string // user id or anonymous id
	Mode        Mode
	LevelNumber int
	Difficulty  string
	Puzzle      *puzzle.Puzzle

	Found      []string // target words in the order found
	BonusFound []string
	HintsUsed  int

	StartedAt  time.Time
	Elapsed    time.Duration // time accumulated before StartedAt
	FinishedAt time.Time
	Paused     bool

	TwoPlayer   bool
	PlayerWords [2][]string
	Pending     *Pending

	mu sync.Mutex
}

// New starts a session on p. ModeTwoPlayer turns on pending selections.
func New(p *puzzle.Puzzle, mode Mode) *Session {
	return &Session{
		ID:        randomID(),
		Mode:      mode,
		Puzzle:    p,
		Found:     []string{},
		TwoPlayer: mode == ModeTwoPlayer,
		StartedAt: now(),
	}
}

// ApplySelection resolves a selected cell path.
//
// Rules:
//   - Fewer than two cells is ignored (OutcomeNone, no error).
//   - Unfound targets are checked first, forward or reversed; then unfound bonus words.
//   - In two-player mode a target match becomes Pending instead of found.
func (s *Session) ApplySelection(cells []puzzle.Coord) (SelectionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished() {
		return s.result(OutcomeNone, "", nil, 0), ErrSessionFinished
	}
	if s.Paused {
		return s.result(OutcomeNone, "", nil, 0), ErrSessionPaused
	}
	if len(cells) < 2 {
		return s.result(OutcomeNone, "", nil, 0), nil
	}

	pl, bonus, ok := s.Puzzle.Match(cells, s.isFound)
	switch {
	case !ok:
		return s.result(OutcomeNone, "", nil, 0), nil
	case bonus:
		s.BonusFound = append(s.BonusFound, pl.Word)
		return s.result(OutcomeBonus, pl.Word, &pl, 0), nil
	case s.TwoPlayer:
		s.Pending = &Pending{Word: pl.Word, Cells: slices.Clone(cells)}
		return s.result(OutcomePending, pl.Word, nil, 0), nil
	}
	s.markFound(pl.Word, 0)
	return s.result(OutcomeFound, pl.Word, &pl, 0), nil
}

// ConfirmPlayer credits the pending word to player 1 or 2.
func (s *Session) ConfirmPlayer(player int) (SelectionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case !s.TwoPlayer:
		return SelectionResult{}, ErrNotTwoPlayer
	case player != 1 && player != 2:
		return SelectionResult{}, ErrInvalidPlayer
	case s.Pending == nil:
		return SelectionResult{}, ErrNoPending
	case s.Paused:
		return SelectionResult{}, ErrSessionPaused
	}
	word := s.Pending.Word
	s.Pending = nil
	if s.isFound(word) {
		return s.result(OutcomeNone, word, nil, player), nil
	}
	s.markFound(word, player)
	pl, _ := s.Puzzle.PlacementFor(word)
	return s.result(OutcomeFound, word, &pl, player), nil
}

// Hint returns the first target word not yet found and counts the hint.
// It reports false, counting nothing, when every target is found.
func (s *Session) Hint() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.Puzzle.TargetWords() {
		if !slices.Contains(s.Found, w) {
			s.HintsUsed++
			return w, true
		}
	}
	return "", false
}

// Reset clears progress on the same puzzle and restarts the clock.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Found = []string{}
	s.BonusFound = nil
	s.PlayerWords = [2][]string{}
	s.Pending = nil
	s.HintsUsed = 0
	s.Elapsed = 0
	s.StartedAt = now()
	s.FinishedAt = time.Time{}
	s.Paused = false
}

// Pause stops the clock, folding the running stretch into Elapsed.
// Selections are refused until Resume. No-op when paused or finished.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Paused || s.finished() {
		return
	}
	s.Elapsed = s.elapsed()
	s.Paused = true
}

// Resume restarts the clock after Pause.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Paused {
		return
	}
	s.Paused = false
	s.StartedAt = now()
}

// Progress returns the percentage of targets found, rounded down.
func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress()
}

// Finished reports whether every target has been found.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished()
}

// ElapsedSeconds returns whole seconds played; the clock stops on completion.
func (s *Session) ElapsedSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsedSeconds()
}

// IsFound reports whether word has been found (target or bonus).
func (s *Session) IsFound(word string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isFound(word)
}

// Completion returns end-of-puzzle stats once the session is finished.
func (s *Session) Completion() (Completion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished() {
		return Completion{}, false
	}
	secs := s.elapsedSeconds()
	c := Completion{
		TimeSeconds: secs,
		HintsUsed:   s.HintsUsed,
		WordsFound:  len(s.Found),
		TotalWords:  len(s.Puzzle.TargetWords()),
		BonusFound:  len(s.BonusFound),
		Stars:       Stars(secs),
	}
	if s.TwoPlayer {
		c.Player1Words = slices.Clone(s.PlayerWords[0])
		c.Player2Words = slices.Clone(s.PlayerWords[1])
		c.Player1Score, c.Player2Score = len(c.Player1Words), len(c.Player2Words)
	}
	return c, true
}

// Save captures the session as a SavedState.
func (s *Session) Save() SavedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SavedState{
		Mode:           s.Mode,
		LevelNumber:    s.LevelNumber,
		Difficulty:     s.Difficulty,
		Puzzle:         s.Puzzle.Snapshot(),
		FoundWords:     slices.Clone(s.Found),
		BonusWords:     slices.Clone(s.BonusFound),
		ElapsedSeconds: s.elapsedSeconds(),
		HintsUsed:      s.HintsUsed,
		TwoPlayer:      s.TwoPlayer,
		Player1Words:   slices.Clone(s.PlayerWords[0]),
		Player2Words:   slices.Clone(s.PlayerWords[1]),
	}
}

// Restore rebuilds a session from a SavedState under a fresh ID.
// Found words must belong to the restored puzzle.
func Restore(st SavedState) (*Session, error) {
	p, err := puzzle.FromSnapshot(st.Puzzle)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	mode := st.Mode
	if mode == "" {
		mode = ModeQuickPlay
	}
	s := New(p, mode)
	s.LevelNumber, s.Difficulty = st.LevelNumber, st.Difficulty
	s.TwoPlayer = st.TwoPlayer || mode == ModeTwoPlayer
	s.HintsUsed = max(0, st.HintsUsed)
	s.Elapsed = time.Duration(max(0, st.ElapsedSeconds)) * time.Second

	targets := p.TargetWords()
	bonus := map[string]bool{}
	for _, pl := range p.BonusPlacements() {
		bonus[pl.Word] = true
	}
	for _, w := range st.FoundWords {
		if !slices.Contains(targets, w) || slices.Contains(s.Found, w) {
			return nil, fmt.Errorf("%w: found word %q", ErrInvalidState, w)
		}
		s.Found = append(s.Found, w)
	}
	for _, w := range st.BonusWords {
		if !bonus[w] || slices.Contains(s.BonusFound, w) {
			return nil, fmt.Errorf("%w: bonus word %q", ErrInvalidState, w)
		}
		s.BonusFound = append(s.BonusFound, w)
	}
	s.PlayerWords = [2][]string{slices.Clone(st.Player1Words), slices.Clone(st.Player2Words)}
	if n := len(targets); n > 0 && len(s.Found) == n {
		s.FinishedAt = s.StartedAt
	}
	return s, nil
}

// --- internals; callers hold s.mu ---

func (s *Session) isFound(word string) bool {
	return slices.Contains(s.Found, word) || slices.Contains(s.BonusFound, word)
}

func (s *Session) finished() bool { return !s.FinishedAt.IsZero() }

func (s *Session) progress() int {
	total := len(s.Puzzle.TargetWords())
	if total == 0 {
		return 0
	}
	return len(s.Found) * 100 / total
}

func (s *Session) elapsed() time.Duration {
	if s.finished() || s.Paused {
		return s.Elapsed
	}
	return s.Elapsed + now().Sub(s.StartedAt)
}

func (s *Session) elapsedSeconds() int { return int(s.elapsed() / time.Second) }

// markFound records word; player is 1 or 2 in two-player mode, 0 otherwise.
// Finding the last target stops the clock.
func (s *Session) markFound(word string, player int) {
	s.Found = append(s.Found, word)
	if player > 0 {
		s.PlayerWords[player-1] = append(s.PlayerWords[player-1], word)
	}
	if len(s.Found) == len(s.Puzzle.TargetWords()) {
		s.Elapsed = s.elapsed()
		s.FinishedAt = now()
	}
}

func (s *Session) result(o Outcome, word string, pl *puzzle.Placement, player int) SelectionResult {
	return SelectionResult{
		Outcome:   o,
		Word:      word,
		Placement: pl,
		Player:    player,
		Progress:  s.progress(),
		Finished:  s.finished(),
	}
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
