// internal/game/types.go
//
// Core type definitions for a word-search play session.
// Defines:
//   - Mode:            how the session was started (quick play, campaign, ...).
//   - Outcome:         result of applying one selection.
//   - SelectionResult: what ApplySelection / ConfirmPlayer report to callers.
//   - Completion:      end-of-puzzle stats, including two-player scores.
//   - SavedState:      resumable form of a session.

package game

import (
	"errors"

	"github.com/robalobadob/wordsearch/internal/puzzle"
)

var (
	ErrSessionFinished = errors.New("session finished")
	ErrSessionPaused   = errors.New("session paused")
	ErrNoPending       = errors.New("no pending selection")
	ErrInvalidPlayer   = errors.New("player must be 1 or 2")
	ErrNotTwoPlayer    = errors.New("session is not two-player")
	ErrInvalidState    = errors.New("invalid saved state")
)

// Mode names the way a session was started.
type Mode string

const (
	ModeQuickPlay Mode = "quickplay"
	ModeCampaign  Mode = "campaign"
	ModeTwoPlayer Mode = "twoplayer"
	ModeDaily     Mode = "daily"
	ModeCustom    Mode = "custom"
)

// ParseMode accepts the modes above; "" means quick play.
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case "":
		return ModeQuickPlay, true
	case ModeQuickPlay, ModeCampaign, ModeTwoPlayer, ModeDaily, ModeCustom:
		return m, true
	}
	return "", false
}

// Outcome is the result of one selection.
//   - "none":    nothing matched (or the selection was too short).
//   - "found":   a target word was found.
//   - "bonus":   a bonus word was found.
//   - "pending": a target matched in two-player mode; waiting for ConfirmPlayer.
type Outcome string

const (
	OutcomeNone    Outcome = "none"
	OutcomeFound   Outcome = "found"
	OutcomeBonus   Outcome = "bonus"
	OutcomePending Outcome = "pending"
)

// SelectionResult reports what a selection did to the session.
type SelectionResult struct {
	Outcome   Outcome           `json:"outcome"`
	Word      string            `json:"word,omitempty"`
	Placement *puzzle.Placement `json:"placement,omitempty"`
	Player    int               `json:"player,omitempty"`
	Progress  int               `json:"progress"`
	Finished  bool              `json:"finished"`
}

// Completion summarizes a finished puzzle.
type Completion struct {
	TimeSeconds  int      `json:"time"`
	HintsUsed    int      `json:"hintsUsed"`
	WordsFound   int      `json:"wordsFound"`
	TotalWords   int      `json:"totalWords"`
	BonusFound   int      `json:"bonusFound"`
	Stars        int      `json:"stars"`
	Player1Score int      `json:"player1Score,omitempty"`
	Player2Score int      `json:"player2Score,omitempty"`
	Player1Words []string `json:"player1Words,omitempty"`
	Player2Words []string `json:"player2Words,omitempty"`
}

// SavedState is everything needed to resume a session later.
type SavedState struct {
	Mode           Mode            `json:"gameMode"`
	LevelNumber    int             `json:"levelNumber,omitempty"`
	Difficulty     string          `json:"difficulty,omitempty"`
	Puzzle         puzzle.Snapshot `json:"puzzleData"`
	FoundWords     []string        `json:"foundWords"`
	BonusWords     []string        `json:"bonusWords,omitempty"`
	ElapsedSeconds int             `json:"elapsedTime"`
	HintsUsed      int             `json:"hintsUsed"`
	TwoPlayer      bool            `json:"twoPlayer,omitempty"`
	Player1Words   []string        `json:"player1Words,omitempty"`
	Player2Words   []string        `json:"player2Words,omitempty"`
}

// Stars rates a completion time: under a minute earns 3, under two earns 2, else 1.
func Stars(seconds int) int {
	switch {
	case seconds < 60:
		return 3
	case seconds < 120:
		return 2
	default:
		return 1
	}
}
