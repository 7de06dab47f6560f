package game

import (
	"slices"

	"github.com/robalobadob/wordsearch/internal/puzzle"
)

// View is the client-facing state of a session.
// Placements are limited to found words until the puzzle is finished.
type View struct {
	ID             string             `json:"id"`
	Mode           Mode               `json:"mode"`
	LevelNumber    int                `json:"levelNumber,omitempty"`
	Difficulty     string             `json:"difficulty,omitempty"`
	GridSize       int                `json:"gridSize"`
	Grid           [][]string         `json:"grid"`
	Words          []string           `json:"words"`
	Found          []string           `json:"found"`
	BonusFound     []string           `json:"bonusFound"`
	Placements     []puzzle.Placement `json:"placements"`
	HintsUsed      int                `json:"hintsUsed"`
	ElapsedSeconds int                `json:"elapsed"`
	Progress       int                `json:"progress"`
	Finished       bool               `json:"finished"`
	Paused         bool               `json:"paused,omitempty"`
	TwoPlayer      bool               `json:"twoPlayer,omitempty"`
	Pending        bool               `json:"pending,omitempty"`
	Player1Words   []string           `json:"player1Words,omitempty"`
	Player2Words   []string           `json:"player2Words,omitempty"`
}

// View renders the session for a client.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.Puzzle.Snapshot()
	v := View{
		ID:             s.ID,
		Mode:           s.Mode,
		LevelNumber:    s.LevelNumber,
		Difficulty:     s.Difficulty,
		GridSize:       snap.GridSize,
		Grid:           snap.Grid,
		Words:          snap.TargetWords,
		Found:          slices.Clone(s.Found),
		BonusFound:     append([]string{}, s.BonusFound...),
		Placements:     []puzzle.Placement{},
		HintsUsed:      s.HintsUsed,
		ElapsedSeconds: s.elapsedSeconds(),
		Progress:       s.progress(),
		Finished:       s.finished(),
		Paused:         s.Paused,
		TwoPlayer:      s.TwoPlayer,
		Pending:        s.Pending != nil,
	}
	if s.TwoPlayer {
		v.Player1Words = slices.Clone(s.PlayerWords[0])
		v.Player2Words = slices.Clone(s.PlayerWords[1])
	}
	for _, pl := range append(snap.WordPlacements, snap.BonusPlacements...) {
		if v.Finished || s.isFound(pl.Word) {
			v.Placements = append(v.Placements, pl)
		}
	}
	return v
}
