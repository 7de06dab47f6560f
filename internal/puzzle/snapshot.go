package puzzle

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidSnapshot is returned when persisted puzzle state is malformed.
var ErrInvalidSnapshot = errors.New("puzzle: invalid snapshot")

// Snapshot is the plain structural form used for persistence.
// Coordinates are written for readers of the saved state but ignored on load.
type Snapshot struct {
	GridSize        int         `json:"gridSize"`
	Grid            [][]string  `json:"grid"`
	WordPlacements  []Placement `json:"wordPlacements"`
	BonusPlacements []Placement `json:"bonusWordPlacements,omitempty"`
	TargetWords     []string    `json:"targetWords"`
	Seed            int64       `json:"seed"`
}

// Snapshot converts p to its structural form.
func (p *Puzzle) Snapshot() Snapshot {
	return Snapshot{
		GridSize:        p.size,
		Grid:            p.Grid(),
		WordPlacements:  p.Placements(),
		BonusPlacements: p.BonusPlacements(),
		TargetWords:     p.TargetWords(),
		Seed:            p.seed,
	}
}

// FromSnapshot rebuilds a puzzle. Placement coordinates are recomputed from
// (word, startRow, startCol, direction); any persisted coordinate list is discarded.
func FromSnapshot(s Snapshot) (*Puzzle, error) {
	if s.GridSize < 1 {
		return nil, fmt.Errorf("%w: grid size %d", ErrInvalidSnapshot, s.GridSize)
	}
	if len(s.Grid) != s.GridSize {
		return nil, fmt.Errorf("%w: %d rows for size %d", ErrInvalidSnapshot, len(s.Grid), s.GridSize)
	}
	grid := make([][]byte, s.GridSize)
	for r, row := range s.Grid {
		if len(row) != s.GridSize {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrInvalidSnapshot, r, len(row))
		}
		grid[r] = make([]byte, s.GridSize)
		for c, cell := range row {
			if len(cell) != 1 || cell[0] < 'A' || cell[0] > 'Z' {
				return nil, fmt.Errorf("%w: cell (%d,%d) = %q", ErrInvalidSnapshot, r, c, cell)
			}
			grid[r][c] = cell[0]
		}
	}

	p := &Puzzle{
		size:    s.GridSize,
		grid:    grid,
		targets: append([]string{}, s.TargetWords...),
		seed:    s.Seed,
	}
	var err error
	if p.placements, err = rebuild(p, s.WordPlacements); err != nil {
		return nil, err
	}
	if p.bonus, err = rebuild(p, s.BonusPlacements); err != nil {
		return nil, err
	}
	return p, nil
}

func rebuild(p *Puzzle, in []Placement) ([]Placement, error) {
	out := make([]Placement, 0, len(in))
	for _, raw := range in {
		if raw.Word == "" || !raw.Direction.Valid() {
			return nil, fmt.Errorf("%w: placement %q", ErrInvalidSnapshot, raw.Word)
		}
		pl := NewPlacement(raw.Word, raw.StartRow, raw.StartCol, raw.Direction)
		if !pl.InBounds(p.size) {
			return nil, fmt.Errorf("%w: placement %q out of bounds", ErrInvalidSnapshot, raw.Word)
		}
		for i, c := range pl.Coords {
			if p.grid[c.Row][c.Col] != pl.Word[i] {
				return nil, fmt.Errorf("%w: placement %q disagrees with grid at (%d,%d)",
					ErrInvalidSnapshot, raw.Word, c.Row, c.Col)
			}
		}
		out = append(out, pl)
	}
	return out, nil
}

// MarshalJSON encodes the puzzle as its Snapshot.
func (p *Puzzle) MarshalJSON() ([]byte, error) { return json.Marshal(p.Snapshot()) }

// UnmarshalJSON decodes a Snapshot and rebuilds the puzzle.
func (p *Puzzle) UnmarshalJSON(data []byte) error {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	q, err := FromSnapshot(s)
	if err != nil {
		return err
	}
	*p = *q
	return nil
}
