// internal/puzzle/types.go
//
// Core type definitions for word-search puzzles.
// Defines:
//   - Coord:     a (row, col) grid cell.
//   - Direction: a unit step used to walk a straight line through the grid.
//   - Placement: a word anchored at a start cell along a direction, with its
//                full coordinate path.

package puzzle

import "fmt"

// Coord identifies a grid cell.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Direction is one of the eight unit vectors (dRow, dCol) ∈ {-1,0,1}², excluding (0,0).
type Direction struct {
	DRow int `json:"dRow"`
	DCol int `json:"dCol"`
}

var (
	Right     = Direction{0, 1}
	Left      = Direction{0, -1}
	Down      = Direction{1, 0}
	Up        = Direction{-1, 0}
	DownRight = Direction{1, 1}
	DownLeft  = Direction{1, -1}
	UpRight   = Direction{-1, 1}
	UpLeft    = Direction{-1, -1}
)

// AllDirections lists the eight straight-line directions in scan order.
var AllDirections = []Direction{Right, Left, Down, Up, DownRight, DownLeft, UpRight, UpLeft}

// Valid reports whether d is one of the eight unit vectors.
func (d Direction) Valid() bool {
	if d.DRow < -1 || d.DRow > 1 || d.DCol < -1 || d.DCol > 1 {
		return false
	}
	return d.DRow != 0 || d.DCol != 0
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction { return Direction{-d.DRow, -d.DCol} }

// Diagonal reports whether d moves along both axes.
func (d Direction) Diagonal() bool { return d.DRow != 0 && d.DCol != 0 }

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Left:
		return "left"
	case Down:
		return "down"
	case Up:
		return "up"
	case DownRight:
		return "down-right"
	case DownLeft:
		return "down-left"
	case UpRight:
		return "up-right"
	case UpLeft:
		return "up-left"
	}
	return fmt.Sprintf("(%d,%d)", d.DRow, d.DCol)
}

// Step returns the cell i steps from start along d.
func (d Direction) Step(start Coord, i int) Coord {
	return Coord{Row: start.Row + d.DRow*i, Col: start.Col + d.DCol*i}
}

// Placement is a word laid out from (StartRow, StartCol) along Direction.
// Coords is always derived from the other four fields; never set it by hand.
type Placement struct {
	Word      string    `json:"word"`
	StartRow  int       `json:"startRow"`
	StartCol  int       `json:"startCol"`
	Direction Direction `json:"direction"`
	Coords    []Coord   `json:"coordinates"`
}

// NewPlacement computes the coordinate path for word.
func NewPlacement(word string, startRow, startCol int, d Direction) Placement {
	coords := make([]Coord, len(word))
	start := Coord{Row: startRow, Col: startCol}
	for i := range coords {
		coords[i] = d.Step(start, i)
	}
	return Placement{Word: word, StartRow: startRow, StartCol: startCol, Direction: d, Coords: coords}
}

// End returns the last cell of the placement.
func (p Placement) End() Coord {
	return p.Direction.Step(Coord{p.StartRow, p.StartCol}, len(p.Word)-1)
}

// InBounds reports whether every cell lies within an size×size grid.
func (p Placement) InBounds(size int) bool {
	for _, c := range p.Coords {
		if c.Row < 0 || c.Row >= size || c.Col < 0 || c.Col >= size {
			return false
		}
	}
	return true
}

// Matches reports whether sel is exactly this placement's path, in forward or
// reverse order. Players may drag a word from either end.
func (p Placement) Matches(sel []Coord) bool {
	n := len(p.Coords)
	if len(sel) != n {
		return false
	}
	forward := true
	for i := 0; i < n; i++ {
		if sel[i] != p.Coords[i] {
			forward = false
			break
		}
	}
	if forward {
		return true
	}
	for i := 0; i < n; i++ {
		if sel[i] != p.Coords[n-1-i] {
			return false
		}
	}
	return true
}

// MatchSelection returns the first placement whose path matches sel and for
// which skip (if non-nil) returns false. Found words are typically skipped.
func MatchSelection(sel []Coord, placements []Placement, skip func(word string) bool) (Placement, bool) {
	for _, p := range placements {
		if skip != nil && skip(p.Word) {
			continue
		}
		if p.Matches(sel) {
			return p, true
		}
	}
	return Placement{}, false
}
