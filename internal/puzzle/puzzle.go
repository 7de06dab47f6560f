// internal/puzzle/puzzle.go
//
// Puzzle is the finished, read-only aggregate handed to gameplay:
// grid, target placements, bonus placements, target word order and seed.
//
// Builder is the mutable form used while a puzzle is being generated. Cells
// start unset (0) and are written only through Builder. Build hands the grid
// over to an immutable Puzzle and leaves the Builder working on a private copy,
// so a retained Builder can never reach the built puzzle.

package puzzle

import (
	"errors"
	"strings"
)

// ErrBuilderUsed is returned by Build when it is called twice.
var ErrBuilderUsed = errors.New("puzzle: builder already built")

// Puzzle is immutable after construction. Accessors return copies.
type Puzzle struct {
	size       int
	grid       [][]byte
	placements []Placement
	bonus      []Placement
	targets    []string
	seed       int64
}

// Size returns N for an N×N grid.
func (p *Puzzle) Size() int { return p.size }

// Seed returns the seed that produced this puzzle.
func (p *Puzzle) Seed() int64 { return p.seed }

// CharAt returns the letter at (row, col), or "" when out of bounds.
// Scanning code relies on the empty string instead of a panic.
func (p *Puzzle) CharAt(row, col int) string {
	if row < 0 || row >= p.size || col < 0 || col >= p.size {
		return ""
	}
	if b := p.grid[row][col]; b != 0 {
		return string(b)
	}
	return ""
}

// Grid returns a copy of the grid, one single-letter string per cell.
func (p *Puzzle) Grid() [][]string {
	grid := make([][]string, p.size)
	for r := range grid {
		grid[r] = make([]string, p.size)
		for c := range grid[r] {
			grid[r][c] = p.CharAt(r, c)
		}
	}
	return grid
}

// Rows returns the grid as one string per row.
func (p *Puzzle) Rows() []string {
	out := make([]string, p.size)
	for r := range p.grid {
		out[r] = string(p.grid[r])
	}
	return out
}

// TargetWords returns the target words in generation order (longest first).
func (p *Puzzle) TargetWords() []string { return append([]string(nil), p.targets...) }

// Placements returns the target word placements.
func (p *Puzzle) Placements() []Placement { return clonePlacements(p.placements) }

// BonusPlacements returns the bonus word placements.
func (p *Puzzle) BonusPlacements() []Placement { return clonePlacements(p.bonus) }

// PlacementFor returns the target placement for word.
func (p *Puzzle) PlacementFor(word string) (Placement, bool) {
	word = strings.ToUpper(word)
	for _, pl := range p.placements {
		if pl.Word == word {
			return clonePlacement(pl), true
		}
	}
	return Placement{}, false
}

// Match checks sel against target placements first, then bonus placements.
// bonus reports which list matched.
func (p *Puzzle) Match(sel []Coord, skip func(word string) bool) (pl Placement, bonus, ok bool) {
	if pl, ok := MatchSelection(sel, p.placements, skip); ok {
		return clonePlacement(pl), false, true
	}
	if pl, ok := MatchSelection(sel, p.bonus, skip); ok {
		return clonePlacement(pl), true, true
	}
	return Placement{}, false, false
}

// String renders the grid with letters separated by spaces.
func (p *Puzzle) String() string {
	var sb strings.Builder
	for r := range p.grid {
		for c, b := range p.grid[r] {
			if c > 0 {
				sb.WriteByte(' ')
			}
			if b == 0 {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(b)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func clonePlacement(pl Placement) Placement {
	pl.Coords = append([]Coord(nil), pl.Coords...)
	return pl
}

func clonePlacements(in []Placement) []Placement {
	out := make([]Placement, len(in))
	for i, pl := range in {
		out[i] = clonePlacement(pl)
	}
	return out
}

// Builder accumulates a puzzle during generation.
type Builder struct {
	p    *Puzzle
	done bool
}

// NewBuilder starts an empty size×size grid.
func NewBuilder(size int, seed int64) *Builder {
	grid := make([][]byte, size)
	for r := range grid {
		grid[r] = make([]byte, size)
	}
	return &Builder{p: &Puzzle{size: size, grid: grid, seed: seed, targets: []string{}}}
}

// Size returns N for the N×N grid being built.
func (b *Builder) Size() int { return b.p.size }

// Seed returns the seed recorded for the puzzle.
func (b *Builder) Seed() int64 { return b.p.seed }

// Letter returns the byte at (row, col); 0 means unset or out of bounds.
func (b *Builder) Letter(row, col int) byte {
	if row < 0 || row >= b.p.size || col < 0 || col >= b.p.size {
		return 0
	}
	return b.p.grid[row][col]
}

// CharAt mirrors Puzzle.CharAt for the grid under construction.
func (b *Builder) CharAt(row, col int) string { return b.p.CharAt(row, col) }

// Place writes word into the grid and records it as a target placement.
// The caller has already checked that the placement fits.
func (b *Builder) Place(word string, row, col int, d Direction) Placement {
	pl := b.write(word, row, col, d)
	b.p.placements = append(b.p.placements, pl)
	return pl
}

// PlaceBonus writes word into the grid and records it as a bonus placement.
func (b *Builder) PlaceBonus(word string, row, col int, d Direction) Placement {
	pl := b.write(word, row, col, d)
	b.p.bonus = append(b.p.bonus, pl)
	return pl
}

// RegisterBonus records a bonus placement whose letters are already in the grid.
func (b *Builder) RegisterBonus(word string, row, col int, d Direction) Placement {
	pl := NewPlacement(word, row, col, d)
	b.p.bonus = append(b.p.bonus, pl)
	return pl
}

func (b *Builder) write(word string, row, col int, d Direction) Placement {
	pl := NewPlacement(word, row, col, d)
	for i, c := range pl.Coords {
		b.p.grid[c.Row][c.Col] = word[i]
	}
	return pl
}

// SetTargets records the target word list.
func (b *Builder) SetTargets(words []string) { b.p.targets = append([]string(nil), words...) }

// Targets returns the current target word list.
func (b *Builder) Targets() []string { return append([]string(nil), b.p.targets...) }

// Words returns every word already placed or registered (targets and bonus).
func (b *Builder) Words() []string {
	out := make([]string, 0, len(b.p.placements)+len(b.p.bonus))
	for _, pl := range b.p.placements {
		out = append(out, pl.Word)
	}
	for _, pl := range b.p.bonus {
		out = append(out, pl.Word)
	}
	return out
}

// BonusCount returns the number of bonus placements so far.
func (b *Builder) BonusCount() int { return len(b.p.bonus) }

// Fill writes letter() into every unset cell in row-major order.
func (b *Builder) Fill(letter func() byte) {
	for r := range b.p.grid {
		for c := range b.p.grid[r] {
			if b.p.grid[r][c] == 0 {
				b.p.grid[r][c] = letter()
			}
		}
	}
}

// Build finalizes the puzzle.
func (b *Builder) Build() (*Puzzle, error) {
	if b.done {
		return nil, ErrBuilderUsed
	}
	b.done = true
	p := b.p
	b.p = p.clone()
	return p, nil
}

func (p *Puzzle) clone() *Puzzle {
	grid := make([][]byte, len(p.grid))
	for r := range p.grid {
		grid[r] = append([]byte(nil), p.grid[r]...)
	}
	return &Puzzle{
		size:       p.size,
		grid:       grid,
		placements: clonePlacements(p.placements),
		bonus:      clonePlacements(p.bonus),
		targets:    append([]string(nil), p.targets...),
		seed:       p.seed,
	}
}
