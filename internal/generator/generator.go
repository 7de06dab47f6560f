// internal/generator/generator.go
//
// Placement engine for word-search puzzles.
// Responsibilities:
//   - Validate the level config before any grid work.
//   - Run the attempt loop: one attempt for a forced seed, otherwise up to
//     MaxAttempts attempts seeded base+attempt.
//   - Per attempt: draw words, sort longest first, place each word at a
//     uniformly chosen valid (row, col, direction), fill the rest with letters.
//   - Degrade to the words placed by the last attempt when every attempt fails.
//
// Notes:
//   - Every random draw comes from a words.Random seeded by the attempt seed,
//     in a fixed order, so a seed reproduces the same puzzle byte for byte.
//   - Placement exhaustion is not an error; only bad configs are.

package generator

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/robalobadob/wordsearch/internal/level"
	"github.com/robalobadob/wordsearch/internal/puzzle"
	"github.com/robalobadob/wordsearch/internal/words"
)

// ErrNoCatalog is returned when a Generator has no word catalog.
var ErrNoCatalog = errors.New("generator: no word catalog")

// Generator creates word-search puzzles.
// It holds no per-puzzle state and is safe for concurrent use.
type Generator struct {
	catalog *words.Catalog
	options *Options
}

// Stats describes one generation run.
type Stats struct {
	Attempts    int           // attempts started
	Seed        int64         // seed of the returned puzzle
	Requested   int           // words requested by the config
	Placed      int           // target words in the returned puzzle
	BonusPlaced int           // bonus words injected deliberately
	BonusFound  int           // bonus words found by scanning
	Degraded    bool          // true when the word list was truncated
	Duration    time.Duration // wall time
}

// Empty reports whether words were requested but none could be placed. The
// puzzle is still a full grid, but it cannot be played to completion.
func (s Stats) Empty() bool { return s.Requested > 0 && s.Placed == 0 }

// New creates a generator. A nil catalog means words.Default(); nil options mean DefaultOptions().
func New(catalog *words.Catalog, options *Options) *Generator {
	if catalog == nil {
		catalog = words.Default()
	}
	if options == nil {
		options = DefaultOptions()
	}
	return &Generator{catalog: catalog, options: options}
}

// Catalog returns the generator's word catalog.
func (g *Generator) Catalog() *words.Catalog { return g.catalog }

// Generate builds a puzzle for cfg. A non-nil seed forces exactly one attempt
// with that seed; otherwise attempts are seeded base+attempt.
func (g *Generator) Generate(cfg level.Config, seed *int64) (*puzzle.Puzzle, Stats, error) {
	start := time.Now()
	st := Stats{Requested: cfg.WordCount}
	if g.catalog == nil {
		return nil, st, ErrNoCatalog
	}
	if err := cfg.Validate(); err != nil {
		return nil, st, err
	}

	attempts := max(1, g.options.MaxAttempts)
	var base int64
	if seed != nil {
		attempts, base = 1, *seed
	} else {
		base = g.options.baseSeed()
	}

	lg := g.options.logger()
	dirs := cfg.Directions()

	var (
		last       *puzzle.Builder
		lastRandom *words.Random
		lastPlaced []string
	)
	for attempt := 0; attempt < attempts; attempt++ {
		s := base + int64(attempt)
		st.Attempts++
		rnd := words.NewRandom(s)
		b := puzzle.NewBuilder(cfg.GridSize, s)

		list := g.catalog.RandomWords(cfg.WordCount, cfg.MinWordLength, cfg.MaxWordLength, s)
		slices.SortStableFunc(list, func(x, y string) int { return len(y) - len(x) })
		b.SetTargets(list)

		placed, failed := placeAll(b, list, dirs, rnd)
		if failed == "" {
			if !g.options.DisableBonus {
				st.BonusPlaced = g.placeBonusWords(b, cfg, dirs, rnd)
			}
			fillEmpty(b, rnd)
			if !g.options.DisableBonus {
				st.BonusFound = g.scan(b, cfg)
			}
			p, err := b.Build()
			if err != nil {
				return nil, st, err
			}
			st.Seed, st.Placed, st.Duration = s, len(list), time.Since(start)
			lg.Debug().Int64("seed", s).Int("attempts", st.Attempts).Int("words", len(list)).
				Int("bonus", st.BonusPlaced+st.BonusFound).Msg("puzzle generated")
			return p, st, nil
		}

		lg.Debug().Int("attempt", attempt).Int64("seed", s).Str("word", failed).
			Int("placed", len(placed)).Msg("no valid placement; abandoning attempt")
		last, lastRandom, lastPlaced = b, rnd, placed
	}

	if last == nil {
		return nil, st, fmt.Errorf("generator: no attempt produced a grid")
	}
	last.SetTargets(lastPlaced)
	fillEmpty(last, lastRandom)
	p, err := last.Build()
	if err != nil {
		return nil, st, err
	}
	st.Seed, st.Placed, st.Degraded, st.Duration = p.Seed(), len(lastPlaced), true, time.Since(start)
	lg.Warn().Int("requested", cfg.WordCount).Int("placed", len(lastPlaced)).Int("attempts", st.Attempts).
		Msg("failed to place all words; returning a reduced word set")
	return p, st, nil
}

// QuickPlay generates a puzzle for a difficulty tier and word count.
func (g *Generator) QuickPlay(d level.Difficulty, wordCount int, seed *int64) (*puzzle.Puzzle, Stats, error) {
	cfg, err := level.QuickPlay(d, wordCount)
	if err != nil {
		return nil, Stats{}, err
	}
	return g.Generate(cfg, seed)
}

// Campaign generates the puzzle for campaign level n.
func (g *Generator) Campaign(n int, seed *int64) (*puzzle.Puzzle, Stats, error) {
	cfg, err := level.Campaign(n)
	if err != nil {
		return nil, Stats{}, err
	}
	return g.Generate(cfg, seed)
}

// placeAll places words in order. It returns the words placed and, on
// failure, the first word that had no valid placement.
func placeAll(b *puzzle.Builder, list []string, dirs []puzzle.Direction, rnd *words.Random) (placed []string, failed string) {
	placed = make([]string, 0, len(list))
	for _, w := range list {
		if !placeWord(b, w, dirs, rnd, b.Place) {
			return placed, w
		}
		placed = append(placed, w)
	}
	return placed, ""
}

type candidate struct {
	row, col int
	dir      puzzle.Direction
}

// placeWord picks one valid placement uniformly with rnd and commits it via place.
// It reports false, drawing nothing, when no placement is valid.
func placeWord(b *puzzle.Builder, w string, dirs []puzzle.Direction, rnd *words.Random,
	place func(string, int, int, puzzle.Direction) puzzle.Placement) bool {
	cands := validPlacements(b, w, dirs)
	if len(cands) == 0 {
		return false
	}
	c := cands[rnd.Intn(len(cands))]
	place(w, c.row, c.col, c.dir)
	return true
}

// validPlacements enumerates every (row, col, direction) where w fits,
// in row-major order and direction order.
func validPlacements(b *puzzle.Builder, w string, dirs []puzzle.Direction) []candidate {
	var out []candidate
	n := b.Size()
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			for _, d := range dirs {
				if fits(b, w, r, c, d) {
					out = append(out, candidate{r, c, d})
				}
			}
		}
	}
	return out
}

// fits reports whether every letter of w lands in bounds on a cell that is
// unset or already holds that same letter.
func fits(b *puzzle.Builder, w string, row, col int, d puzzle.Direction) bool {
	n := b.Size()
	if len(w) == 0 {
		return false
	}
	endR, endC := row+d.DRow*(len(w)-1), col+d.DCol*(len(w)-1)
	if endR < 0 || endR >= n || endC < 0 || endC >= n {
		return false
	}
	for i := 0; i < len(w); i++ {
		cur := b.Letter(row+d.DRow*i, col+d.DCol*i)
		if cur != 0 && cur != w[i] {
			return false
		}
	}
	return true
}

// fillEmpty writes a uniformly drawn A–Z letter into every unset cell.
func fillEmpty(b *puzzle.Builder, rnd *words.Random) {
	b.Fill(func() byte { return byte('A' + rnd.Intn(26)) })
}
