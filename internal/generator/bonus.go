// internal/generator/bonus.go
//
// Bonus words: words hidden in the grid that are not on the target list.
//
// Two sources:
//   - injection: up to min(MaxPlacedBonus, gridSize/8) extra catalog words of
//     4–8 letters, placed before filler letters with the same overlap rule as
//     target words. A word that does not fit is skipped.
//   - scanning: after the grid is full, every ray from every cell in all eight
//     directions is walked and catalog words that happen to appear are
//     registered without touching the grid. A ray stops as soon as the letters
//     read are not a prefix of any catalog word in the length window.

package generator

import (
	"github.com/robalobadob/wordsearch/internal/level"
	"github.com/robalobadob/wordsearch/internal/puzzle"
	"github.com/robalobadob/wordsearch/internal/words"
)

// placeBonusWords injects bonus words and returns how many were placed.
func (g *Generator) placeBonusWords(b *puzzle.Builder, cfg level.Config, dirs []puzzle.Direction, rnd *words.Random) int {
	o := g.options
	tries := min(o.MaxPlacedBonus, cfg.GridSize/DefaultBonusGridDivisor)
	if tries <= 0 {
		return 0
	}
	pool := g.catalog.Eligible(o.BonusMinLength, o.BonusMaxLength)
	if len(pool) == 0 {
		return 0
	}

	used := make(map[string]struct{})
	for _, w := range b.Targets() {
		used[w] = struct{}{}
	}
	for _, w := range b.Words() {
		used[w] = struct{}{}
	}

	placed := 0
	for i := 0; i < tries; i++ {
		word := ""
		for draw := 0; draw < o.BonusDraws; draw++ {
			w := pool[rnd.Intn(len(pool))]
			if _, ok := used[w]; !ok {
				word = w
				break
			}
		}
		if word == "" {
			continue
		}
		if placeWord(b, word, dirs, rnd, b.PlaceBonus) {
			used[word] = struct{}{}
			placed++
		}
	}
	return placed
}

// scanBounds returns the word length window used for incidental words.
func scanBounds(cfg level.Config) (minLen, maxLen int) {
	minLen = max(4, cfg.MinWordLength)
	maxLen = max(minLen, cfg.MaxWordLength)
	return minLen, maxLen
}

// bonusCap returns min(MaxBonusWords, gridSize²/10).
func (g *Generator) bonusCap(size int) int {
	return min(g.options.MaxBonusWords, size*size/DefaultBonusAreaDivisor)
}

func (g *Generator) scan(b *puzzle.Builder, cfg level.Config) int {
	limit := g.bonusCap(cfg.GridSize)
	if limit <= 0 {
		return 0
	}
	minLen, maxLen := scanBounds(cfg)
	return ScanBonusWords(b, g.catalog.BuildLookup(minLen, maxLen), limit)
}

// ScanGrid is the part of *puzzle.Builder the scanner reads and registers into.
type ScanGrid interface {
	Size() int
	Letter(row, col int) byte
	Targets() []string
	Words() []string
	RegisterBonus(word string, row, col int, d puzzle.Direction) puzzle.Placement
}

// ScanBonusWords registers up to limit words from lookup that appear along any
// straight line of the grid and are not yet targets or bonus words. It
// returns the number registered. The grid is not modified.
func ScanBonusWords(b ScanGrid, lookup words.Lookup, limit int) int {
	if limit <= 0 {
		return 0
	}
	existing := make(map[string]struct{})
	for _, w := range b.Targets() {
		existing[w] = struct{}{}
	}
	for _, w := range b.Words() {
		existing[w] = struct{}{}
	}

	n := b.Size()
	buf := make([]byte, 0, lookup.MaxLen)
	added := 0
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			for _, d := range puzzle.AllDirections {
				buf = buf[:0]
				for i := 0; i < lookup.MaxLen; i++ {
					r, c := row+d.DRow*i, col+d.DCol*i
					ch := b.Letter(r, c)
					if ch == 0 {
						break
					}
					buf = append(buf, ch)
					s := string(buf)
					if !lookup.IsPrefix(s) {
						break
					}
					if len(s) < lookup.MinLen || !lookup.IsWord(s) {
						continue
					}
					if _, ok := existing[s]; ok {
						continue
					}
					b.RegisterBonus(s, row, col, d)
					existing[s] = struct{}{}
					added++
					if added >= limit {
						return added
					}
				}
			}
		}
	}
	return added
}
