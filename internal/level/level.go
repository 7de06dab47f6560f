// internal/level/level.go
//
// Level configuration for a single puzzle request.
// Defines:
//   - Config:      grid size, word count, word length window and direction policy.
//   - Directions:  pure derivation of the allowed direction set from a Config.
//   - Difficulty:  quick-play tiers (easy/medium/hard) and their policies.
//   - Campaign:    unlimited progressive campaign levels.
//
// Config is a value type; copy it freely.

package level

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/robalobadob/wordsearch/internal/puzzle"
)

var (
	// ErrInvalidConfig wraps every Config validation failure.
	ErrInvalidConfig = errors.New("invalid level config")
	// ErrUnknownDifficulty is returned by ParseDifficulty.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// Config describes one puzzle.
type Config struct {
	LevelNumber     int  `json:"levelNumber"`
	GridSize        int  `json:"gridSize"`
	WordCount       int  `json:"wordCount"`
	MinWordLength   int  `json:"minWordLength"`
	MaxWordLength   int  `json:"maxWordLength"`
	AllowHorizontal bool `json:"allowHorizontal"`
	AllowVertical   bool `json:"allowVertical"`
	AllowDiagonal   bool `json:"allowDiagonal"`
	AllowBackward   bool `json:"allowBackward"`
}

// New returns a Config with the usual defaults: horizontal and vertical
// forward placement, words of 3–10 letters.
func New(levelNumber, gridSize, wordCount int) Config {
	return Config{
		LevelNumber:     levelNumber,
		GridSize:        gridSize,
		WordCount:       wordCount,
		MinWordLength:   3,
		MaxWordLength:   10,
		AllowHorizontal: true,
		AllowVertical:   true,
	}
}

// Validate checks the invariants generation depends on.
func (c Config) Validate() error {
	switch {
	case c.GridSize < 1:
		return fmt.Errorf("%w: grid size %d must be at least 1", ErrInvalidConfig, c.GridSize)
	case c.WordCount < 0:
		return fmt.Errorf("%w: word count %d is negative", ErrInvalidConfig, c.WordCount)
	case c.MinWordLength < 1:
		return fmt.Errorf("%w: min word length %d must be at least 1", ErrInvalidConfig, c.MinWordLength)
	case c.MinWordLength > c.MaxWordLength:
		return fmt.Errorf("%w: min word length %d exceeds max %d", ErrInvalidConfig, c.MinWordLength, c.MaxWordLength)
	case !c.AllowHorizontal && !c.AllowVertical && !c.AllowDiagonal:
		return fmt.Errorf("%w: no placement direction allowed", ErrInvalidConfig)
	}
	return nil
}

// Directions derives the allowed direction set.
//
// Reverse horizontal/vertical need AllowBackward. Diagonals need
// AllowDiagonal; the two leftward diagonals additionally need AllowBackward.
func (c Config) Directions() []puzzle.Direction {
	var out []puzzle.Direction
	if c.AllowHorizontal {
		out = append(out, puzzle.Right)
		if c.AllowBackward {
			out = append(out, puzzle.Left)
		}
	}
	if c.AllowVertical {
		out = append(out, puzzle.Down)
		if c.AllowBackward {
			out = append(out, puzzle.Up)
		}
	}
	if c.AllowDiagonal {
		out = append(out, puzzle.DownRight, puzzle.UpRight)
		if c.AllowBackward {
			out = append(out, puzzle.DownLeft, puzzle.UpLeft)
		}
	}
	return out
}

// Difficulty is a quick-play tier.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the tiers in increasing order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty accepts any casing of easy/medium/hard.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// Quick-play grid sizing: average word length 6 with ~60% packing overhead,
// clamped to [6, 30].
const (
	quickPlayAvgWordLength = 6
	quickPlayPacking       = 1.6
	MinQuickPlayGrid       = 6
	MaxQuickPlayGrid       = 30
)

// QuickPlayGridSize returns ceil(sqrt(wordCount*6*1.6)) clamped to [6, 30].
func QuickPlayGridSize(wordCount int) int {
	size := int(math.Ceil(math.Sqrt(float64(wordCount) * quickPlayAvgWordLength * quickPlayPacking)))
	return min(MaxQuickPlayGrid, max(MinQuickPlayGrid, size))
}

// QuickPlay builds the Config for a difficulty tier and word count.
//
//	easy:   horizontal + vertical, 3–7 letters
//	medium: + backward, 4–10 letters
//	hard:   + diagonal, 5–12 letters
func QuickPlay(d Difficulty, wordCount int) (Config, error) {
	c := New(0, QuickPlayGridSize(wordCount), wordCount)
	switch d {
	case Easy:
		c.MinWordLength, c.MaxWordLength = 3, 7
	case Medium:
		c.AllowBackward = true
		c.MinWordLength, c.MaxWordLength = 4, 10
	case Hard:
		c.AllowBackward, c.AllowDiagonal = true, true
		c.MinWordLength, c.MaxWordLength = 5, 12
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, string(d))
	}
	return c, nil
}

// Campaign returns the Config for campaign level n (n ≥ 1).
//
//	1–2   easy:   6–7 grid, forward only
//	3–4   medium: 8–9 grid, backward
//	5–10  hard:   10–12 grid, backward, diagonals from level 7
//	11+   expert: up to 20 grid and 30 words, everything allowed
func Campaign(n int) (Config, error) {
	if n < 1 {
		return Config{}, fmt.Errorf("%w: campaign level %d", ErrInvalidConfig, n)
	}
	c := New(n, 0, 0)
	switch {
	case n <= 2:
		c.GridSize = 6 + (n - 1)
		c.WordCount = 5 + n
		c.MinWordLength, c.MaxWordLength = 3, 6+n
	case n <= 4:
		c.GridSize = 8 + (n - 3)
		c.WordCount = 7 + (n - 2)
		c.MinWordLength, c.MaxWordLength = 4, 8+(n-3)
		c.AllowBackward = true
	case n <= 10:
		p := n - 5
		c.GridSize = 10 + int(float64(p)*0.4)
		c.WordCount = 8 + p
		c.MinWordLength, c.MaxWordLength = 4, 9+int(float64(p)*0.3)
		c.AllowDiagonal = n >= 7
		c.AllowBackward = true
	default:
		p := n - 11
		c.GridSize = min(20, 12+int(float64(p)*0.5))
		c.WordCount = min(30, 14+p)
		c.MinWordLength, c.MaxWordLength = 4, min(15, 11+int(float64(p)*0.2))
		c.AllowDiagonal, c.AllowBackward = true, true
	}
	return c, nil
}
