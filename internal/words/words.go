// internal/words/words.go
//
// Word catalog for puzzle generation.
//
// Responsibilities:
//   - Load the categorized word tables (short/medium/long) from the embedded
//     assets, or from a user file when WORDS_FILE is set.
//   - Normalize every entry to uppercase A–Z and drop duplicates, keeping the
//     first occurrence so the catalog order is stable.
//   - Deterministic word selection (RandomWords) driven by a seed.
//
// Initialization behavior (Init):
//   1. If WORDS_FILE is set, load one word per line from that file and bucket
//      words by length (≤5 short, ≤8 medium, longer = long).
//   2. Otherwise use the embedded tables from the assets package.
//
// A Catalog is immutable after construction and safe for concurrent readers.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/wordsearch/assets"
)

// ErrEmptyCatalog is returned when a catalog would contain no words.
var ErrEmptyCatalog = errors.New("words: catalog is empty")

// Catalog is a categorized, de-duplicated word list.
type Catalog struct {
	short  []string
	medium []string
	long   []string
	tables []string           // short + medium + long as listed, repeats kept
	all    []string           // distinct words of tables, first occurrence wins
	set    mapset.Set[string] // membership for all
}

var (
	initOnce   sync.Once
	defaultCat *Catalog
	initialErr error
)

// Init loads the default catalog exactly once.
func Init() error {
	initOnce.Do(func() {
		if path := os.Getenv("WORDS_FILE"); path != "" {
			defaultCat, initialErr = Load(path)
			return
		}
		cats, err := assets.Categories()
		if err != nil {
			initialErr = fmt.Errorf("words: read embedded tables: %w", err)
			return
		}
		defaultCat = New(cats[0], cats[1], cats[2])
		if len(defaultCat.all) == 0 {
			initialErr = ErrEmptyCatalog
		}
	})
	return initialErr
}

// Default returns the process-wide catalog, loading it on first use.
// It panics if the catalog cannot be loaded; call Init at startup to get the error instead.
func Default() *Catalog {
	if err := Init(); err != nil {
		panic(err)
	}
	return defaultCat
}

// New builds a catalog from three category tables.
// Entries are upper-cased; anything that is not purely A–Z is dropped.
func New(short, medium, long []string) *Catalog {
	c := &Catalog{set: mapset.New[string]()}
	c.short = c.add(short)
	c.medium = c.add(medium)
	c.long = c.add(long)
	return c
}

// add normalizes list and appends unseen words to c.all.
// It returns the category as normalized (duplicates inside other categories kept
// so each category still reads like its table).
func (c *Catalog) add(list []string) []string {
	out := make([]string, 0, len(list))
	for _, raw := range list {
		w := normalize(raw)
		if w == "" {
			continue
		}
		out = append(out, w)
		c.tables = append(c.tables, w)
		if c.set.Has(w) {
			continue
		}
		c.set.Put(w)
		c.all = append(c.all, w)
	}
	return out
}

// Load reads one word per line from path and buckets the words by length.
// Blank lines and lines starting with '#' are skipped.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var short, medium, long []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w := normalize(line)
		switch {
		case w == "":
			continue
		case len(w) <= 5:
			short = append(short, w)
		case len(w) <= 8:
			medium = append(medium, w)
		default:
			long = append(long, w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	c := New(short, medium, long)
	if len(c.all) == 0 {
		return nil, ErrEmptyCatalog
	}
	return c, nil
}

// normalize upper-cases w and returns "" unless it is entirely A–Z.
func normalize(w string) string {
	w = strings.ToUpper(strings.TrimSpace(w))
	if w == "" {
		return ""
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return ""
		}
	}
	return w
}

// Short returns a copy of the short category.
func (c *Catalog) Short() []string { return append([]string(nil), c.short...) }

// Medium returns a copy of the medium category.
func (c *Catalog) Medium() []string { return append([]string(nil), c.medium...) }

// Long returns a copy of the long category.
func (c *Catalog) Long() []string { return append([]string(nil), c.long...) }

// All returns every distinct word in catalog order.
func (c *Catalog) All() []string { return append([]string(nil), c.all...) }

// Contains reports whether w (any case) is in the catalog.
func (c *Catalog) Contains(w string) bool {
	return c.set.Has(strings.ToUpper(w))
}

// Eligible returns the words whose length is within [minLen, maxLen], in catalog order.
func (c *Catalog) Eligible(minLen, maxLen int) []string {
	var out []string
	for _, w := range c.all {
		if len(w) >= minLen && len(w) <= maxLen {
			out = append(out, w)
		}
	}
	return out
}

// RandomWords filters the catalog tables to [minLen, maxLen], shuffles the
// result with a fresh stream seeded by seed, and returns the first count
// distinct words.
//
// The shuffle runs over the tables with repeats kept (RAINBOW is listed as both
// medium and long), so the permutation for a seed is the same as for any other
// implementation of the same tables and recurrence. Repeats are skipped only
// while taking words. Fewer words are returned when not enough are eligible;
// that is not an error.
func (c *Catalog) RandomWords(count, minLen, maxLen int, seed int64) []string {
	return c.pick(count, minLen, maxLen, NewRandom(seed))
}

// RandomWordsFrom is RandomWords drawing from an existing stream.
func (c *Catalog) RandomWordsFrom(count, minLen, maxLen int, r *Random) []string {
	return c.pick(count, minLen, maxLen, r)
}

func (c *Catalog) pick(count, minLen, maxLen int, r *Random) []string {
	if count <= 0 {
		return []string{}
	}
	var eligible []string
	for _, w := range c.tables {
		if len(w) >= minLen && len(w) <= maxLen {
			eligible = append(eligible, w)
		}
	}
	Shuffle(eligible, r)

	out := make([]string, 0, min(count, len(eligible)))
	seen := mapset.New[string]()
	for _, w := range eligible {
		if len(out) == count {
			break
		}
		if seen.Has(w) {
			continue
		}
		seen.Put(w)
		out = append(out, w)
	}
	return out
}

// Stats returns (distinct words, short, medium, long) counts.
func (c *Catalog) Stats() (total, short, medium, long int) {
	return len(c.all), len(c.short), len(c.medium), len(c.long)
}
