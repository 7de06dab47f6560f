package words

import "github.com/zyedidia/generic/mapset"

// Lookup answers "is this a word" and "can this still become a word" for
// catalog words within a length window. Used by the incidental-word scanner
// to stop walking a ray as soon as no word can start with the letters read so far.
type Lookup struct {
	MinLen, MaxLen int

	words    mapset.Set[string]
	prefixes mapset.Set[string]
}

// BuildLookup indexes every catalog word with length in [minLen, maxLen],
// plus every non-empty prefix of those words.
func (c *Catalog) BuildLookup(minLen, maxLen int) Lookup {
	l := Lookup{
		MinLen:   minLen,
		MaxLen:   maxLen,
		words:    mapset.New[string](),
		prefixes: mapset.New[string](),
	}
	for _, w := range c.all {
		if len(w) < minLen || len(w) > maxLen {
			continue
		}
		l.words.Put(w)
		for i := 1; i <= len(w); i++ {
			l.prefixes.Put(w[:i])
		}
	}
	return l
}

// IsWord reports whether s is an indexed word.
func (l Lookup) IsWord(s string) bool { return l.words.Has(s) }

// IsPrefix reports whether some indexed word starts with s (s itself included).
func (l Lookup) IsPrefix(s string) bool { return l.prefixes.Has(s) }

// Size returns the number of indexed words and prefixes.
func (l Lookup) Size() (words, prefixes int) { return l.words.Size(), l.prefixes.Size() }
