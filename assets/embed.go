// Package assets holds the embedded word tables used by the puzzle catalog.
package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed words_short.txt words_medium.txt words_long.txt
var FS embed.FS

// Category file names, in catalog order.
var categoryFiles = []string{"words_short.txt", "words_medium.txt", "words_long.txt"}

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToUpper(s))
	}
	return out, sc.Err()
}

// ShortWords returns the short word table.
func ShortWords() ([]string, error) { return readLines(categoryFiles[0]) }

// MediumWords returns the medium word table.
func MediumWords() ([]string, error) { return readLines(categoryFiles[1]) }

// LongWords returns the long word table.
func LongWords() ([]string, error) { return readLines(categoryFiles[2]) }

// Categories returns short, medium and long tables in that order.
func Categories() ([][]string, error) {
	out := make([][]string, 0, len(categoryFiles))
	for _, name := range categoryFiles {
		lines, err := readLines(name)
		if err != nil {
			return nil, err
		}
		out = append(out, lines)
	}
	return out, nil
}
