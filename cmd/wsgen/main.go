// cmd/wsgen/main.go
//
// wsgen generates a single puzzle from the command line.
//
//	wsgen --difficulty hard --words 12
//	wsgen --level 7 --seed 1234 --json
//
// Text output prints the grid, the target words and generation stats.
// --json prints the puzzle snapshot in the save-file format instead.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/robalobadob/wordsearch/internal/generator"
	"github.com/robalobadob/wordsearch/internal/level"
	"github.com/robalobadob/wordsearch/internal/puzzle"
	"github.com/robalobadob/wordsearch/internal/words"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("wsgen")
	}
}

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "wsgen",
		Usage: "generate a word-search puzzle",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "difficulty", Value: string(level.Medium), Usage: "easy, medium or hard"},
			&cli.IntFlag{Name: "words", Value: 10, Usage: "number of target words"},
			&cli.IntFlag{Name: "level", Usage: "campaign level; overrides difficulty and words"},
			&cli.Int64Flag{Name: "seed", Usage: "force a seed (single attempt)"},
			&cli.StringFlag{Name: "words-file", Usage: "one word per line instead of the built-in catalog"},
			&cli.BoolFlag{Name: "no-bonus", Usage: "skip bonus words"},
			&cli.BoolFlag{Name: "json", Usage: "print the puzzle snapshot as JSON"},
			&cli.BoolFlag{Name: "verbose", Usage: "debug logging"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(cmd, out)
		},
	}
}

func run(cmd *cli.Command, out io.Writer) error {
	lvl := zerolog.WarnLevel
	if cmd.Bool("verbose") {
		lvl = zerolog.DebugLevel
	}
	logger := log.Logger.Level(lvl)

	cat, err := catalog(cmd.String("words-file"))
	if err != nil {
		return err
	}
	opts := generator.DefaultOptions()
	opts.DisableBonus = cmd.Bool("no-bonus")
	opts.Logger = &logger
	gen := generator.New(cat, opts)

	var seed *int64
	if cmd.IsSet("seed") {
		v := cmd.Int64("seed")
		seed = &v
	}

	var (
		p  *puzzle.Puzzle
		st generator.Stats
	)
	if n := cmd.Int("level"); n != 0 {
		p, st, err = gen.Campaign(n, seed)
	} else {
		d, derr := level.ParseDifficulty(cmd.String("difficulty"))
		if derr != nil {
			return derr
		}
		p, st, err = gen.QuickPlay(d, cmd.Int("words"), seed)
	}
	if err != nil {
		return err
	}
	if st.Empty() {
		return fmt.Errorf("seed %d placed none of %d words; try another seed or more words", st.Seed, st.Requested)
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p.Snapshot())
	}
	printPuzzle(out, p, st)
	return nil
}

func catalog(path string) (*words.Catalog, error) {
	if path != "" {
		return words.Load(path)
	}
	if err := words.Init(); err != nil {
		return nil, err
	}
	return words.Default(), nil
}

func printPuzzle(out io.Writer, p *puzzle.Puzzle, st generator.Stats) {
	for _, row := range p.Rows() {
		fmt.Fprintln(out, strings.Join(strings.Split(row, ""), " "))
	}
	fmt.Fprintln(out)
	for _, pl := range p.Placements() {
		fmt.Fprintf(out, "%-14s (%d,%d) %s\n", pl.Word, pl.StartRow, pl.StartCol, pl.Direction)
	}
	if b := p.BonusPlacements(); len(b) > 0 {
		bonus := make([]string, len(b))
		for i, pl := range b {
			bonus[i] = pl.Word
		}
		fmt.Fprintf(out, "bonus: %s\n", strings.Join(bonus, " "))
	}
	fmt.Fprintf(out, "seed=%d attempts=%d placed=%d/%d degraded=%t took=%s\n",
		st.Seed, st.Attempts, st.Placed, st.Requested, st.Degraded, st.Duration)
}
