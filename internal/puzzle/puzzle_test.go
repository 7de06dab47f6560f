package puzzle

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

// buildSample returns a 4×4 puzzle with CAT across row 0 and TOE down column 2.
//
//	C A T x
//	. . O .
//	. . E .
//	. . . .
func buildSample(t *testing.T) *Puzzle {
	t.Helper()
	b := NewBuilder(4, 7)
	b.Place("CAT", 0, 0, Right)
	b.Place("TOE", 0, 2, Down)
	b.SetTargets([]string{"CAT", "TOE"})
	b.Fill(func() byte { return 'X' })
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p
}

func TestNewPlacementCoordinates(t *testing.T) {
	pl := NewPlacement("WORD", 3, 3, UpLeft)
	want := []Coord{{3, 3}, {2, 2}, {1, 1}, {0, 0}}
	if !reflect.DeepEqual(pl.Coords, want) {
		t.Fatalf("Coords = %v, want %v", pl.Coords, want)
	}
	if pl.End() != (Coord{0, 0}) {
		t.Fatalf("End = %v", pl.End())
	}
	if !pl.InBounds(4) || pl.InBounds(3) {
		t.Fatal("InBounds mismatch")
	}
}

func TestPlacementMatchesBothDirections(t *testing.T) {
	pl := NewPlacement("CAT", 0, 0, Right)
	fwd := []Coord{{0, 0}, {0, 1}, {0, 2}}
	rev := []Coord{{0, 2}, {0, 1}, {0, 0}}

	cases := []struct {
		name string
		sel  []Coord
		want bool
	}{
		{"forward", fwd, true},
		{"reverse", rev, true},
		{"too short", fwd[:2], false},
		{"wrong cells", []Coord{{0, 0}, {1, 1}, {2, 2}}, false},
		{"scrambled", []Coord{{0, 1}, {0, 0}, {0, 2}}, false},
		{"empty", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pl.Matches(tc.sel); got != tc.want {
				t.Errorf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatchSelectionSkipsFound(t *testing.T) {
	pls := []Placement{NewPlacement("CAT", 0, 0, Right), NewPlacement("TOE", 0, 2, Down)}
	sel := []Coord{{2, 2}, {1, 2}, {0, 2}}

	got, ok := MatchSelection(sel, pls, nil)
	if !ok || got.Word != "TOE" {
		t.Fatalf("got %v/%v, want TOE", got.Word, ok)
	}
	_, ok = MatchSelection(sel, pls, func(w string) bool { return w == "TOE" })
	if ok {
		t.Fatal("found word should be skipped")
	}
}

func TestDirectionHelpers(t *testing.T) {
	if len(AllDirections) != 8 {
		t.Fatalf("len(AllDirections) = %d", len(AllDirections))
	}
	seen := map[Direction]bool{}
	for _, d := range AllDirections {
		if !d.Valid() {
			t.Errorf("%v should be valid", d)
		}
		if seen[d] {
			t.Errorf("duplicate direction %v", d)
		}
		seen[d] = true
		if d.Reverse().Reverse() != d {
			t.Errorf("Reverse not involutive for %v", d)
		}
	}
	if (Direction{}).Valid() || (Direction{2, 0}).Valid() {
		t.Error("zero and non-unit vectors must be invalid")
	}
	if Right.Diagonal() || !UpLeft.Diagonal() {
		t.Error("Diagonal mismatch")
	}
	if UpRight.String() != "up-right" {
		t.Errorf("String = %q", UpRight.String())
	}
}

func TestCharAtOutOfBounds(t *testing.T) {
	p := buildSample(t)
	if p.CharAt(0, 0) != "C" || p.CharAt(2, 2) != "E" || p.CharAt(0, 3) != "X" {
		t.Fatalf("unexpected grid:\n%s", p)
	}
	for _, c := range []Coord{{-1, 0}, {0, -1}, {4, 0}, {0, 4}, {100, 100}} {
		if got := p.CharAt(c.Row, c.Col); got != "" {
			t.Errorf("CharAt(%d,%d) = %q, want empty", c.Row, c.Col, got)
		}
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	p := buildSample(t)
	pls := p.Placements()
	pls[0].Coords[0] = Coord{9, 9}
	pls[0].Word = "DOG"
	if got := p.Placements()[0]; got.Word != "CAT" || got.Coords[0] != (Coord{0, 0}) {
		t.Fatalf("puzzle mutated through accessor: %+v", got)
	}
	tw := p.TargetWords()
	tw[0] = "ZZZ"
	if p.TargetWords()[0] != "CAT" {
		t.Fatal("target words mutated through accessor")
	}
	g := p.Grid()
	if g[1][2] != "O" || g[3][3] != "X" {
		t.Fatalf("Grid = %v", g)
	}
	g[0][0] = "Q"
	if p.CharAt(0, 0) != "C" {
		t.Fatal("grid mutated through accessor")
	}
}

func TestPuzzleMatchPrefersTargets(t *testing.T) {
	p := buildSample(t)
	pl, bonus, ok := p.Match([]Coord{{0, 2}, {0, 1}, {0, 0}}, nil)
	if !ok || bonus || pl.Word != "CAT" {
		t.Fatalf("Match = %+v bonus=%v ok=%v", pl, bonus, ok)
	}
}

func TestBuildTwice(t *testing.T) {
	b := NewBuilder(2, 1)
	if _, err := b.Build(); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Build(); !errors.Is(err, ErrBuilderUsed) {
		t.Fatalf("second Build err = %v", err)
	}
}

func TestBuilderCannotMutateBuiltPuzzle(t *testing.T) {
	b := NewBuilder(3, 1)
	b.Place("CAT", 0, 0, Right)
	b.SetTargets([]string{"CAT"})
	p, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	b.Place("DOG", 0, 0, Right)
	b.PlaceBonus("EMU", 1, 0, Right)
	b.RegisterBonus("CAT", 0, 0, Right)
	b.SetTargets([]string{"DOG"})
	b.Fill(func() byte { return 'Z' })

	if got := p.Rows()[0]; got != "CAT" {
		t.Fatalf("row 0 = %q, want CAT", got)
	}
	if p.CharAt(1, 0) != "" {
		t.Fatalf("unset cell filled through builder: %q", p.CharAt(1, 0))
	}
	if tw := p.TargetWords(); len(tw) != 1 || tw[0] != "CAT" {
		t.Fatalf("targets = %v", tw)
	}
	if len(p.Placements()) != 1 || len(p.BonusPlacements()) != 0 {
		t.Fatalf("placements changed: %v %v", p.Placements(), p.BonusPlacements())
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	b := NewBuilder(4, 99)
	b.Place("CAT", 0, 0, Right)
	b.Place("TOE", 0, 2, Down)
	b.PlaceBonus("DEN", 3, 0, Right)
	b.SetTargets([]string{"CAT", "TOE"})
	b.Fill(func() byte { return 'Q' })
	p, _ := b.Build()

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Puzzle
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(p.Snapshot(), back.Snapshot()) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", p.Snapshot(), back.Snapshot())
	}
}

func TestFromSnapshotRecomputesCoordinates(t *testing.T) {
	p := buildSample(t)
	s := p.Snapshot()
	s.WordPlacements[0].Coords = []Coord{{3, 3}} // stale/corrupt persisted path
	q, err := FromSnapshot(s)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	want := []Coord{{0, 0}, {0, 1}, {0, 2}}
	if got := q.Placements()[0].Coords; !reflect.DeepEqual(got, want) {
		t.Fatalf("Coords = %v, want %v", got, want)
	}
}

func TestFromSnapshotRejectsMalformed(t *testing.T) {
	good := buildSample(t).Snapshot()
	good.BonusPlacements = nil

	cases := map[string]func(s *Snapshot){
		"zero size":      func(s *Snapshot) { s.GridSize = 0 },
		"short grid":     func(s *Snapshot) { s.Grid = s.Grid[:3] },
		"ragged row":     func(s *Snapshot) { s.Grid[1] = s.Grid[1][:2] },
		"empty cell":     func(s *Snapshot) { s.Grid[3][3] = "" },
		"lowercase cell": func(s *Snapshot) { s.Grid[3][3] = "q" },
		"bad direction":  func(s *Snapshot) { s.WordPlacements[0].Direction = Direction{} },
		"out of bounds":  func(s *Snapshot) { s.WordPlacements[0].StartCol = 2 },
		"wrong letters":  func(s *Snapshot) { s.WordPlacements[0].Word = "COT" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			data, _ := json.Marshal(good)
			var s Snapshot
			_ = json.Unmarshal(data, &s)
			mutate(&s)
			if _, err := FromSnapshot(s); !errors.Is(err, ErrInvalidSnapshot) {
				t.Fatalf("err = %v, want ErrInvalidSnapshot", err)
			}
		})
	}
}
