package buffer

import (
	"testing"

	graphemeutil "github.com/iw2rmb/tandem/internal/grapheme"
)

func TestBuffer_MoveGrapheme_BoundsAndLineCrossing(t *testing.T) {
	b := New("ab\nçd", Options{})

	p := b.MovePos(Pos{Row: 0, GraphemeCol: 0}, Move{Unit: MoveGrapheme, Dir: DirLeft})
	if p != (Pos{Row: 0, GraphemeCol: 0}) {
		t.Fatalf("pos=%v, want (0,0)", p)
	}

	p = b.MovePos(p, Move{Unit: MoveGrapheme, Dir: DirRight})
	if p != (Pos{Row: 0, GraphemeCol: 1}) {
		t.Fatalf("pos=%v, want (0,1)", p)
	}

	p = b.MovePos(Pos{Row: 0, GraphemeCol: 2}, Move{Unit: MoveGrapheme, Dir: DirRight})
	if p != (Pos{Row: 1, GraphemeCol: 0}) {
		t.Fatalf("pos=%v, want (1,0)", p)
	}

	p = b.MovePos(p, Move{Unit: MoveGrapheme, Dir: DirLeft})
	if p != (Pos{Row: 0, GraphemeCol: 2}) {
		t.Fatalf("pos=%v, want (0,2)", p)
	}
}

func TestBuffer_MoveLine_HomeEndAndVerticalClamp(t *testing.T) {
	b := New("hello\nw\nworld", Options{})

	p := b.MovePos(Pos{Row: 0, GraphemeCol: 3}, Move{Unit: MoveLine, Dir: DirEnd})
	if p != (Pos{Row: 0, GraphemeCol: 5}) {
		t.Fatalf("pos=%v, want (0,5)", p)
	}

	p = b.MovePos(p, Move{Unit: MoveLine, Dir: DirHome})
	if p != (Pos{Row: 0, GraphemeCol: 0}) {
		t.Fatalf("pos=%v, want (0,0)", p)
	}

	p = b.MovePos(Pos{Row: 2, GraphemeCol: 5}, Move{Unit: MoveLine, Dir: DirUp})
	if p != (Pos{Row: 1, GraphemeCol: 1}) {
		t.Fatalf("pos=%v, want (1,1)", p)
	}
}

func TestBuffer_MoveDoc_StartEnd(t *testing.T) {
	b := New("a\nbc", Options{})
	start := Pos{Row: 1, GraphemeCol: 1}

	cases := []struct {
		dir  MoveDir
		want Pos
	}{
		{dir: DirHome, want: Pos{Row: 0, GraphemeCol: 0}},
		{dir: DirEnd, want: Pos{Row: 1, GraphemeCol: 2}},
		{dir: DirUp, want: Pos{Row: 0, GraphemeCol: 0}},
		{dir: DirDown, want: Pos{Row: 1, GraphemeCol: 2}},
	}
	for _, tc := range cases {
		if got := b.MovePos(start, Move{Unit: MoveDoc, Dir: tc.dir}); got != tc.want {
			t.Fatalf("dir %v: pos=%v, want %v", tc.dir, got, tc.want)
		}
	}
}

func TestBuffer_MoveWord_PortableSemantics(t *testing.T) {
	b := New("  foo, bar", Options{})

	p := b.MovePos(Pos{}, Move{Unit: MoveWord, Dir: DirRight})
	if p != (Pos{Row: 0, GraphemeCol: 6}) {
		t.Fatalf("pos=%v, want (0,6)", p)
	}

	p = b.MovePos(p, Move{Unit: MoveWord, Dir: DirRight})
	if p != (Pos{Row: 0, GraphemeCol: 10}) {
		t.Fatalf("pos=%v, want (0,10)", p)
	}

	p = b.MovePos(p, Move{Unit: MoveWord, Dir: DirLeft})
	if p != (Pos{Row: 0, GraphemeCol: 7}) {
		t.Fatalf("pos=%v, want (0,7)", p)
	}

	p = b.MovePos(p, Move{Unit: MoveWord, Dir: DirLeft})
	if p != (Pos{Row: 0, GraphemeCol: 2}) {
		t.Fatalf("pos=%v, want (0,2)", p)
	}
}

func TestBuffer_MoveWord_UnicodeAndNewlineBoundary(t *testing.T) {
	greek := "πρόβλημα"
	rest := "テスト"
	line := greek + "  " + rest
	b := New(line+"\nbar", Options{})

	p := b.MovePos(Pos{}, Move{Unit: MoveWord, Dir: DirRight})
	if got, want := p, (Pos{Row: 0, GraphemeCol: graphemeutil.Count(greek)}); got != want {
		t.Fatalf("pos=%v, want %v", got, want)
	}

	eol := Pos{Row: 0, GraphemeCol: graphemeutil.Count(line)}
	if got := b.MovePos(eol, Move{Unit: MoveWord, Dir: DirRight}); got != eol {
		t.Fatalf("pos=%v, want unchanged at EOL", got)
	}

	sol := Pos{Row: 1, GraphemeCol: 0}
	if got := b.MovePos(sol, Move{Unit: MoveWord, Dir: DirLeft}); got != sol {
		t.Fatalf("pos=%v, want unchanged at SOL", got)
	}
}

func TestBuffer_MoveGrapheme_CombiningAndZWJ(t *testing.T) {
	line := "a" + "é" + "\U0001F468‍\U0001F469‍\U0001F467" + "b"
	b := New(line, Options{})

	if got, want := b.LineLen(0), 4; got != want {
		t.Fatalf("line grapheme len=%d, want %d", got, want)
	}

	p := Pos{}
	for i := 1; i <= 3; i++ {
		p = b.MovePos(p, Move{Unit: MoveGrapheme, Dir: DirRight})
		if got, want := p, (Pos{Row: 0, GraphemeCol: i}); got != want {
			t.Fatalf("step %d: pos=%v, want %v", i, got, want)
		}
	}
}

func TestBuffer_MovePos_ClampsInput(t *testing.T) {
	b := New("ab", Options{})
	if got, want := b.MovePos(Pos{Row: 7, GraphemeCol: 9}, Move{Unit: MoveGrapheme, Dir: DirLeft}), (Pos{Row: 0, GraphemeCol: 1}); got != want {
		t.Fatalf("pos=%v, want %v", got, want)
	}
}
