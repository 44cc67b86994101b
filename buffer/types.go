package buffer

import (
	"strings"

	"github.com/iw2rmb/tandem/internal/grapheme"
)

// Pos points into the logical document by (row, col) in grapheme clusters.
// Row and GraphemeCol are 0-based.
type Pos struct {
	Row         int
	GraphemeCol int
}

// Range is a half-open selection in document coordinates: [Start, End).
// Start <= End in document order.
type Range struct {
	Start Pos
	End   Pos
}

// TextEdit replaces the text in Range with Text (which may contain '\n').
type TextEdit struct {
	Range Range
	Text  string
}

func ComparePos(a, b Pos) int {
	if a.Row < b.Row {
		return -1
	}
	if a.Row > b.Row {
		return 1
	}
	if a.GraphemeCol < b.GraphemeCol {
		return -1
	}
	if a.GraphemeCol > b.GraphemeCol {
		return 1
	}
	return 0
}

func NormalizeRange(r Range) Range {
	if ComparePos(r.Start, r.End) <= 0 {
		return r
	}
	return Range{Start: r.End, End: r.Start}
}

func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether p lies in [Start, End].
func (r Range) Contains(p Pos) bool {
	r = NormalizeRange(r)
	return ComparePos(r.Start, p) <= 0 && ComparePos(p, r.End) <= 0
}

// EndOfText returns the position right after text when it is inserted at start.
func EndOfText(start Pos, text string) Pos {
	if text == "" {
		return start
	}
	parts := strings.Split(text, "\n")
	if len(parts) == 1 {
		return Pos{Row: start.Row, GraphemeCol: start.GraphemeCol + grapheme.Count(parts[0])}
	}
	last := parts[len(parts)-1]
	return Pos{Row: start.Row + len(parts) - 1, GraphemeCol: grapheme.Count(last)}
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampPos clamps p into document bounds described by rowCount and lineLen.
//
// - rowCount is the number of logical lines (rows).
// - lineLen(row) returns the grapheme length of the given row.
//
// The returned Pos always satisfies:
// - 0 <= Row < rowCount (with rowCount treated as at least 1)
// - 0 <= GraphemeCol <= lineLen(Row)
func ClampPos(p Pos, rowCount int, lineLen func(row int) int) Pos {
	if rowCount <= 0 {
		rowCount = 1
	}

	row := clampInt(p.Row, 0, rowCount-1)

	maxCol := 0
	if lineLen != nil {
		maxCol = lineLen(row)
		if maxCol < 0 {
			maxCol = 0
		}
	}
	col := clampInt(p.GraphemeCol, 0, maxCol)

	return Pos{Row: row, GraphemeCol: col}
}

func ClampRange(r Range, rowCount int, lineLen func(row int) int) Range {
	return Range{
		Start: ClampPos(r.Start, rowCount, lineLen),
		End:   ClampPos(r.End, rowCount, lineLen),
	}
}
