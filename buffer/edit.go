package buffer

import (
	"slices"
	"strings"

	"github.com/iw2rmb/tandem/internal/grapheme"
)

// replaceRange swaps the text in r (clamped) for text and reports the
// effective edit. It does not bump the version or notify observers.
func (b *Buffer) replaceRange(r Range, text string) (AppliedEdit, bool) {
	r = NormalizeRange(ClampRange(r, len(b.lines), b.lineLen))
	deleted := textForLinesRange(b.lines, r)
	if deleted == text {
		return AppliedEdit{}, false
	}

	head := b.lines[r.Start.Row][:r.Start.GraphemeCol]
	tail := b.lines[r.End.Row][r.End.GraphemeCol:]

	// The inserted text is split on its own so clusters never merge across
	// the edit boundary.
	mid := splitLines(text)
	last := len(mid) - 1
	end := Pos{Row: r.Start.Row + last, GraphemeCol: len(mid[last])}
	if last == 0 {
		end.GraphemeCol += len(head)
	}
	mid[last] = slices.Concat(mid[last], tail)
	mid[0] = slices.Concat(head, mid[0])

	b.lines = slices.Concat(b.lines[:r.Start.Row], mid, b.lines[r.End.Row+1:])
	return AppliedEdit{
		RangeBefore: r,
		RangeAfter:  Range{Start: r.Start, End: end},
		InsertText:  text,
		DeletedText: deleted,
	}, true
}

func textForLinesRange(lines [][]string, r Range) string {
	r = NormalizeRange(r)
	if r.IsEmpty() {
		return ""
	}
	rows := make([]string, 0, r.End.Row-r.Start.Row+1)
	for row := r.Start.Row; row <= r.End.Row; row++ {
		line := lines[row]
		if row == r.End.Row {
			line = line[:r.End.GraphemeCol]
		}
		if row == r.Start.Row {
			line = line[r.Start.GraphemeCol:]
		}
		rows = append(rows, grapheme.Join(line))
	}
	return strings.Join(rows, "\n")
}

// flatten returns the document as one grapheme sequence with "\n" entries
// between rows.
func flatten(lines [][]string) []string {
	var out []string
	for i, line := range lines {
		if i > 0 {
			out = append(out, "\n")
		}
		out = append(out, line...)
	}
	return out
}

// posAtIndex maps an index into flatten(lines) back to a position.
func posAtIndex(flat []string, idx int) Pos {
	idx = min(idx, len(flat))
	row := 0
	lineStart := 0
	for i, g := range flat[:idx] {
		if g == "\n" {
			row++
			lineStart = i + 1
		}
	}
	return Pos{Row: row, GraphemeCol: idx - lineStart}
}
