package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/tandem/buffer"
	"github.com/iw2rmb/tandem/internal/grapheme"
)

// rowMarks collects what a single row has to highlight.
type rowMarks struct {
	cursorCol int // -1 when the local cursor is not on the row
	selStart  int
	selEnd    int
	hasSel    bool

	remote []remoteMark
}

type remoteMark struct {
	palette  int
	headCol  int // -1 when the decorated cursor is on another row
	selStart int
	selEnd   int
	hasSel   bool
}

func (m *Model) renderContent() string {
	st := m.cfg.Style
	lineCount := m.buf.LineCount()
	digitCount := 0
	if m.cfg.ShowLineNums {
		digitCount = gutterDigits(lineCount)
	}

	sel, selOK := m.Selection()
	keys := m.DecorationKeys()

	left := maxInt(m.xOffset, 0)
	right := -1
	if w := m.contentWidth(); w > 0 {
		right = left + w
	}

	out := make([]string, 0, lineCount)
	for row := 0; row < lineCount; row++ {
		line := m.buf.Line(row)

		marks := rowMarks{cursorCol: -1}
		if m.focused && row == m.cursor.Row {
			marks.cursorCol = clampInt(m.cursor.GraphemeCol, 0, len(line))
		}
		marks.selStart, marks.selEnd, marks.hasSel = selectionColsForRow(sel, selOK, row, len(line))
		for _, k := range keys {
			d := m.decorations[k]
			rm := remoteMark{palette: d.Palette, headCol: -1}
			if h := d.Head(); h.Row == row {
				rm.headCol = clampInt(h.GraphemeCol, 0, len(line))
			}
			rm.selStart, rm.selEnd, rm.hasSel = selectionColsForRow(d.Range, !d.Range.IsEmpty(), row, len(line))
			if rm.headCol >= 0 || rm.hasSel {
				marks.remote = append(marks.remote, rm)
			}
		}

		var sb strings.Builder
		if m.cfg.ShowLineNums {
			numStyle := st.LineNum
			if m.focused && row == m.cursor.Row {
				numStyle = st.LineNumActive
			}
			sb.WriteString(numStyle.Render(fmt.Sprintf("%*d", digitCount, row+1)))
			sb.WriteString(st.Gutter.Render(" "))
		}
		sb.WriteString(renderLine(st, line, marks, m.tabWidth(), left, right))
		out = append(out, sb.String())
	}
	return strings.Join(out, "\n")
}

// renderLine renders the cells of one row in [left, right). right < 0 means
// unbounded. Wide graphemes cut by the window render as blanks.
func renderLine(st Style, line []string, marks rowMarks, tabWidth, left, right int) string {
	inWindow := func(start, width int) (int, bool) {
		l := maxInt(start, left)
		r := start + width
		if right >= 0 {
			r = minInt(r, right)
		}
		return r - l, l < r
	}

	var sb strings.Builder
	cell := 0
	for col, g := range line {
		w := grapheme.CellWidth(g, cell, tabWidth)
		visible, ok := inWindow(cell, w)
		if ok {
			text := g
			if g == "\t" || visible != w {
				text = strings.Repeat(" ", visible)
			}
			sb.WriteString(cellStyle(st, marks, col).Render(text))
		}
		cell += w
	}

	// A cursor at the end of the line is drawn as a one-cell placeholder.
	eol := len(line)
	if _, ok := inWindow(cell, 1); ok {
		if marks.cursorCol == eol {
			sb.WriteString(st.Cursor.Render(" "))
		} else if rm, found := remoteHeadAt(marks, eol); found {
			sb.WriteString(st.remoteCursor(rm.palette).Render(" "))
		}
	}
	return sb.String()
}

func cellStyle(st Style, marks rowMarks, col int) lipgloss.Style {
	if col == marks.cursorCol {
		return st.Cursor
	}
	if rm, ok := remoteHeadAt(marks, col); ok {
		return st.remoteCursor(rm.palette)
	}
	if marks.hasSel && col >= marks.selStart && col < marks.selEnd {
		return st.Selection
	}
	for _, rm := range marks.remote {
		if rm.hasSel && col >= rm.selStart && col < rm.selEnd {
			return st.remoteSelection(rm.palette)
		}
	}
	return st.Text
}

func remoteHeadAt(marks rowMarks, col int) (remoteMark, bool) {
	for _, rm := range marks.remote {
		if rm.headCol == col {
			return rm, true
		}
	}
	return remoteMark{}, false
}

func selectionColsForRow(sel buffer.Range, ok bool, row, lineLen int) (start, end int, has bool) {
	if !ok {
		return 0, 0, false
	}
	sel = buffer.NormalizeRange(sel)
	if row < sel.Start.Row || row > sel.End.Row {
		return 0, 0, false
	}
	start, end = 0, lineLen
	if row == sel.Start.Row {
		start = clampInt(sel.Start.GraphemeCol, 0, lineLen)
	}
	if row == sel.End.Row {
		end = clampInt(sel.End.GraphemeCol, 0, lineLen)
	}
	return start, end, start < end
}
