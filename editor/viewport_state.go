package editor

import (
	"github.com/iw2rmb/tandem/buffer"
	"github.com/iw2rmb/tandem/internal/grapheme"
)

// ViewportState is a stable host-facing snapshot of editor camera state.
type ViewportState struct {
	// TopRow is the document row rendered at viewport screen row 0.
	TopRow int
	// VisibleRows is the number of content rows available for rendering.
	VisibleRows int
	// LeftCellOffset is the horizontal scroll in terminal cells.
	LeftCellOffset int
}

// ViewportState returns the current host-facing viewport state.
func (m *Model) ViewportState() ViewportState {
	return ViewportState{
		TopRow:         maxInt(m.viewport.YOffset, 0),
		VisibleRows:    m.visibleRowCount(),
		LeftCellOffset: maxInt(m.xOffset, 0),
	}
}

// ScreenToDoc maps viewport-local screen coordinates to a document position.
//
// Coordinates use terminal cells relative to the editor viewport. Clicks in
// the gutter map to the start of the line.
func (m *Model) ScreenToDoc(x, y int) buffer.Pos {
	row := clampInt(m.viewport.YOffset+y, 0, m.buf.LineCount()-1)
	target := x - m.gutterWidth() + m.xOffset
	if target <= 0 {
		return buffer.Pos{Row: row}
	}

	cell := 0
	line := m.buf.Line(row)
	for col, g := range line {
		w := grapheme.CellWidth(g, cell, m.tabWidth())
		if target < cell+w {
			return buffer.Pos{Row: row, GraphemeCol: col}
		}
		cell += w
	}
	return buffer.Pos{Row: row, GraphemeCol: len(line)}
}

// DocToScreen maps a document position to viewport-local screen coordinates.
//
// ok is false when the position is outside the visible viewport content.
func (m *Model) DocToScreen(pos buffer.Pos) (x int, y int, ok bool) {
	pos = m.buf.ClampPos(pos)
	y = pos.Row - m.viewport.YOffset
	x = m.cellX(pos.Row, pos.GraphemeCol) - m.xOffset
	ok = y >= 0 && y < m.visibleRowCount() && x >= 0
	if w := m.contentWidth(); w > 0 && x >= w {
		ok = false
	}
	return x + m.gutterWidth(), y, ok
}

func (m *Model) visibleRowCount() int {
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h < 0 {
		return 0
	}
	return h
}

// contentWidth is the number of text cells per row; 0 means unbounded.
func (m *Model) contentWidth() int {
	if m.viewport.Width <= 0 {
		return 0
	}
	return maxInt(m.viewport.Width-m.viewport.Style.GetHorizontalFrameSize()-m.gutterWidth(), 1)
}

func (m *Model) gutterWidth() int {
	if !m.cfg.ShowLineNums {
		return 0
	}
	return gutterDigits(m.buf.LineCount()) + 1
}

func (m *Model) tabWidth() int {
	if m.cfg.TabWidth > 0 {
		return m.cfg.TabWidth
	}
	return grapheme.DefaultTabWidth
}

// cellX returns the cell offset of col within row, before horizontal scroll.
func (m *Model) cellX(row, col int) int {
	cell := 0
	line := m.buf.Line(row)
	for i := 0; i < col && i < len(line); i++ {
		cell += grapheme.CellWidth(line[i], cell, m.tabWidth())
	}
	return cell
}

func gutterDigits(lines int) int {
	digits := 1
	for n := maxInt(lines, 1); n >= 10; n /= 10 {
		digits++
	}
	return digits
}
