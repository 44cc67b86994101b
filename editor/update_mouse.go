package editor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/tandem/buffer"
)

// updateMouse scrolls the viewport and handles left-button click, shift-click
// and drag selection. Selection changes reach observers through SetCursor and
// SetSelection like keyboard motion does.
func (m *Model) updateMouse(msg tea.MouseMsg) tea.Cmd {
	var cmd tea.Cmd
	if !isWheel(msg) || m.cfg.ScrollPolicy == ScrollAllowManual {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	if !m.focused {
		return cmd
	}

	switch {
	case msg.Action == tea.MouseActionRelease:
		m.mouseDragging = false
	case msg.Action == tea.MouseActionMotion && m.mouseDragging:
		x, y := m.clampToViewport(msg.X, msg.Y)
		m.SetSelection(buffer.Range{Start: m.mouseAnchor, End: m.ScreenToDoc(x, y)})
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.inViewport(msg.X, msg.Y):
		m.mousePress(m.ScreenToDoc(msg.X, msg.Y), msg.Shift)
	}
	return cmd
}

func (m *Model) mousePress(p buffer.Pos, extend bool) {
	m.mouseDragging = true
	if !extend {
		m.mouseAnchor = p
		m.SetCursor(p)
		return
	}
	m.mouseAnchor = m.cursor
	if raw, ok := m.SelectionRaw(); ok {
		m.mouseAnchor = raw.Start
	}
	m.SetSelection(buffer.Range{Start: m.mouseAnchor, End: p})
}

func isWheel(msg tea.MouseMsg) bool {
	if msg.Action != tea.MouseActionPress {
		return false
	}
	switch msg.Button { //nolint:exhaustive
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown, tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		return true
	}
	return false
}

func (m *Model) inViewport(x, y int) bool {
	w, h := m.viewport.Width, m.viewport.Height
	return x >= 0 && y >= 0 && x < w && y < h
}

func (m *Model) clampToViewport(x, y int) (int, int) {
	if w := m.viewport.Width; w > 0 {
		x = clampInt(x, 0, w-1)
	}
	if h := m.viewport.Height; h > 0 {
		y = clampInt(y, 0, h-1)
	}
	return x, y
}
