package editor

import "github.com/iw2rmb/tandem/buffer"

func (m *Model) Cursor() buffer.Pos { return m.cursor }

// SetCursor moves the cursor and clears the selection.
func (m *Model) SetCursor(p buffer.Pos) {
	m.cursor = m.buf.ClampPos(p)
	m.anchor = m.cursor
	m.selActive = false
	m.selectionDidChange()
}

// SetSelection selects r. The cursor ends at r.End, so a range whose End
// precedes its Start is a reversed selection.
func (m *Model) SetSelection(r buffer.Range) {
	m.anchor = m.buf.ClampPos(r.Start)
	m.cursor = m.buf.ClampPos(r.End)
	m.selActive = true
	m.selectionDidChange()
}

func (m *Model) ClearSelection() {
	if !m.selActive {
		return
	}
	m.selActive = false
	m.anchor = m.cursor
	m.selectionDidChange()
}

// Selection returns the selected range in document order. ok is false when
// nothing is selected.
func (m *Model) Selection() (buffer.Range, bool) {
	if !m.selActive || m.anchor == m.cursor {
		return buffer.Range{}, false
	}
	return buffer.NormalizeRange(buffer.Range{Start: m.anchor, End: m.cursor}), true
}

// SelectionRaw returns the selection as anchor..cursor.
func (m *Model) SelectionRaw() (buffer.Range, bool) {
	if !m.selActive {
		return buffer.Range{}, false
	}
	return buffer.Range{Start: m.anchor, End: m.cursor}, true
}

// Move moves the cursor. With Extend the selection grows from its anchor,
// otherwise it is cleared.
func (m *Model) Move(mv buffer.Move) {
	if mv.Extend {
		if !m.selActive {
			m.anchor = m.cursor
			m.selActive = true
		}
	} else {
		m.selActive = false
	}
	m.cursor = m.buf.MovePos(m.cursor, mv)
	if !m.selActive {
		m.anchor = m.cursor
	}
	m.selectionDidChange()
}

// ScrollToPos scrolls the viewport so p is visible. The cursor is unchanged.
func (m *Model) ScrollToPos(p buffer.Pos) {
	m.rebuildContent()
	m.scrollToPos(p)
}

func (m *Model) selectionDidChange() {
	m.rebuildContent()
	m.followCursor()
	if m.notifySelection(false) {
		m.notifyChange()
	}
}
