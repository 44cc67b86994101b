package editor

import (
	"strings"

	"github.com/iw2rmb/tandem/buffer"
)

// InsertText replaces the selection (or inserts at the cursor) with text.
func (m *Model) InsertText(text string) bool {
	if m.cfg.ReadOnly || m.destroyed {
		return false
	}
	r := buffer.Range{Start: m.cursor, End: m.cursor}
	if sel, ok := m.Selection(); ok {
		r = sel
	}
	if r.IsEmpty() && text == "" {
		return false
	}
	return m.replace(r, text)
}

func (m *Model) InsertNewline() bool { return m.InsertText("\n") }

// DeleteBackward deletes the selection, or the grapheme before the cursor.
func (m *Model) DeleteBackward() bool {
	return m.deleteTowards(buffer.DirLeft)
}

// DeleteForward deletes the selection, or the grapheme after the cursor.
func (m *Model) DeleteForward() bool {
	return m.deleteTowards(buffer.DirRight)
}

func (m *Model) DeleteSelection() bool {
	if m.cfg.ReadOnly || m.destroyed {
		return false
	}
	sel, ok := m.Selection()
	if !ok {
		return false
	}
	return m.replace(sel, "")
}

func (m *Model) deleteTowards(dir buffer.MoveDir) bool {
	if m.cfg.ReadOnly || m.destroyed {
		return false
	}
	if _, ok := m.Selection(); ok {
		return m.DeleteSelection()
	}
	other := m.buf.MovePos(m.cursor, buffer.Move{Unit: buffer.MoveGrapheme, Dir: dir})
	if other == m.cursor {
		return false
	}
	return m.replace(buffer.NormalizeRange(buffer.Range{Start: m.cursor, End: other}), "")
}

func (m *Model) replace(r buffer.Range, text string) bool {
	ch, ok := m.buf.Apply(buffer.TextEdit{Range: r, Text: text})
	if !ok {
		return false
	}
	end := m.cursor
	if n := len(ch.AppliedEdits); n > 0 {
		end = ch.AppliedEdits[n-1].RangeAfter.End
	}
	m.SetCursor(end)
	return true
}

// Undo reverts this view's buffer's last local step and puts the cursor at
// the end of the restored text.
func (m *Model) Undo() bool {
	if m.cfg.ReadOnly || m.destroyed {
		return false
	}
	return m.revertWith(m.buf.Undo)
}

func (m *Model) Redo() bool {
	if m.cfg.ReadOnly || m.destroyed {
		return false
	}
	return m.revertWith(m.buf.Redo)
}

func (m *Model) revertWith(fn func() bool) bool {
	if !fn() {
		return false
	}
	if ch, ok := m.buf.LastChange(); ok && len(ch.AppliedEdits) > 0 {
		m.SetCursor(ch.AppliedEdits[len(ch.AppliedEdits)-1].RangeAfter.End)
	}
	return true
}

func (m *Model) copySelection() {
	if m.cfg.Clipboard == nil {
		return
	}
	r, ok := m.Selection()
	if !ok {
		return
	}
	s := m.buf.TextInRange(r)
	if s == "" {
		return
	}
	_ = m.cfg.Clipboard.WriteText(s)
}

func (m *Model) cutSelection() {
	if m.cfg.Clipboard == nil {
		return
	}
	r, ok := m.Selection()
	if !ok {
		return
	}
	if s := m.buf.TextInRange(r); s != "" {
		_ = m.cfg.Clipboard.WriteText(s)
	}
	m.DeleteSelection()
}

func (m *Model) pasteClipboard() {
	if m.cfg.Clipboard == nil {
		return
	}
	s, err := m.cfg.Clipboard.ReadText()
	if err != nil || s == "" {
		return
	}
	// Normalize newlines from external sources.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	m.InsertText(s)
}
