package editor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/tandem/buffer"
)

func (m *Model) updateKey(msg tea.KeyMsg) tea.Cmd {
	if !m.focused {
		return nil
	}

	// Paste events should always insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		m.InsertText(string(msg.Runes))
		return nil
	}

	km := m.cfg.KeyMap
	switch {
	case key.Matches(msg, km.Left):
		m.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirLeft})
	case key.Matches(msg, km.Right):
		m.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirRight})
	case key.Matches(msg, km.Up):
		m.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirUp})
	case key.Matches(msg, km.Down):
		m.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirDown})

	case key.Matches(msg, km.ShiftLeft):
		m.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirLeft, Extend: true})
	case key.Matches(msg, km.ShiftRight):
		m.Move(buffer.Move{Unit: buffer.MoveGrapheme, Dir: buffer.DirRight, Extend: true})
	case key.Matches(msg, km.ShiftUp):
		m.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirUp, Extend: true})
	case key.Matches(msg, km.ShiftDown):
		m.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirDown, Extend: true})

	case key.Matches(msg, km.WordLeft):
		m.Move(buffer.Move{Unit: buffer.MoveWord, Dir: buffer.DirLeft})
	case key.Matches(msg, km.WordRight):
		m.Move(buffer.Move{Unit: buffer.MoveWord, Dir: buffer.DirRight})

	case key.Matches(msg, km.Home):
		m.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirHome})
	case key.Matches(msg, km.End):
		m.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirEnd})
	case key.Matches(msg, km.DocStart):
		m.Move(buffer.Move{Unit: buffer.MoveDoc, Dir: buffer.DirHome})
	case key.Matches(msg, km.DocEnd):
		m.Move(buffer.Move{Unit: buffer.MoveDoc, Dir: buffer.DirEnd})
	case key.Matches(msg, km.PageUp):
		m.movePage(-1)
	case key.Matches(msg, km.PageDown):
		m.movePage(1)

	case key.Matches(msg, km.Backspace):
		m.DeleteBackward()
	case key.Matches(msg, km.Delete):
		m.DeleteForward()
	case key.Matches(msg, km.Enter):
		m.InsertNewline()

	case key.Matches(msg, km.Undo):
		m.Undo()
	case key.Matches(msg, km.Redo):
		m.Redo()

	case key.Matches(msg, km.Copy):
		m.copySelection()
	case key.Matches(msg, km.Cut):
		if !m.cfg.ReadOnly {
			m.cutSelection()
		} else {
			m.copySelection()
		}
	case key.Matches(msg, km.Paste):
		if !m.cfg.ReadOnly {
			m.pasteClipboard()
		}

	default:
		if msg.Type == tea.KeyTab {
			m.InsertText("\t")
			return nil
		}
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt {
			m.InsertText(string(msg.Runes))
		}
	}
	return nil
}

// movePage moves the cursor by one screen of rows.
func (m *Model) movePage(dir int) {
	rows := maxInt(m.visibleRowCount()-1, 1)
	target := m.cursor
	target.Row = clampInt(target.Row+dir*rows, 0, m.buf.LineCount()-1)
	m.SetCursor(target)
}
