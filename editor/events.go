package editor

import "github.com/iw2rmb/tandem/buffer"

// ChangeEvent is passed to Config.OnChange.
type ChangeEvent struct {
	Version   uint64
	Cursor    buffer.Pos
	Selection struct {
		Range  buffer.Range
		Active bool
	}

	Text string
}

// SelectionEvent reports a change of the view's cursor or selection.
type SelectionEvent struct {
	// Range is the selection in document order; empty when only a cursor.
	Range buffer.Range
	// Reversed is true when the cursor sits at Range.Start.
	Reversed bool
	// TextChanged is true when the selection moved only because the text
	// around it changed.
	TextChanged bool
}

// Cursor returns the cursor position described by the event.
func (ev SelectionEvent) Cursor() buffer.Pos {
	if ev.Reversed {
		return ev.Range.Start
	}
	return ev.Range.End
}

func buildChangeEvent(m *Model) ChangeEvent {
	ev := ChangeEvent{
		Version: m.buf.Version(),
		Cursor:  m.cursor,
		Text:    m.buf.Text(),
	}
	if r, ok := m.Selection(); ok {
		ev.Selection.Active = true
		ev.Selection.Range = r
	}
	return ev
}
