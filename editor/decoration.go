package editor

import (
	"sort"

	"github.com/iw2rmb/tandem/buffer"
)

// Decoration marks another participant's cursor and selection in a view.
//
// Decorations follow text changes the same way the view's own cursor does.
type Decoration struct {
	// Range is the decorated selection in document order. An empty range
	// marks only a cursor.
	Range buffer.Range
	// Reversed puts the cursor at Range.Start.
	Reversed bool
	// Label is shown in the status line of hosts that list decorations.
	Label string
	// Palette selects the colour from Style.RemoteCursors and
	// Style.RemoteSelections.
	Palette int
}

// Head returns the decorated cursor position.
func (d Decoration) Head() buffer.Pos {
	if d.Reversed {
		return d.Range.Start
	}
	return d.Range.End
}

// SetDecoration adds or replaces the decoration stored under key.
func (m *Model) SetDecoration(key string, d Decoration) {
	d.Range = buffer.NormalizeRange(buffer.Range{
		Start: m.buf.ClampPos(d.Range.Start),
		End:   m.buf.ClampPos(d.Range.End),
	})
	m.decorations[key] = d
	m.rebuildContent()
}

// ClearDecoration removes the decoration stored under key and reports
// whether there was one.
func (m *Model) ClearDecoration(key string) bool {
	if _, ok := m.decorations[key]; !ok {
		return false
	}
	delete(m.decorations, key)
	m.rebuildContent()
	return true
}

func (m *Model) Decoration(key string) (Decoration, bool) {
	d, ok := m.decorations[key]
	return d, ok
}

// DecorationKeys returns the keys of all decorations in sorted order.
func (m *Model) DecorationKeys() []string {
	keys := make([]string, 0, len(m.decorations))
	for k := range m.decorations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
