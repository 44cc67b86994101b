package editor

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings the editor reacts to. Each binding lists a
// fallback where terminals disagree on what they send.
type KeyMap struct {
	Left, Right, Up, Down                     key.Binding
	ShiftLeft, ShiftRight, ShiftUp, ShiftDown key.Binding
	WordLeft, WordRight                       key.Binding
	Home, End                                 key.Binding
	DocStart, DocEnd                          key.Binding
	PageUp, PageDown                          key.Binding

	Backspace, Delete key.Binding
	Enter             key.Binding

	Undo, Redo       key.Binding
	Copy, Cut, Paste key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the bindings used when Config.KeyMap is empty.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:       bind("←", "left", "left"),
		Right:      bind("→", "right", "right"),
		Up:         bind("↑", "up", "up"),
		Down:       bind("↓", "down", "down"),
		ShiftLeft:  bind("shift+←", "select left", "shift+left"),
		ShiftRight: bind("shift+→", "select right", "shift+right"),
		ShiftUp:    bind("shift+↑", "select up", "shift+up"),
		ShiftDown:  bind("shift+↓", "select down", "shift+down"),
		WordLeft:   bind("alt/ctrl+←", "word left", "alt+left", "ctrl+left"),
		WordRight:  bind("alt/ctrl+→", "word right", "alt+right", "ctrl+right"),
		Home:       bind("home", "line start", "home", "ctrl+a"),
		End:        bind("end", "line end", "end", "ctrl+e"),
		DocStart:   bind("ctrl+home", "top", "ctrl+home"),
		DocEnd:     bind("ctrl+end", "bottom", "ctrl+end"),
		PageUp:     bind("pgup", "page up", "pgup"),
		PageDown:   bind("pgdn", "page down", "pgdown"),

		Backspace: bind("backspace", "delete left", "backspace", "ctrl+h"),
		Delete:    bind("del", "delete right", "delete"),
		Enter:     bind("enter", "newline", "enter"),

		Undo:  bind("ctrl+z", "undo own edit", "ctrl+z"),
		Redo:  bind("ctrl+y", "redo own edit", "ctrl+y", "ctrl+shift+z"),
		Copy:  bind("ctrl+c", "copy", "ctrl+c"),
		Cut:   bind("ctrl+x", "cut", "ctrl+x"),
		Paste: bind("ctrl+v", "paste", "ctrl+v"),
	}
}
