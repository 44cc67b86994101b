package editor

import "github.com/iw2rmb/tandem/buffer"

// Config configures an editor view.
type Config struct {
	// Buffer is the shared document. When nil, New creates a private buffer
	// from Text, HistoryLimit and Path.
	Buffer       *buffer.Buffer
	Text         string
	HistoryLimit int
	Path         string

	// Title overrides the title derived from the buffer path.
	Title string

	// Rendering options.
	ShowLineNums bool
	Style        Style
	TabWidth     int

	KeyMap       KeyMap
	ScrollPolicy ScrollPolicy
	ReadOnly     bool
	Clipboard    Clipboard

	// OnChange is called after text, cursor or selection changes.
	OnChange func(ChangeEvent)
}
