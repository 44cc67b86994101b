package editor

import "github.com/charmbracelet/lipgloss"

// Style controls the editor's rendering.
//
// RemoteCursors and RemoteSelections are palettes indexed by
// Decoration.Palette modulo their length.
type Style struct {
	Gutter        lipgloss.Style
	LineNum       lipgloss.Style
	LineNumActive lipgloss.Style

	Text      lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style

	RemoteCursors    []lipgloss.Style
	RemoteSelections []lipgloss.Style
}

var remotePalette = []lipgloss.Color{"33", "208", "170", "41", "220", "203"}

func DefaultStyle() Style {
	gutter := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	st := Style{
		Gutter:        gutter,
		LineNum:       gutter,
		LineNumActive: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true),
		Text:          lipgloss.NewStyle(),
		Selection:     lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:        lipgloss.NewStyle().Reverse(true),
	}
	for _, c := range remotePalette {
		st.RemoteCursors = append(st.RemoteCursors, lipgloss.NewStyle().Background(c).Foreground(lipgloss.Color("0")))
		st.RemoteSelections = append(st.RemoteSelections, lipgloss.NewStyle().Underline(true).Foreground(c))
	}
	return st
}

func (s Style) remoteCursor(palette int) lipgloss.Style {
	return pick(s.RemoteCursors, palette, s.Cursor)
}

func (s Style) remoteSelection(palette int) lipgloss.Style {
	return pick(s.RemoteSelections, palette, s.Selection)
}

func pick(styles []lipgloss.Style, i int, fallback lipgloss.Style) lipgloss.Style {
	if len(styles) == 0 {
		return fallback
	}
	if i < 0 {
		i = -i
	}
	return styles[i%len(styles)]
}
