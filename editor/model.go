package editor

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/iw2rmb/tandem/buffer"
	"github.com/iw2rmb/tandem/internal/emitter"
)

// Model is a Bubble Tea component that renders and edits a shared buffer.
//
// A Model is used through its pointer. Several models may display the same
// *buffer.Buffer; each keeps its own cursor, selection, scroll position and
// decorations.
type Model struct {
	id    string
	cfg   Config
	buf   *buffer.Buffer
	title string

	focused bool

	cursor    buffer.Pos
	anchor    buffer.Pos
	selActive bool

	lastSel  SelectionEvent
	hasLast  bool
	viewport viewport.Model
	xOffset  int

	decorations map[string]Decoration

	mouseAnchor   buffer.Pos
	mouseDragging bool

	unsubscribe func()
	destroyed   bool

	selectionChanges emitter.Emitter[SelectionEvent]
	destroyEvents    emitter.Emitter[struct{}]
}

// New builds an editor view. The view subscribes to its buffer until
// Destroy is called.
func New(cfg Config) *Model {
	buf := cfg.Buffer
	if buf == nil {
		buf = buffer.New(cfg.Text, buffer.Options{HistoryLimit: cfg.HistoryLimit, Path: cfg.Path})
	}
	if len(cfg.KeyMap.Left.Keys()) == 0 {
		cfg.KeyMap = DefaultKeyMap()
	}

	m := &Model{
		id:          uuid.NewString(),
		cfg:         cfg,
		buf:         buf,
		title:       cfg.Title,
		focused:     true,
		viewport:    viewport.New(0, 0),
		decorations: make(map[string]Decoration),
	}
	m.unsubscribe = buf.Subscribe(m.bufferDidChange)
	m.lastSel = m.selectionEvent(false)
	m.hasLast = true
	m.rebuildContent()
	return m
}

// ID returns the view's unique identifier.
func (m *Model) ID() string { return m.id }

func (m *Model) Buffer() *buffer.Buffer { return m.buf }

// Title returns the explicit title, or the base name of the buffer path, or
// "untitled".
func (m *Model) Title() string {
	if m.title != "" {
		return m.title
	}
	if p := m.buf.Path(); p != "" {
		return filepath.Base(p)
	}
	return "untitled"
}

func (m *Model) SetTitle(title string) { m.title = title }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) SetSize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.viewport.Width = width
	m.viewport.Height = height

	m.rebuildContent()
	m.followCursor()
}

func (m *Model) Focus() {
	if !m.focused {
		m.focused = true
		m.rebuildContent()
		m.followCursor()
	}
}

func (m *Model) Blur() {
	if m.focused {
		m.focused = false
		m.rebuildContent()
	}
}

func (m *Model) Focused() bool { return m.focused }

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m.destroyed {
		return nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return nil
	case tea.KeyMsg:
		cmd := m.updateKey(msg)
		m.rebuildContent()
		return cmd
	case tea.MouseMsg:
		cmd := m.updateMouse(msg)
		m.rebuildContent()
		return cmd
	default:
		return nil
	}
}

func (m *Model) View() string {
	m.rebuildContent()
	return m.viewport.View()
}

// OnDidChangeSelection registers fn for cursor and selection changes.
func (m *Model) OnDidChangeSelection(fn func(SelectionEvent)) func() {
	return m.selectionChanges.On(fn)
}

// OnDidDestroy registers fn to run once when the view is destroyed.
func (m *Model) OnDidDestroy(fn func()) func() {
	if m.destroyed {
		return func() {}
	}
	return m.destroyEvents.On(func(struct{}) { fn() })
}

// Destroy detaches the view from its buffer. The buffer stays intact. Safe to
// call more than once.
func (m *Model) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.destroyEvents.Emit(struct{}{})
	m.destroyEvents.Clear()
	m.selectionChanges.Clear()
}

func (m *Model) IsDestroyed() bool { return m.destroyed }

func (m *Model) bufferDidChange(ch buffer.Change) {
	remap := func(p buffer.Pos) buffer.Pos {
		return m.buf.ClampPos(buffer.RemapPosThrough(p, ch.AppliedEdits).After)
	}
	m.cursor = remap(m.cursor)
	m.anchor = remap(m.anchor)
	for key, d := range m.decorations {
		start, end := remap(d.Range.Start), remap(d.Range.End)
		d.Range = buffer.NormalizeRange(buffer.Range{Start: start, End: end})
		m.decorations[key] = d
	}

	m.rebuildContent()
	m.notifySelection(true)
	m.notifyChange()
}

func (m *Model) selectionEvent(textChanged bool) SelectionEvent {
	ev := SelectionEvent{Range: buffer.Range{Start: m.cursor, End: m.cursor}, TextChanged: textChanged}
	if m.selActive && m.anchor != m.cursor {
		ev.Range = buffer.NormalizeRange(buffer.Range{Start: m.anchor, End: m.cursor})
		ev.Reversed = buffer.ComparePos(m.cursor, m.anchor) < 0
	}
	return ev
}

// notifySelection emits a SelectionEvent when the cursor or selection differs
// from the last emitted one.
func (m *Model) notifySelection(textChanged bool) bool {
	ev := m.selectionEvent(textChanged)
	if m.hasLast && ev.Range == m.lastSel.Range && ev.Reversed == m.lastSel.Reversed {
		return false
	}
	m.lastSel = ev
	m.hasLast = true
	m.selectionChanges.Emit(ev)
	return true
}

func (m *Model) notifyChange() {
	if m.cfg.OnChange == nil {
		return
	}
	m.cfg.OnChange(buildChangeEvent(m))
}

func (m *Model) rebuildContent() {
	m.viewport.SetContent(m.renderContent())
}

func (m *Model) followCursor() {
	m.scrollToPos(m.cursor)
}

func (m *Model) scrollToPos(p buffer.Pos) {
	p = m.buf.ClampPos(p)
	h := m.visibleRowCount()
	if h > 0 {
		y := m.viewport.YOffset
		if p.Row < y {
			m.viewport.SetYOffset(p.Row)
		} else if p.Row >= y+h {
			m.viewport.SetYOffset(p.Row - h + 1)
		}
	}

	w := m.contentWidth()
	if w <= 0 {
		return
	}
	x := m.cellX(p.Row, p.GraphemeCol)
	if x < m.xOffset {
		m.xOffset = x
	} else if x >= m.xOffset+w {
		m.xOffset = x - w + 1
	}
	m.rebuildContent()
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
