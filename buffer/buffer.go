package buffer

import (
	"strings"

	"github.com/google/uuid"

	"github.com/iw2rmb/tandem/internal/emitter"
	"github.com/iw2rmb/tandem/internal/grapheme"
)

type Options struct {
	HistoryLimit int    // default: 1000
	Path         string // empty for untitled documents
}

// Buffer is the pure document state: text, history, and change observers.
//
// Cursors and selections belong to the views that display a buffer, so
// several views can share one Buffer.
type Buffer struct {
	id      string
	path    string
	lines   [][]string
	version uint64

	opt  Options
	hist historyState

	lastChange    Change
	hasLastChange bool

	// syncChanges run before changes, so replicas hear about an edit
	// before any view reacts to it.
	syncChanges emitter.Emitter[Change]
	changes     emitter.Emitter[Change]
	pathChanges emitter.Emitter[string]
}

func New(text string, opt Options) *Buffer {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = 1000
	}
	return &Buffer{
		id:      uuid.NewString(),
		path:    opt.Path,
		lines:   splitLines(text),
		version: 0,
		opt:     opt,
	}
}

// ID returns a process-unique identifier for the buffer.
func (b *Buffer) ID() string { return b.id }

// Path returns the file path of the buffer, or "" for untitled documents.
func (b *Buffer) Path() string { return b.path }

// SetPath changes the buffer path and notifies path observers.
func (b *Buffer) SetPath(path string) {
	if path == b.path {
		return
	}
	b.path = path
	b.pathChanges.Emit(path)
}

func (b *Buffer) Text() string {
	if len(b.lines) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(grapheme.Join(line))
	}
	return sb.String()
}

// Version increments once per effective text mutation.
func (b *Buffer) Version() uint64 { return b.version }

// LineCount returns the number of logical lines (always >= 1).
func (b *Buffer) LineCount() int { return len(b.lines) }

// Line returns the grapheme clusters of row. The slice must not be modified.
func (b *Buffer) Line(row int) []string {
	if row < 0 || row >= len(b.lines) {
		return nil
	}
	return b.lines[row]
}

// LineText returns row as a string.
func (b *Buffer) LineText(row int) string {
	return grapheme.Join(b.Line(row))
}

// LineLen returns the grapheme length of row.
func (b *Buffer) LineLen(row int) int {
	return b.lineLen(row)
}

// EndPos returns the position after the last grapheme of the document.
func (b *Buffer) EndPos() Pos {
	last := len(b.lines) - 1
	return Pos{Row: last, GraphemeCol: len(b.lines[last])}
}

// ClampPos clamps p into the current document bounds.
func (b *Buffer) ClampPos(p Pos) Pos {
	return b.clampPos(p)
}

// TextInRange returns the text covered by r after clamping.
func (b *Buffer) TextInRange(r Range) string {
	r = NormalizeRange(ClampRange(r, len(b.lines), b.lineLen))
	return textForLinesRange(b.lines, r)
}

// Subscribe registers fn for every effective change, local or remote.
// The returned function unregisters fn.
func (b *Buffer) Subscribe(fn func(Change)) func() {
	return b.changes.On(fn)
}

// SubscribeSync registers fn for every effective change. Sync observers
// run before every Subscribe observer, in registration order among
// themselves. Bindings that relay the text elsewhere use it so the edit
// leaves before the cursor moves it caused.
func (b *Buffer) SubscribeSync(fn func(Change)) func() {
	return b.syncChanges.On(fn)
}

// OnDidChangePath registers fn for path changes.
func (b *Buffer) OnDidChangePath(fn func(string)) func() {
	return b.pathChanges.On(fn)
}

func (b *Buffer) lineLen(row int) int {
	if row < 0 || row >= len(b.lines) {
		return 0
	}
	return len(b.lines[row])
}

func (b *Buffer) clampPos(p Pos) Pos {
	return ClampPos(p, len(b.lines), b.lineLen)
}

func splitLines(text string) [][]string {
	parts := strings.Split(text, "\n")
	lines := make([][]string, 0, len(parts))
	for _, s := range parts {
		lines = append(lines, grapheme.Split(s))
	}
	if len(lines) == 0 {
		lines = append(lines, nil)
	}
	return lines
}
