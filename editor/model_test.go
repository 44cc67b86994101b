package editor

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/tandem/buffer"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

func stripANSI(s string) string { return ansiRE.ReplaceAllString(s, "") }

func pos(row, col int) buffer.Pos { return buffer.Pos{Row: row, GraphemeCol: col} }

func TestModel_SetSizeAffectsViewHeight(t *testing.T) {
	m := New(Config{Text: "a\nb\nc"})
	m.Blur()

	m.SetSize(20, 2)
	if got := lipgloss.Height(m.View()); got != 2 {
		t.Fatalf("height after SetSize(20,2): got %d, want %d", got, 2)
	}

	m.SetSize(20, 4)
	if got := lipgloss.Height(m.View()); got != 4 {
		t.Fatalf("height after SetSize(20,4): got %d, want %d", got, 4)
	}
}

func TestView_SnapshotFixedSize(t *testing.T) {
	m := New(Config{
		Text:         "one\ntwo\nthree\nfour\nfive",
		ShowLineNums: true,
	})
	m.Blur()
	m.SetSize(8, 3)

	got := strings.Split(m.View(), "\n")
	if len(got) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(got))
	}
	for i := range got {
		got[i] = strings.TrimRight(stripANSI(got[i]), " ")
	}

	want := []string{
		"1 one",
		"2 two",
		"3 three",
	}
	if fmt.Sprintf("%q", got) != fmt.Sprintf("%q", want) {
		t.Fatalf("unexpected view:\n got: %q\nwant: %q", got, want)
	}
}

func TestModel_Title(t *testing.T) {
	m := New(Config{Text: ""})
	if got, want := m.Title(), "untitled"; got != want {
		t.Fatalf("title: got %q, want %q", got, want)
	}

	m.Buffer().SetPath("/work/proj/main.go")
	if got, want := m.Title(), "main.go"; got != want {
		t.Fatalf("title from path: got %q, want %q", got, want)
	}

	m.SetTitle("@alice: proj/main.go")
	if got, want := m.Title(), "@alice: proj/main.go"; got != want {
		t.Fatalf("explicit title: got %q, want %q", got, want)
	}
}

func TestModel_ViewsShareBufferWithIndependentCursors(t *testing.T) {
	buf := buffer.New("hello world", buffer.Options{})
	a := New(Config{Buffer: buf})
	b := New(Config{Buffer: buf})

	a.SetCursor(pos(0, 5))
	b.SetCursor(pos(0, 11))

	a.InsertText(",")
	if got, want := buf.Text(), "hello, world"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
	if got, want := a.Cursor(), pos(0, 6); got != want {
		t.Fatalf("view a cursor: got %v, want %v", got, want)
	}
	if got, want := b.Cursor(), pos(0, 12); got != want {
		t.Fatalf("view b cursor: got %v, want %v", got, want)
	}
}

func TestModel_RemoteEditRemapsCursorAndSelection(t *testing.T) {
	buf := buffer.New("abc\ndef", buffer.Options{})
	m := New(Config{Buffer: buf})
	m.SetSelection(buffer.Range{Start: pos(1, 0), End: pos(1, 2)})

	var events []SelectionEvent
	m.OnDidChangeSelection(func(ev SelectionEvent) { events = append(events, ev) })

	_, ok := buf.ApplyRemote([]buffer.RemoteEdit{{
		Range: buffer.Range{Start: pos(0, 0), End: pos(0, 0)},
		Text:  "xx\n",
	}})
	if !ok {
		t.Fatalf("ApplyRemote: expected change")
	}

	r, ok := m.Selection()
	if !ok {
		t.Fatalf("selection lost after remote edit")
	}
	if got, want := r, (buffer.Range{Start: pos(2, 0), End: pos(2, 2)}); got != want {
		t.Fatalf("selection: got %v, want %v", got, want)
	}
	if len(events) != 1 || !events[0].TextChanged {
		t.Fatalf("selection events: got %+v, want one text-changed event", events)
	}
}

func TestModel_DestroyIsIdempotentAndStopsTracking(t *testing.T) {
	buf := buffer.New("ab", buffer.Options{})
	m := New(Config{Buffer: buf})
	m.SetCursor(pos(0, 2))

	destroyed := 0
	m.OnDidDestroy(func() { destroyed++ })

	m.Destroy()
	m.Destroy()
	if destroyed != 1 {
		t.Fatalf("destroy callbacks: got %d, want %d", destroyed, 1)
	}
	if !m.IsDestroyed() {
		t.Fatalf("IsDestroyed: got false, want true")
	}

	insertAt := buffer.TextEdit{Range: buffer.Range{Start: pos(0, 0), End: pos(0, 0)}, Text: "zz"}
	buf.Apply(insertAt)
	if got, want := m.Cursor(), pos(0, 2); got != want {
		t.Fatalf("cursor after destroy: got %v, want %v", got, want)
	}
	if m.InsertText("x") {
		t.Fatalf("InsertText after destroy: got true, want false")
	}
	if got, want := buf.Text(), "zzab"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
}

func TestModel_UndoPlacesCursorAtRestoredText(t *testing.T) {
	m := New(Config{Text: "ab"})
	m.SetCursor(pos(0, 2))
	m.InsertText("cd")
	m.SetCursor(pos(0, 0))

	if !m.Undo() {
		t.Fatalf("Undo: got false, want true")
	}
	if got, want := m.Buffer().Text(), "ab"; got != want {
		t.Fatalf("text after undo: got %q, want %q", got, want)
	}
	if got, want := m.Cursor(), pos(0, 2); got != want {
		t.Fatalf("cursor after undo: got %v, want %v", got, want)
	}

	if !m.Redo() {
		t.Fatalf("Redo: got false, want true")
	}
	if got, want := m.Cursor(), pos(0, 4); got != want {
		t.Fatalf("cursor after redo: got %v, want %v", got, want)
	}
}
