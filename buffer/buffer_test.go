package buffer

import (
	"strings"
	"testing"
)

func TestBuffer_New_Defaults(t *testing.T) {
	b := New("ab\ncd", Options{Path: "/tmp/a.txt"})

	if b.ID() == "" {
		t.Fatalf("expected non-empty buffer id")
	}
	if other := New("", Options{}); other.ID() == b.ID() {
		t.Fatalf("expected unique buffer ids")
	}
	if got, want := b.Path(), "/tmp/a.txt"; got != want {
		t.Fatalf("path=%q, want %q", got, want)
	}
	if got, want := b.LineCount(), 2; got != want {
		t.Fatalf("line count=%d, want %d", got, want)
	}
	if got, want := b.LineText(1), "cd"; got != want {
		t.Fatalf("line 1=%q, want %q", got, want)
	}
	if got, want := b.EndPos(), (Pos{Row: 1, GraphemeCol: 2}); got != want {
		t.Fatalf("end=%v, want %v", got, want)
	}
	if got := b.Version(); got != 0 {
		t.Fatalf("version=%d, want 0", got)
	}
}

func TestBuffer_TextInRange_Clamps(t *testing.T) {
	b := New("hello\nworld", Options{})

	got := b.TextInRange(Range{Start: Pos{Row: 0, GraphemeCol: 3}, End: Pos{Row: 1, GraphemeCol: 2}})
	if want := "lo\nwo"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}

	got = b.TextInRange(Range{Start: Pos{Row: 1, GraphemeCol: 99}, End: Pos{Row: 1, GraphemeCol: 3}})
	if want := "ld"; got != want {
		t.Fatalf("reversed clamped text=%q, want %q", got, want)
	}
}

func TestBuffer_SetPath_NotifiesOnlyOnChange(t *testing.T) {
	b := New("", Options{})
	var got []string
	cancel := b.OnDidChangePath(func(p string) { got = append(got, p) })

	b.SetPath("a.go")
	b.SetPath("a.go")
	b.SetPath("b.go")
	cancel()
	b.SetPath("c.go")

	if len(got) != 2 || got[0] != "a.go" || got[1] != "b.go" {
		t.Fatalf("path events=%v, want [a.go b.go]", got)
	}
}

func TestBuffer_Subscribe_ReceivesLocalAndRemote(t *testing.T) {
	b := New("ab", Options{})
	var sources []ChangeSource
	cancel := b.Subscribe(func(ch Change) { sources = append(sources, ch.Source) })

	b.Apply(TextEdit{Range: Range{Start: Pos{Row: 0, GraphemeCol: 2}, End: Pos{Row: 0, GraphemeCol: 2}}, Text: "c"})
	b.ApplyRemote([]RemoteEdit{{Text: "x"}})
	b.Apply(TextEdit{Text: ""}) // no-op
	cancel()
	b.Apply(TextEdit{Text: "z"})

	if len(sources) != 2 || sources[0] != ChangeSourceLocal || sources[1] != ChangeSourceRemote {
		t.Fatalf("sources=%v, want [local remote]", sources)
	}
}

func TestBuffer_SubscribeSync_RunsBeforeSubscribe(t *testing.T) {
	b := New("ab", Options{})
	var order []string
	b.Subscribe(func(Change) { order = append(order, "view") })
	cancel := b.SubscribeSync(func(Change) { order = append(order, "sync") })

	b.Apply(TextEdit{Range: Range{Start: pos(0, 2), End: pos(0, 2)}, Text: "c"})
	b.ApplyRemote([]RemoteEdit{{Text: "x"}})
	cancel()
	b.Apply(TextEdit{Text: "y"})

	if got, want := strings.Join(order, ","), "sync,view,sync,view,view"; got != want {
		t.Fatalf("order=%s, want %s", got, want)
	}
}

func TestBuffer_Reload_MinimalEdit(t *testing.T) {
	b := New("alpha\nbeta\ngamma", Options{})

	ch, ok := b.Reload("alpha\nBETA\ngamma")
	if !ok {
		t.Fatalf("expected reload to change text")
	}
	if got, want := b.Text(), "alpha\nBETA\ngamma"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := ch.Kind, ChangeKindReload; got != want {
		t.Fatalf("kind=%v, want %v", got, want)
	}
	if got, want := len(ch.AppliedEdits), 1; got != want {
		t.Fatalf("applied edits=%d, want %d", got, want)
	}
	e := ch.AppliedEdits[0]
	if got, want := e.RangeBefore, (Range{Start: Pos{Row: 1, GraphemeCol: 0}, End: Pos{Row: 1, GraphemeCol: 4}}); got != want {
		t.Fatalf("range=%v, want %v", got, want)
	}
	if e.DeletedText != "beta" || e.InsertText != "BETA" {
		t.Fatalf("edit=%#v, want beta -> BETA", e)
	}

	if _, ok := b.Reload("alpha\nBETA\ngamma"); ok {
		t.Fatalf("expected identical reload to be a no-op")
	}

	if !b.Undo() {
		t.Fatalf("expected reload to be undoable")
	}
	if got, want := b.Text(), "alpha\nbeta\ngamma"; got != want {
		t.Fatalf("text after undo=%q, want %q", got, want)
	}
}

func TestBuffer_Reload_LineCountChange(t *testing.T) {
	b := New("a\nb", Options{})
	if _, ok := b.Reload("a\nx\ny\nb"); !ok {
		t.Fatalf("expected change")
	}
	if got, want := b.Text(), "a\nx\ny\nb"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if _, ok := b.Reload(""); !ok {
		t.Fatalf("expected change")
	}
	if got, want := b.Text(), ""; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
}
