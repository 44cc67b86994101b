package binding

import (
	"testing"

	"github.com/iw2rmb/tandem/buffer"
	"github.com/iw2rmb/tandem/internal/logging"
	"github.com/iw2rmb/tandem/replica"
)

func newHostBinding(text string) (*buffer.Buffer, *BufferBinding, *fakeBufferProxy) {
	buf := buffer.New(text, buffer.Options{})
	bb := NewBufferBinding(buf, BufferBindingOptions{IsHost: true, Logger: logging.Discard()})
	proxy := &fakeBufferProxy{id: "b1", uri: "proj/a.txt", text: text}
	bb.SetBufferProxy(proxy)
	return buf, bb, proxy
}

func TestBufferBinding_ForwardsEachAppliedEditInOrder(t *testing.T) {
	buf, _, proxy := newHostBinding("abc")

	buf.Apply(
		buffer.TextEdit{Range: rng(pos(0, 0), pos(0, 0)), Text: "X"},
		buffer.TextEdit{Range: rng(pos(0, 3), pos(0, 4)), Text: ""},
	)

	want := []setTextCall{
		{Range: rng(pos(0, 0), pos(0, 0)), Text: "X"},
		{Range: rng(pos(0, 3), pos(0, 4)), Text: ""},
	}
	if len(proxy.calls) != len(want) {
		t.Fatalf("calls: got %+v, want %+v", proxy.calls, want)
	}
	for i := range want {
		if proxy.calls[i] != want[i] {
			t.Fatalf("call %d: got %+v, want %+v", i, proxy.calls[i], want[i])
		}
	}
}

func TestBufferBinding_ForwardsUndoRedoAndReload(t *testing.T) {
	buf, _, proxy := newHostBinding("")

	insert(buf, pos(0, 0), "hi")
	buf.Undo()
	buf.Redo()
	buf.Reload("hey")

	want := []setTextCall{
		{Range: rng(pos(0, 0), pos(0, 0)), Text: "hi"},
		{Range: rng(pos(0, 0), pos(0, 2)), Text: ""},
		{Range: rng(pos(0, 0), pos(0, 0)), Text: "hi"},
		{Range: rng(pos(0, 1), pos(0, 2)), Text: "ey"},
	}
	if len(proxy.calls) != len(want) {
		t.Fatalf("calls: got %+v, want %+v", proxy.calls, want)
	}
	for i := range want {
		if proxy.calls[i] != want[i] {
			t.Fatalf("call %d: got %+v, want %+v", i, proxy.calls[i], want[i])
		}
	}
}

func TestBufferBinding_RemoteUpdatesAreNotEchoed(t *testing.T) {
	buf, bb, proxy := newHostBinding("world")

	bb.UpdateText([]replica.TextUpdate{
		{Range: rng(pos(0, 0), pos(0, 0)), Text: "hello "},
		{Range: rng(pos(0, 11), pos(0, 11)), Text: "!"},
	})

	if got, want := buf.Text(), "hello world!"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
	if len(proxy.calls) != 0 {
		t.Fatalf("echoed calls: got %+v, want none", proxy.calls)
	}
	if buf.CanUndo() {
		t.Fatalf("remote update entered undo history")
	}

	insert(buf, pos(0, 0), ">")
	if len(proxy.calls) != 1 {
		t.Fatalf("local edit after remote: got %d calls, want 1", len(proxy.calls))
	}
}

func TestBufferBinding_QueuesRemoteUpdatesWhileForwarding(t *testing.T) {
	buf, bb, proxy := newHostBinding("abc")
	proxy.onSetText = func() {
		proxy.onSetText = nil
		bb.UpdateText([]replica.TextUpdate{{Range: rng(pos(0, 4), pos(0, 4)), Text: "!", OpID: "2:1"}})
		if got, want := buf.Text(), "Xabc"; got != want {
			t.Fatalf("text while forwarding: got %q, want %q", got, want)
		}
	}

	insert(buf, pos(0, 0), "X")

	if got, want := buf.Text(), "Xabc!"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
	if len(proxy.calls) != 1 {
		t.Fatalf("calls: got %+v, want only the local insert", proxy.calls)
	}
	if got, want := bb.LastAppliedOpID(), "2:1"; got != want {
		t.Fatalf("last op id: got %q, want %q", got, want)
	}
	if !buf.Undo() {
		t.Fatalf("undo: got false, want true")
	}
	if got, want := buf.Text(), "abc!"; got != want {
		t.Fatalf("text after undo: got %q, want %q", got, want)
	}
}

func TestBufferBinding_RecordsLastAppliedOpID(t *testing.T) {
	_, bb, _ := newHostBinding("ab")

	bb.UpdateText([]replica.TextUpdate{
		{Range: rng(pos(0, 2), pos(0, 2)), Text: "c", OpID: "2:4"},
		{Range: rng(pos(0, 0), pos(0, 1)), Text: "a", OpID: "2:5"},
	})
	if got, want := bb.LastAppliedOpID(), "2:4"; got != want {
		t.Fatalf("last op id: got %q, want %q", got, want)
	}

	bb.UpdateText([]replica.TextUpdate{{Range: rng(pos(0, 0), pos(0, 0)), Text: "z"}})
	if got, want := bb.LastAppliedOpID(), "2:4"; got != want {
		t.Fatalf("last op id after update without id: got %q, want %q", got, want)
	}
}

func TestBufferBinding_ForwardsBeforeViewsObserve(t *testing.T) {
	buf := buffer.New("ab", buffer.Options{})
	var order []string
	buf.Subscribe(func(buffer.Change) { order = append(order, "view") })

	bb := NewBufferBinding(buf, BufferBindingOptions{IsHost: true, Logger: logging.Discard()})
	proxy := &fakeBufferProxy{id: "b1", text: "ab"}
	proxy.onSetText = func() { order = append(order, "proxy") }
	bb.SetBufferProxy(proxy)

	insert(buf, pos(0, 1), "x")

	if len(order) != 2 || order[0] != "proxy" || order[1] != "view" {
		t.Fatalf("order: got %v, want [proxy view]", order)
	}
}

func TestBufferBinding_GuestAttachAdoptsProxyText(t *testing.T) {
	buf := buffer.New("", buffer.Options{})
	bb := NewBufferBinding(buf, BufferBindingOptions{Logger: logging.Discard()})
	proxy := &fakeBufferProxy{id: "b1", uri: "proj/a.txt", text: "shared\ntext"}

	bb.SetBufferProxy(proxy)

	if got, want := buf.Text(), "shared\ntext"; got != want {
		t.Fatalf("text: got %q, want %q", got, want)
	}
	if buf.CanUndo() {
		t.Fatalf("initial sync entered undo history")
	}
	if len(proxy.calls) != 0 {
		t.Fatalf("initial sync forwarded: %+v", proxy.calls)
	}
	if proxy.delegate != bb {
		t.Fatalf("proxy delegate not set to binding")
	}
	if got, want := bb.URI(), "proj/a.txt"; got != want {
		t.Fatalf("URI: got %q, want %q", got, want)
	}
}

func TestBufferBinding_DetachKeepsHistoryAndStopsRelaying(t *testing.T) {
	buf, bb, proxy := newHostBinding("")
	insert(buf, pos(0, 0), "a")
	bb.UpdateText([]replica.TextUpdate{{Range: rng(pos(0, 1), pos(0, 1)), Text: "b"}})
	insert(buf, pos(0, 2), "c")

	disposed := 0
	bb.OnDidDispose(func() { disposed++ })

	bb.Detach()
	bb.Dispose()
	if disposed != 1 {
		t.Fatalf("dispose callbacks: got %d, want 1", disposed)
	}
	if bb.IsAttached() {
		t.Fatalf("IsAttached after detach: got true")
	}
	if proxy.delegate != nil {
		t.Fatalf("proxy delegate still set after detach")
	}

	calls := len(proxy.calls)
	insert(buf, pos(0, 3), "d")
	if len(proxy.calls) != calls {
		t.Fatalf("edit after detach forwarded")
	}
	bb.UpdateText([]replica.TextUpdate{{Range: rng(pos(0, 0), pos(0, 0)), Text: "zz"}})
	if got, want := buf.Text(), "abcd"; got != want {
		t.Fatalf("text after detached update: got %q, want %q", got, want)
	}

	buf.Undo()
	buf.Undo()
	if got, want := buf.Text(), "ab"; got != want {
		t.Fatalf("text after two undos: got %q, want %q", got, want)
	}
	buf.Undo()
	if got, want := buf.Text(), "b"; got != want {
		t.Fatalf("text after three undos: got %q, want %q", got, want)
	}
}

func TestBufferBinding_DidChangeURI(t *testing.T) {
	_, bb, _ := newHostBinding("")
	var got []string
	bb.OnDidChangeURI(func(uri string) { got = append(got, uri) })

	bb.DidChangeURI("proj/b.txt")
	bb.DidChangeURI("proj/b.txt")
	if len(got) != 1 || got[0] != "proj/b.txt" || bb.URI() != "proj/b.txt" {
		t.Fatalf("uri events: got %v, uri %q", got, bb.URI())
	}
}
