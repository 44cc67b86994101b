package binding

import (
	"context"
	"testing"

	"github.com/iw2rmb/tandem/buffer"
	"github.com/iw2rmb/tandem/internal/logging"
	"github.com/iw2rmb/tandem/replica"
	"github.com/iw2rmb/tandem/replica/memory"
)

type site struct {
	buf *buffer.Buffer
	bb  *BufferBinding
}

// connect shares a host buffer holding text with one guest over the memory
// engine.
func connect(t *testing.T, text string) (host, guest site, hostPortal, guestPortal replica.Portal) {
	t.Helper()
	net := memory.NewNetwork(logging.Discard())
	hp, err := net.NewClient("host", memory.ClientOptions{}).CreatePortal(context.Background())
	if err != nil {
		t.Fatalf("CreatePortal: %v", err)
	}

	host.buf = buffer.New(text, buffer.Options{})
	host.bb = NewBufferBinding(host.buf, BufferBindingOptions{IsHost: true, Logger: logging.Discard()})
	bp := hp.CreateBufferProxy("a.txt", text)
	host.bb.SetBufferProxy(bp)
	hp.SetActiveEditorProxy(hp.CreateEditorProxy(bp))

	gp, err := net.NewClient("guest", memory.ClientOptions{}).JoinPortal(context.Background(), hp.ID())
	if err != nil || gp == nil {
		t.Fatalf("JoinPortal: %v", err)
	}
	guest.buf = buffer.New("", buffer.Options{})
	guest.bb = NewBufferBinding(guest.buf, BufferBindingOptions{Logger: logging.Discard()})
	guest.bb.SetBufferProxy(gp.ActiveEditorProxy().BufferProxy())
	return host, guest, hp, gp
}

func assertConverged(t *testing.T, host, guest site, want string) {
	t.Helper()
	if got := host.buf.Text(); got != want {
		t.Fatalf("host text: got %q, want %q", got, want)
	}
	if got := guest.buf.Text(); got != want {
		t.Fatalf("guest text: got %q, want %q", got, want)
	}
}

func TestBindings_ConvergeAndKeepUndoLocal(t *testing.T) {
	host, guest, _, _ := connect(t, "")

	insert(host.buf, host.buf.EndPos(), "h1 ")
	insert(guest.buf, guest.buf.EndPos(), "g1 ")
	insert(host.buf, host.buf.EndPos(), "h2 ")
	insert(guest.buf, guest.buf.EndPos(), "g2")
	insert(guest.buf, pos(0, 3), "g3")
	assertConverged(t, host, guest, "h1 g3g1 h2 g2")

	host.buf.Undo()
	assertConverged(t, host, guest, "h1 g3g1 g2")

	host.buf.Undo()
	assertConverged(t, host, guest, "g3g1 g2")

	guest.buf.Undo()
	assertConverged(t, host, guest, "g1 g2")

	host.buf.Redo()
	assertConverged(t, host, guest, "h1 g1 g2")
}

func TestBindings_HistorySurvivesPortalClose(t *testing.T) {
	host, guest, hp, _ := connect(t, "")

	insert(host.buf, host.buf.EndPos(), "a")
	insert(guest.buf, guest.buf.EndPos(), "b")
	insert(host.buf, host.buf.EndPos(), "c")

	hp.Dispose()
	if host.bb.IsAttached() || guest.bb.IsAttached() {
		t.Fatalf("bindings still attached after close")
	}

	insert(guest.buf, guest.buf.EndPos(), "x")
	if got, want := host.buf.Text(), "abc"; got != want {
		t.Fatalf("host text after close: got %q, want %q", got, want)
	}

	host.buf.Undo()
	host.buf.Undo()
	if got, want := host.buf.Text(), "b"; got != want {
		t.Fatalf("host text after undos: got %q, want %q", got, want)
	}
	guest.buf.Undo()
	guest.buf.Undo()
	if got, want := guest.buf.Text(), "ac"; got != want {
		t.Fatalf("guest text after undos: got %q, want %q", got, want)
	}
}
