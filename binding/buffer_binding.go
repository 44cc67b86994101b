package binding

import (
	"log/slog"

	"github.com/iw2rmb/tandem/buffer"
	"github.com/iw2rmb/tandem/internal/emitter"
	"github.com/iw2rmb/tandem/internal/logging"
	"github.com/iw2rmb/tandem/replica"
)

type BufferBindingOptions struct {
	IsHost bool
	Logger *slog.Logger
}

// BufferBinding mirrors a local buffer to a buffer proxy.
type BufferBinding struct {
	buf    *buffer.Buffer
	proxy  replica.BufferProxy
	isHost bool
	uri    string
	logger *slog.Logger

	guard guard

	// pending holds remote batches that arrived while a local change was
	// being forwarded. They are applied, in order, once it completes.
	pending     [][]buffer.RemoteEdit
	lastOpID    string
	unsubscribe func()
	disposed    bool

	disposeEvents emitter.Emitter[struct{}]
	uriChanges    emitter.Emitter[string]
}

var _ replica.BufferProxyDelegate = (*BufferBinding)(nil)

func NewBufferBinding(buf *buffer.Buffer, opt BufferBindingOptions) *BufferBinding {
	return &BufferBinding{
		buf:    buf,
		isHost: opt.IsHost,
		logger: logging.OrDefault(opt.Logger).With(
			slog.String("component", "buffer-binding"),
			slog.String("bufferID", buf.ID()),
		),
	}
}

func (b *BufferBinding) Buffer() *buffer.Buffer { return b.buf }

func (b *BufferBinding) BufferProxy() replica.BufferProxy { return b.proxy }

func (b *BufferBinding) IsHost() bool { return b.isHost }

// IsAttached reports whether the binding still relays changes.
func (b *BufferBinding) IsAttached() bool { return b.proxy != nil && !b.disposed }

// URI returns the proxy URI, following DidChangeURI updates.
func (b *BufferBinding) URI() string { return b.uri }

// LastAppliedOpID returns the engine id of the last remote operation that
// changed the buffer, or "" when the engine does not assign ids.
func (b *BufferBinding) LastAppliedOpID() string { return b.lastOpID }

func (b *BufferBinding) applyingRemote() bool { return b.guard.is(stateApplyingRemote) }

// SetBufferProxy attaches the binding. On a guest the buffer is first
// brought to the proxy text without touching its undo history.
func (b *BufferBinding) SetBufferProxy(proxy replica.BufferProxy) {
	if b.disposed || proxy == nil || b.proxy != nil {
		return
	}
	b.proxy = proxy
	b.uri = proxy.URI()
	b.logger = b.logger.With(slog.String("proxyID", string(proxy.ID())))

	if !b.isHost {
		if text := proxy.Text(); text != b.buf.Text() {
			b.applyRemote([]buffer.RemoteEdit{{
				Range: buffer.Range{End: b.buf.EndPos()},
				Text:  text,
			}})
		}
	}

	proxy.SetDelegate(b)
	b.unsubscribe = b.buf.SubscribeSync(b.bufferDidChange)
	b.logger.Debug("buffer binding attached", slog.Bool("host", b.isHost))
}

func (b *BufferBinding) bufferDidChange(ch buffer.Change) {
	if b.guard.is(stateApplyingRemote) {
		return
	}
	if !b.guard.enter(stateForwardingLocal) {
		b.logger.Error("nested local change while forwarding", slog.String("state", b.guard.state.String()))
		return
	}
	for _, e := range ch.AppliedEdits {
		b.proxy.SetTextInRange(e.RangeBefore, e.InsertText)
	}
	b.guard.exit()
	b.flushPending()
}

// UpdateText applies remote updates in delivery order.
func (b *BufferBinding) UpdateText(updates []replica.TextUpdate) {
	if b.disposed || len(updates) == 0 {
		return
	}
	edits := make([]buffer.RemoteEdit, 0, len(updates))
	for _, u := range updates {
		edits = append(edits, buffer.RemoteEdit{Range: u.Range, Text: u.Text, OpID: u.OpID})
	}
	b.applyRemote(edits)
}

func (b *BufferBinding) applyRemote(edits []buffer.RemoteEdit) {
	b.pending = append(b.pending, edits)
	if !b.guard.is(stateIdle) {
		b.logger.Debug("remote update queued", slog.String("state", b.guard.state.String()))
		return
	}
	b.flushPending()
}

func (b *BufferBinding) flushPending() {
	for len(b.pending) > 0 && !b.disposed && b.guard.enter(stateApplyingRemote) {
		edits := b.pending[0]
		b.pending = b.pending[1:]
		res, ok := b.buf.ApplyRemote(edits)
		b.guard.exit()
		if ok && len(res.AppliedOpIDs) > 0 {
			b.lastOpID = res.AppliedOpIDs[len(res.AppliedOpIDs)-1]
			b.logger.Debug("remote update applied", slog.Any("opIDs", res.AppliedOpIDs))
		}
	}
}

func (b *BufferBinding) DidChangeURI(uri string) {
	if b.disposed || uri == b.uri {
		return
	}
	b.uri = uri
	b.uriChanges.Emit(uri)
}

// OnDidChangeURI registers fn for URI changes announced by the proxy.
func (b *BufferBinding) OnDidChangeURI(fn func(string)) func() {
	return b.uriChanges.On(fn)
}

// OnDidDispose registers fn to run once when the binding is disposed.
func (b *BufferBinding) OnDidDispose(fn func()) func() {
	if b.disposed {
		return func() {}
	}
	return b.disposeEvents.On(func(struct{}) { fn() })
}

// Dispose is called when the proxy goes away.
func (b *BufferBinding) Dispose() { b.teardown("proxy disposed") }

// Detach stops relaying changes. The buffer keeps its text and history.
func (b *BufferBinding) Detach() { b.teardown("detached") }

func (b *BufferBinding) IsDisposed() bool { return b.disposed }

func (b *BufferBinding) teardown(reason string) {
	if b.disposed {
		return
	}
	b.disposed = true
	b.pending = nil
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	if b.proxy != nil {
		b.proxy.SetDelegate(nil)
	}
	b.logger.Debug("buffer binding disposed", slog.String("reason", reason))

	b.disposeEvents.Emit(struct{}{})
	b.disposeEvents.Clear()
	b.uriChanges.Clear()
}
