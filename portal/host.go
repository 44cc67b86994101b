package portal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iw2rmb/tandem/binding"
	"github.com/iw2rmb/tandem/buffer"
	"github.com/iw2rmb/tandem/editor"
	"github.com/iw2rmb/tandem/internal/emitter"
	"github.com/iw2rmb/tandem/internal/logging"
	"github.com/iw2rmb/tandem/replica"
	"github.com/iw2rmb/tandem/workspace"
)

type HostOptions struct {
	Client    replica.Client
	Workspace *workspace.Workspace
	Notifier  Notifier
	// IsGuestItem reports items that show content of a joined portal. Such
	// items are never shared.
	IsGuestItem func(workspace.Item) bool
	Logger      *slog.Logger
}

type hostBufferEntry struct {
	binding        *binding.BufferBinding
	views          int
	unsubscribeURI func()
}

type hostEditorEntry struct {
	binding            *binding.EditorBinding
	unsubscribeDestroy func()
}

// HostPortalBinding shares the workspace's active editor through a portal.
type HostPortalBinding struct {
	client      replica.Client
	ws          *workspace.Workspace
	notifier    Notifier
	isGuestItem func(workspace.Item) bool
	logger      *slog.Logger

	portal replica.Portal

	buffers map[*buffer.Buffer]*hostBufferEntry
	editors map[*editor.Model]*hostEditorEntry

	unsubscribeActive func()
	disposed          bool
	changes           emitter.Emitter[struct{}]
	disposeEvents     emitter.Emitter[struct{}]
}

var _ replica.PortalDelegate = (*HostPortalBinding)(nil)

func NewHostPortalBinding(opt HostOptions) *HostPortalBinding {
	logger := logging.OrDefault(opt.Logger)
	return &HostPortalBinding{
		client:      opt.Client,
		ws:          opt.Workspace,
		notifier:    notifierOrLog(opt.Notifier, logger),
		isGuestItem: opt.IsGuestItem,
		buffers:     make(map[*buffer.Buffer]*hostBufferEntry),
		editors:     make(map[*editor.Model]*hostEditorEntry),
		logger:      logger.With(slog.String("component", "host-portal-binding")),
	}
}

// Initialize creates the portal and starts sharing the active item.
func (h *HostPortalBinding) Initialize(ctx context.Context) bool {
	p, err := h.client.CreatePortal(ctx)
	if err != nil {
		h.logger.Error("create portal failed", slog.Any("error", err))
		h.notifier.Notify(Notification{
			Level:       LevelError,
			Message:     "Failed to share your editor",
			Description: fmt.Sprintf("Attempting to create a portal failed with error: %s", err.Error()),
			Dismissable: true,
		})
		return false
	}

	h.portal = p
	h.logger = h.logger.With(slog.String("portalID", p.ID()))
	p.SetDelegate(h)
	h.unsubscribeActive = h.ws.OnDidChangeActivePaneItem(h.didChangeActivePaneItem)
	h.didChangeActivePaneItem(h.ws.ActiveItem())
	h.logger.Info("portal shared")
	h.changes.Emit(struct{}{})
	return true
}

func (h *HostPortalBinding) didChangeActivePaneItem(item workspace.Item) {
	if h.disposed || h.portal == nil {
		return
	}
	var ep replica.EditorProxy
	if view, ok := item.(*editor.Model); ok && !view.IsDestroyed() && !h.guestItem(item) {
		ep = h.findOrCreateEditorProxy(view)
	}
	h.portal.SetActiveEditorProxy(ep)
	h.changes.Emit(struct{}{})
}

func (h *HostPortalBinding) guestItem(item workspace.Item) bool {
	return h.isGuestItem != nil && h.isGuestItem(item)
}

func (h *HostPortalBinding) findOrCreateEditorProxy(view *editor.Model) replica.EditorProxy {
	if e, ok := h.editors[view]; ok {
		return e.binding.EditorProxy()
	}
	be := h.findOrCreateBufferEntry(view.Buffer())
	if be == nil {
		return nil
	}
	ep := h.portal.CreateEditorProxy(be.binding.BufferProxy())
	if ep == nil {
		return nil
	}

	eb := binding.NewEditorBinding(view, be.binding, binding.EditorBindingOptions{
		IsHost:    true,
		SiteLabel: h.siteLabel,
		Logger:    h.logger,
	})
	eb.SetEditorProxy(ep)
	be.views++
	h.editors[view] = &hostEditorEntry{
		binding:            eb,
		unsubscribeDestroy: view.OnDidDestroy(func() { h.viewDidDestroy(view) }),
	}
	return ep
}

func (h *HostPortalBinding) findOrCreateBufferEntry(buf *buffer.Buffer) *hostBufferEntry {
	if be, ok := h.buffers[buf]; ok {
		return be
	}
	bp := h.portal.CreateBufferProxy(BufferURI(h.ws.ProjectRoots(), buf.Path()), buf.Text())
	if bp == nil {
		return nil
	}
	bb := binding.NewBufferBinding(buf, binding.BufferBindingOptions{IsHost: true, Logger: h.logger})
	bb.SetBufferProxy(bp)

	be := &hostBufferEntry{binding: bb}
	be.unsubscribeURI = buf.OnDidChangePath(func(path string) {
		bp.SetURI(BufferURI(h.ws.ProjectRoots(), path))
	})
	h.buffers[buf] = be
	return be
}

// viewDidDestroy stops sharing a closed view. The last view of a buffer
// takes the buffer's proxy with it.
func (h *HostPortalBinding) viewDidDestroy(view *editor.Model) {
	e, ok := h.editors[view]
	if !ok {
		return
	}
	delete(h.editors, view)
	e.unsubscribeDestroy()
	defer h.changes.Emit(struct{}{})

	ep := e.binding.EditorProxy()
	e.binding.Dispose()
	ep.Dispose()

	buf := view.Buffer()
	be, ok := h.buffers[buf]
	if !ok {
		return
	}
	be.views--
	if be.views > 0 {
		return
	}
	delete(h.buffers, buf)
	be.unsubscribeURI()
	bp := be.binding.BufferProxy()
	be.binding.Dispose()
	bp.Dispose()
}

func (h *HostPortalBinding) siteLabel(site replica.SiteID) string {
	if id, ok := h.portal.SiteIdentity(site); ok {
		return "@" + id.Login
	}
	return ""
}

func (h *HostPortalBinding) SiteDidJoin(site replica.SiteID) {
	h.logger.Info("site joined", slog.Int("siteID", int(site)))
	h.notifier.Notify(Notification{
		Level:       LevelInfo,
		Message:     h.siteLabel(site) + " has joined your portal",
		Dismissable: true,
	})
	h.changes.Emit(struct{}{})
}

func (h *HostPortalBinding) SiteDidLeave(site replica.SiteID) {
	h.logger.Info("site left", slog.Int("siteID", int(site)))
	h.notifier.Notify(Notification{
		Level:       LevelInfo,
		Message:     h.siteLabel(site) + " has left your portal",
		Dismissable: true,
	})
	h.changes.Emit(struct{}{})
}

// SetActiveEditorProxy is only meaningful on guests.
func (h *HostPortalBinding) SetActiveEditorProxy(replica.EditorProxy) {}

func (h *HostPortalBinding) HostDidClosePortal() { h.Dispose() }

func (h *HostPortalBinding) HostDidLoseConnection() {
	if h.disposed {
		return
	}
	h.notifier.Notify(Notification{
		Level:       LevelWarning,
		Message:     "Portal closed",
		Description: "We lost the connection to the portal. Your guests can no longer see your editor.",
		Dismissable: true,
	})
	h.Dispose()
}

// Close stops sharing and closes the portal for every guest.
func (h *HostPortalBinding) Close() {
	if h.disposed {
		return
	}
	h.logger.Info("closing portal")
	if h.portal != nil {
		h.portal.Dispose()
	}
	h.Dispose()
}

// Dispose stops sharing. Local views and buffers are left untouched.
func (h *HostPortalBinding) Dispose() {
	if h.disposed {
		return
	}
	h.disposed = true
	if h.unsubscribeActive != nil {
		h.unsubscribeActive()
		h.unsubscribeActive = nil
	}
	for view, e := range h.editors {
		e.unsubscribeDestroy()
		e.binding.Dispose()
		delete(h.editors, view)
	}
	for buf, be := range h.buffers {
		be.unsubscribeURI()
		be.binding.Detach()
		delete(h.buffers, buf)
	}
	if h.portal != nil {
		h.portal.SetDelegate(nil)
		if !h.portal.IsDisposed() {
			h.portal.Dispose()
		}
	}
	h.logger.Debug("host portal binding disposed")

	h.changes.Emit(struct{}{})
	h.changes.Clear()
	h.disposeEvents.Emit(struct{}{})
	h.disposeEvents.Clear()
}

func (h *HostPortalBinding) IsDisposed() bool { return h.disposed }

// PortalID returns the id guests join with, or "" before Initialize.
func (h *HostPortalBinding) PortalID() string {
	if h.portal == nil {
		return ""
	}
	return h.portal.ID()
}

func (h *HostPortalBinding) Portal() replica.Portal { return h.portal }

// SharedEditorBinding returns the binding of view, if it is shared.
func (h *HostPortalBinding) SharedEditorBinding(view *editor.Model) (*binding.EditorBinding, bool) {
	e, ok := h.editors[view]
	if !ok {
		return nil, false
	}
	return e.binding, true
}

func (h *HostPortalBinding) OnDidChange(fn func()) func() {
	return h.changes.On(func(struct{}) { fn() })
}

func (h *HostPortalBinding) OnDidDispose(fn func()) func() {
	if h.disposed {
		return func() {}
	}
	return h.disposeEvents.On(func(struct{}) { fn() })
}
