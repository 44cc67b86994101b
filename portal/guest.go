package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/iw2rmb/tandem/binding"
	"github.com/iw2rmb/tandem/buffer"
	"github.com/iw2rmb/tandem/editor"
	"github.com/iw2rmb/tandem/internal/emitter"
	"github.com/iw2rmb/tandem/internal/logging"
	"github.com/iw2rmb/tandem/replica"
	"github.com/iw2rmb/tandem/workspace"
)

type GuestOptions struct {
	Client    replica.Client
	PortalID  string
	Workspace *workspace.Workspace
	Notifier  Notifier

	// View is the template for guest editor views. Buffer, Text, Path and
	// Title are ignored.
	View             editor.Config
	FollowHostCursor bool
	// SettingsURL is linked from the "out of date" notification.
	SettingsURL string
	Logger      *slog.Logger
}

// GuestPortalBinding shows a joined portal in the local workspace.
type GuestPortalBinding struct {
	client      replica.Client
	portalID    string
	ws          *workspace.Workspace
	notifier    Notifier
	viewCfg     editor.Config
	follow      bool
	settingsURL string
	logger      *slog.Logger

	portal    replica.Portal
	hostLogin string

	editorBindings map[replica.ProxyID]*binding.EditorBinding
	bufferBindings map[replica.ProxyID]*binding.BufferBinding

	activeItem      workspace.Item
	activeBinding   *binding.EditorBinding
	emptyItem       *EmptyPaneItem
	unsubscribeItem func()

	disposed      bool
	changes       emitter.Emitter[struct{}]
	disposeEvents emitter.Emitter[struct{}]
}

var _ replica.PortalDelegate = (*GuestPortalBinding)(nil)

func NewGuestPortalBinding(opt GuestOptions) *GuestPortalBinding {
	logger := logging.OrDefault(opt.Logger)
	return &GuestPortalBinding{
		client:         opt.Client,
		portalID:       opt.PortalID,
		ws:             opt.Workspace,
		notifier:       notifierOrLog(opt.Notifier, logger),
		viewCfg:        opt.View,
		follow:         opt.FollowHostCursor,
		settingsURL:    opt.SettingsURL,
		editorBindings: make(map[replica.ProxyID]*binding.EditorBinding),
		bufferBindings: make(map[replica.ProxyID]*binding.BufferBinding),
		logger: logger.With(
			slog.String("component", "guest-portal-binding"),
			slog.String("portalID", opt.PortalID),
		),
	}
}

// Initialize joins the portal. On failure the user is notified and the
// binding stays unused.
func (g *GuestPortalBinding) Initialize(ctx context.Context) bool {
	p, err := g.client.JoinPortal(ctx, g.portalID)
	switch {
	case err == nil && p == nil, errors.Is(err, replica.ErrPortalNotFound):
		g.notifier.Notify(Notification{
			Level:       LevelError,
			Message:     "Portal not found",
			Description: fmt.Sprintf("No portal exists with ID %s. Please ask your host to provide you with their current portal ID.", g.portalID),
			Dismissable: true,
		})
		return false
	case errors.Is(err, replica.ErrClientOutOfDate):
		g.notifier.Notify(Notification{
			Level:       LevelError,
			Message:     "Your version of tandem is out of date",
			Description: "This portal was created by a newer client. Upgrade tandem to join it.",
			Dismissable: true,
			LinkURL:     g.settingsURL,
		})
		return false
	case err != nil:
		g.logger.Error("join portal failed", slog.Any("error", err))
		g.notifier.Notify(Notification{
			Level:       LevelError,
			Message:     "Failed to join portal",
			Description: fmt.Sprintf("Attempting to join portal %s failed with error: %s", g.portalID, err.Error()),
			Dismissable: true,
		})
		return false
	}

	g.portal = p
	g.logger = g.logger.With(slog.Int("siteID", int(p.SiteID())))
	if id, ok := p.SiteIdentity(replica.HostSiteID); ok {
		g.hostLogin = id.Login
	}
	g.logger.Info("joined portal", slog.String("host", g.hostLogin))
	p.SetDelegate(g)
	g.changes.Emit(struct{}{})
	return true
}

// SetActiveEditorProxy shows ep in the workspace, or the empty item when ep
// is nil.
func (g *GuestPortalBinding) SetActiveEditorProxy(ep replica.EditorProxy) {
	if g.disposed || g.portal == nil {
		return
	}
	if ep == nil {
		g.activeBinding = nil
		g.replaceActivePaneItem(g.emptyPaneItem())
		g.changes.Emit(struct{}{})
		return
	}

	eb := g.findOrCreateEditorBinding(ep)
	if eb == nil {
		g.activeBinding = nil
		g.replaceActivePaneItem(g.emptyPaneItem())
		g.changes.Emit(struct{}{})
		return
	}
	g.activeBinding = eb
	g.replaceActivePaneItem(eb.View())
	eb.AutoscrollToLastHostSelection()
	g.changes.Emit(struct{}{})
}

func (g *GuestPortalBinding) findOrCreateEditorBinding(ep replica.EditorProxy) *binding.EditorBinding {
	id := ep.ID()
	if eb, ok := g.editorBindings[id]; ok && !eb.IsDisposed() {
		return eb
	}
	bb := g.findOrCreateBufferBinding(ep.BufferProxy())
	if bb == nil {
		return nil
	}

	cfg := g.viewCfg
	cfg.Buffer = bb.Buffer()
	cfg.Text, cfg.Path = "", ""
	cfg.Title = RemoteTitle(g.hostLogin, bb.URI())
	view := editor.New(cfg)

	eb := binding.NewEditorBinding(view, bb, binding.EditorBindingOptions{
		SiteID:           g.portal.SiteID(),
		FollowHostCursor: g.follow,
		SiteLabel:        g.siteLabel,
		Logger:           g.logger,
	})
	eb.SetEditorProxy(ep)
	g.editorBindings[id] = eb

	unsubscribeURI := bb.OnDidChangeURI(func(uri string) { view.SetTitle(RemoteTitle(g.hostLogin, uri)) })
	eb.OnDidDispose(func() {
		unsubscribeURI()
		if g.editorBindings[id] == eb {
			delete(g.editorBindings, id)
		}
	})
	return eb
}

func (g *GuestPortalBinding) findOrCreateBufferBinding(bp replica.BufferProxy) *binding.BufferBinding {
	if bp == nil {
		return nil
	}
	id := bp.ID()
	if bb, ok := g.bufferBindings[id]; ok && !bb.IsDisposed() {
		return bb
	}

	buf := buffer.New("", buffer.Options{HistoryLimit: g.viewCfg.HistoryLimit, Path: RemotePath(bp.URI())})
	bb := binding.NewBufferBinding(buf, binding.BufferBindingOptions{Logger: g.logger})
	bb.SetBufferProxy(bp)
	if !bb.IsAttached() {
		return nil
	}
	g.bufferBindings[id] = bb

	unsubscribeURI := bb.OnDidChangeURI(func(uri string) { buf.SetPath(RemotePath(uri)) })
	bb.OnDidDispose(func() {
		unsubscribeURI()
		if g.bufferBindings[id] == bb {
			delete(g.bufferBindings, id)
		}
	})
	return bb
}

func (g *GuestPortalBinding) emptyPaneItem() *EmptyPaneItem {
	if g.emptyItem == nil || g.emptyItem.IsDestroyed() {
		g.emptyItem = newEmptyPaneItem(g.hostLogin)
	}
	return g.emptyItem
}

type destroyObservable interface {
	OnDidDestroy(func()) func()
}

// replaceActivePaneItem swaps item in where the previous portal item is
// shown, or opens it. Destroying the item leaves the portal.
func (g *GuestPortalBinding) replaceActivePaneItem(item workspace.Item) {
	if g.unsubscribeItem != nil {
		g.unsubscribeItem()
		g.unsubscribeItem = nil
	}

	prev := g.activeItem
	g.activeItem = item
	switch {
	case prev == item && g.ws.Contains(item):
	case prev != nil && g.ws.Contains(prev):
		g.ws.Replace(prev, item)
	default:
		g.ws.Open(item)
	}

	if d, ok := item.(destroyObservable); ok {
		g.unsubscribeItem = d.OnDidDestroy(g.Leave)
	}
}

func (g *GuestPortalBinding) siteLabel(site replica.SiteID) string {
	if g.portal == nil {
		return ""
	}
	if id, ok := g.portal.SiteIdentity(site); ok {
		return "@" + id.Login
	}
	return ""
}

func (g *GuestPortalBinding) SiteDidJoin(site replica.SiteID) {
	g.logger.Debug("site joined", slog.Int("remoteSiteID", int(site)))
	g.changes.Emit(struct{}{})
}

func (g *GuestPortalBinding) SiteDidLeave(site replica.SiteID) {
	g.logger.Debug("site left", slog.Int("remoteSiteID", int(site)))
	g.changes.Emit(struct{}{})
}

func (g *GuestPortalBinding) HostDidClosePortal() {
	if g.disposed {
		return
	}
	g.stopTracking()
	g.notifier.Notify(Notification{
		Level:       LevelInfo,
		Message:     "Portal closed",
		Description: fmt.Sprintf("@%s is no longer sharing their editor. Open documents stay available as local copies.", g.hostLogin),
		Dismissable: true,
	})
	g.Dispose()
}

func (g *GuestPortalBinding) HostDidLoseConnection() {
	if g.disposed {
		return
	}
	g.stopTracking()
	g.notifier.Notify(Notification{
		Level:       LevelWarning,
		Message:     "Portal closed",
		Description: fmt.Sprintf("We lost the connection to @%s. Open documents stay available as local copies.", g.hostLogin),
		Dismissable: true,
	})
	g.Dispose()
}

// stopTracking forgets the active item. Editor views stay open.
func (g *GuestPortalBinding) stopTracking() {
	if g.unsubscribeItem != nil {
		g.unsubscribeItem()
		g.unsubscribeItem = nil
	}
	g.activeItem = nil
	g.activeBinding = nil
}

// Leave leaves the portal. Safe to call more than once.
func (g *GuestPortalBinding) Leave() {
	if g.disposed {
		return
	}
	g.logger.Info("leaving portal")
	g.stopTracking()
	if g.portal != nil {
		g.portal.Dispose()
	}
	g.Dispose()
}

// Activate brings the portal's item back to the front of the workspace.
func (g *GuestPortalBinding) Activate() {
	if g.disposed || g.activeItem == nil {
		return
	}
	if !g.ws.Activate(g.activeItem) {
		g.ws.Open(g.activeItem)
	}
}

// Dispose detaches every binding and drops the portal. Views stay open as
// local documents; the empty item is closed.
func (g *GuestPortalBinding) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true
	if g.unsubscribeItem != nil {
		g.unsubscribeItem()
		g.unsubscribeItem = nil
	}

	for _, id := range sortedIDs(g.editorBindings) {
		if eb, ok := g.editorBindings[id]; ok {
			eb.Dispose()
		}
	}
	for _, id := range sortedIDs(g.bufferBindings) {
		if bb, ok := g.bufferBindings[id]; ok {
			bb.Detach()
		}
	}
	g.editorBindings = map[replica.ProxyID]*binding.EditorBinding{}
	g.bufferBindings = map[replica.ProxyID]*binding.BufferBinding{}

	if g.emptyItem != nil && g.ws.Contains(g.emptyItem) {
		g.ws.Close(g.emptyItem)
	}
	if g.portal != nil {
		g.portal.SetDelegate(nil)
		if !g.portal.IsDisposed() {
			g.portal.Dispose()
		}
	}
	g.activeItem = nil
	g.activeBinding = nil
	g.logger.Debug("guest portal binding disposed")

	g.changes.Emit(struct{}{})
	g.changes.Clear()
	g.disposeEvents.Emit(struct{}{})
	g.disposeEvents.Clear()
}

func (g *GuestPortalBinding) IsDisposed() bool { return g.disposed }

// OnDidChange registers fn for state changes worth re-rendering.
func (g *GuestPortalBinding) OnDidChange(fn func()) func() {
	return g.changes.On(func(struct{}) { fn() })
}

func (g *GuestPortalBinding) OnDidDispose(fn func()) func() {
	if g.disposed {
		return func() {}
	}
	return g.disposeEvents.On(func(struct{}) { fn() })
}

// ToggleFollowHostCursorOnActiveEditorProxy flips the follow flag of the
// editor the host has active.
func (g *GuestPortalBinding) ToggleFollowHostCursorOnActiveEditorProxy() {
	if g.activeBinding == nil {
		return
	}
	g.activeBinding.ToggleFollowHostCursor()
	g.changes.Emit(struct{}{})
}

func (g *GuestPortalBinding) PortalID() string { return g.portalID }

func (g *GuestPortalBinding) HostLogin() string { return g.hostLogin }

// Portal returns the joined portal, or nil before Initialize succeeds.
func (g *GuestPortalBinding) Portal() replica.Portal { return g.portal }

func (g *GuestPortalBinding) ActivePaneItem() workspace.Item { return g.activeItem }

func (g *GuestPortalBinding) ActiveEditorBinding() *binding.EditorBinding { return g.activeBinding }

// HasPaneItem reports whether item shows content of this portal.
func (g *GuestPortalBinding) HasPaneItem(item workspace.Item) bool {
	if item == nil || g.disposed {
		return false
	}
	if item == g.activeItem {
		return true
	}
	if e, ok := item.(*EmptyPaneItem); ok {
		return e == g.emptyItem
	}
	view, ok := item.(*editor.Model)
	if !ok {
		return false
	}
	for _, eb := range g.editorBindings {
		if eb.View() == view {
			return true
		}
	}
	return false
}

func sortedIDs[T any](m map[replica.ProxyID]T) []replica.ProxyID {
	ids := make([]replica.ProxyID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
