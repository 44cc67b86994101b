package portal

import (
	"context"
	"errors"
	"log/slog"

	"github.com/iw2rmb/tandem/editor"
	"github.com/iw2rmb/tandem/internal/emitter"
	"github.com/iw2rmb/tandem/internal/logging"
	"github.com/iw2rmb/tandem/replica"
	"github.com/iw2rmb/tandem/workspace"
)

// ClientFactory connects to the replica engine. It is called once, on the
// first portal operation.
type ClientFactory func(ctx context.Context) (replica.Client, error)

type ManagerOptions struct {
	ClientFactory ClientFactory
	Workspace     *workspace.Workspace
	Notifier      Notifier

	// View is the template for guest editor views.
	View             editor.Config
	FollowHostCursor bool
	SettingsURL      string
	Logger           *slog.Logger
}

// Manager owns the portal bindings of one workspace: at most one hosted
// portal and any number of joined ones.
type Manager struct {
	opt      ManagerOptions
	notifier Notifier
	logger   *slog.Logger

	client replica.Client
	host   *HostPortalBinding

	guests     map[string]*GuestPortalBinding
	guestOrder []string

	disposed bool
	changes  emitter.Emitter[struct{}]
}

func NewManager(opt ManagerOptions) *Manager {
	logger := logging.OrDefault(opt.Logger)
	return &Manager{
		opt:      opt,
		notifier: notifierOrLog(opt.Notifier, logger),
		guests:   make(map[string]*GuestPortalBinding),
		logger:   logger.With(slog.String("component", "portal-manager")),
	}
}

func (m *Manager) getClient(ctx context.Context) replica.Client {
	if m.client != nil {
		return m.client
	}
	if m.opt.ClientFactory == nil {
		m.notifyClientError(errors.New("no client factory configured"))
		return nil
	}
	c, err := m.opt.ClientFactory(ctx)
	if err != nil {
		m.notifyClientError(err)
		return nil
	}
	m.client = c
	return c
}

func (m *Manager) notifyClientError(err error) {
	m.logger.Error("client initialization failed", slog.Any("error", err))
	m.notifier.Notify(Notification{
		Level:       LevelError,
		Message:     "Failed to initialize the portal client",
		Description: err.Error(),
		Dismissable: true,
	})
}

// CreateHostPortalBinding shares the workspace, or returns the binding that
// already does. It returns nil on failure.
func (m *Manager) CreateHostPortalBinding(ctx context.Context) *HostPortalBinding {
	if m.disposed {
		return nil
	}
	if m.host != nil {
		return m.host
	}
	client := m.getClient(ctx)
	if client == nil {
		return nil
	}

	host := NewHostPortalBinding(HostOptions{
		Client:      client,
		Workspace:   m.opt.Workspace,
		Notifier:    m.notifier,
		IsGuestItem: m.IsGuestItem,
		Logger:      m.opt.Logger,
	})
	m.host = host
	if !host.Initialize(ctx) {
		m.host = nil
		return nil
	}
	host.OnDidDispose(func() {
		if m.host == host {
			m.host = nil
		}
		m.changes.Emit(struct{}{})
	})
	host.OnDidChange(func() { m.changes.Emit(struct{}{}) })
	m.changes.Emit(struct{}{})
	return host
}

// GetGuestPortalBinding joins portal id, or returns the binding already
// joined to it. It returns nil on failure.
func (m *Manager) GetGuestPortalBinding(ctx context.Context, id string) *GuestPortalBinding {
	if m.disposed {
		return nil
	}
	if g, ok := m.guests[id]; ok {
		return g
	}
	client := m.getClient(ctx)
	if client == nil {
		return nil
	}

	g := NewGuestPortalBinding(GuestOptions{
		Client:           client,
		PortalID:         id,
		Workspace:        m.opt.Workspace,
		Notifier:         m.notifier,
		View:             m.opt.View,
		FollowHostCursor: m.opt.FollowHostCursor,
		SettingsURL:      m.opt.SettingsURL,
		Logger:           m.opt.Logger,
	})
	m.addGuest(id, g)
	if !g.Initialize(ctx) {
		m.removeGuest(id, g)
		return nil
	}
	g.OnDidDispose(func() {
		m.removeGuest(id, g)
		m.changes.Emit(struct{}{})
	})
	g.OnDidChange(func() { m.changes.Emit(struct{}{}) })
	m.changes.Emit(struct{}{})
	return g
}

func (m *Manager) addGuest(id string, g *GuestPortalBinding) {
	m.guests[id] = g
	m.guestOrder = append(m.guestOrder, id)
}

func (m *Manager) removeGuest(id string, g *GuestPortalBinding) {
	if m.guests[id] != g {
		return
	}
	delete(m.guests, id)
	for i, cur := range m.guestOrder {
		if cur == id {
			m.guestOrder = append(m.guestOrder[:i:i], m.guestOrder[i+1:]...)
			break
		}
	}
}

// HostPortalBinding returns the hosted portal, or nil.
func (m *Manager) HostPortalBinding() *HostPortalBinding { return m.host }

// GuestPortalBindings returns the joined portals in join order.
func (m *Manager) GuestPortalBindings() []*GuestPortalBinding {
	out := make([]*GuestPortalBinding, 0, len(m.guestOrder))
	for _, id := range m.guestOrder {
		out = append(out, m.guests[id])
	}
	return out
}

// ActiveGuestPortalBinding returns the joined portal whose content is the
// workspace's active item, or nil.
func (m *Manager) ActiveGuestPortalBinding() *GuestPortalBinding {
	item := m.opt.Workspace.ActiveItem()
	for _, g := range m.GuestPortalBindings() {
		if g.HasPaneItem(item) {
			return g
		}
	}
	return nil
}

// IsGuestItem reports whether item shows content of a joined portal.
func (m *Manager) IsGuestItem(item workspace.Item) bool {
	for _, g := range m.guests {
		if g.HasPaneItem(item) {
			return true
		}
	}
	return false
}

func (m *Manager) OnDidChange(fn func()) func() {
	return m.changes.On(func(struct{}) { fn() })
}

// Dispose closes the hosted portal and leaves every joined one.
func (m *Manager) Dispose() {
	if m.disposed {
		return
	}
	if m.host != nil {
		m.host.Close()
	}
	for _, g := range m.GuestPortalBindings() {
		g.Leave()
	}
	m.disposed = true
	m.changes.Clear()
}
