package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/tandem/config"
	"github.com/iw2rmb/tandem/editor"
	"github.com/iw2rmb/tandem/portal"
	"github.com/iw2rmb/tandem/replica"
	"github.com/iw2rmb/tandem/replica/memory"
)

const projectRoot = "/demo/tandem"

type sampleFile struct {
	path string
	text string
}

var samples = []sampleFile{
	{path: projectRoot + "/README.md", text: "# tandem\n\nTwo editors, one document.\nType on either side and watch the other.\n"},
	{path: projectRoot + "/cmd/main.go", text: "package main\n\nfunc main() {\n\tprintln(\"hello from the host\")\n}\n"},
	{path: "/tmp/scratch.txt", text: "Files outside the project are shared by name.\n"},
}

type options struct {
	HostLogin  string
	GuestLogin string
	Config     *config.Config
	Logger     *slog.Logger
}

type model struct {
	net   *memory.Network
	host  *side
	guest *side
	keys  keyMap

	viewCfg    editor.Config
	guestFocus bool
	portalID   string
	nextSample int

	width, height int
}

func newModel(opt options) model {
	cfg := opt.Config
	scroll, _ := editor.ParseScrollPolicy(cfg.Editor.ScrollPolicy)
	viewCfg := editor.Config{
		HistoryLimit: cfg.Editor.HistoryLimit,
		ShowLineNums: cfg.Editor.ShowLineNumbers,
		TabWidth:     cfg.Editor.TabWidth,
		ScrollPolicy: scroll,
		Style:        editor.DefaultStyle(),
	}
	mgrOpt := portal.ManagerOptions{
		FollowHostCursor: cfg.Portal.FollowHostCursor,
		SettingsURL:      cfg.Portal.SettingsURL,
	}

	net := memory.NewNetwork(opt.Logger)
	m := model{
		net:     net,
		host:    newSide(net, opt.HostLogin, []string{projectRoot}, viewCfg, mgrOpt, opt.Logger),
		guest:   newSide(net, opt.GuestLogin, nil, viewCfg, mgrOpt, opt.Logger),
		keys:    defaultKeyMap(),
		viewCfg: viewCfg,
	}
	m.openNextSample()
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.host.mgr.Dispose()
			m.guest.mgr.Dispose()
			return m, tea.Quit
		}
		if m.handleKey(msg) {
			m.layout()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if v := m.focused().activeView(); v != nil {
		cmd = v.Update(msg)
	}
	m.layout()
	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) bool {
	ctx := context.Background()
	switch {
	case key.Matches(msg, m.keys.Focus):
		m.guestFocus = !m.guestFocus
	case key.Matches(msg, m.keys.Dismiss):
		m.focused().dismiss()
	case key.Matches(msg, m.keys.Share):
		if h := m.host.mgr.CreateHostPortalBinding(ctx); h != nil {
			m.portalID = h.PortalID()
		}
	case key.Matches(msg, m.keys.Join):
		if g := m.guest.mgr.GetGuestPortalBinding(ctx, m.portalID); g != nil {
			g.Activate()
			m.guestFocus = true
		}
	case key.Matches(msg, m.keys.Leave):
		if g := m.activeGuestBinding(); g != nil {
			g.Leave()
		}
	case key.Matches(msg, m.keys.ClosePortal):
		if h := m.host.mgr.HostPortalBinding(); h != nil {
			h.Close()
		}
	case key.Matches(msg, m.keys.Disconnect):
		m.net.DropSite(m.portalID, replica.HostSiteID)
	case key.Matches(msg, m.keys.Follow):
		if g := m.activeGuestBinding(); g != nil {
			g.ToggleFollowHostCursorOnActiveEditorProxy()
		}
	case key.Matches(msg, m.keys.OpenFile):
		m.openNextSample()
	case key.Matches(msg, m.keys.NextTab):
		m.focused().ws.ActivateNext(1)
	case key.Matches(msg, m.keys.CloseTab):
		s := m.focused()
		if item := s.ws.ActiveItem(); item != nil {
			s.ws.Close(item)
		}
	default:
		return false
	}
	return true
}

func (m *model) focused() *side {
	if m.guestFocus {
		return m.guest
	}
	return m.host
}

func (m *model) activeGuestBinding() *portal.GuestPortalBinding {
	if g := m.guest.mgr.ActiveGuestPortalBinding(); g != nil {
		return g
	}
	if gs := m.guest.mgr.GuestPortalBindings(); len(gs) > 0 {
		return gs[0]
	}
	return nil
}

// openNextSample opens the next sample file on the host side, or activates
// it when it is open already.
func (m *model) openNextSample() {
	sf := samples[m.nextSample%len(samples)]
	m.nextSample++
	for _, item := range m.host.ws.Items() {
		if v, ok := item.(*editor.Model); ok && v.Buffer().Path() == sf.path {
			m.host.ws.Activate(v)
			return
		}
	}
	cfg := m.viewCfg
	cfg.Text, cfg.Path = sf.text, sf.path
	m.host.ws.Open(editor.New(cfg))
}

func (m *model) paneSize() (int, int) {
	return maxInt((m.width-1)/2, 0), maxInt(m.height-1, 0)
}

func (m *model) layout() {
	w, h := m.paneSize()
	m.host.layout(w, h, !m.guestFocus)
	m.guest.layout(w, h, m.guestFocus)
}

func (m model) View() string {
	w, h := m.paneSize()
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render(strings.Repeat("│\n", maxInt(h-1, 0)) + "│")
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.host.view(w, h, !m.guestFocus),
		sep,
		m.guest.view(w, h, m.guestFocus),
	)
	return lipgloss.JoinVertical(lipgloss.Left, panes, m.helpLine())
}

func (m model) helpLine() string {
	parts := make([]string, 0, len(m.keys.help()))
	for _, b := range m.keys.help() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MaxWidth(maxInt(m.width, 1)).Render(strings.Join(parts, "  "))
}
