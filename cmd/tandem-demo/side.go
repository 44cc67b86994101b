package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/iw2rmb/tandem/editor"
	"github.com/iw2rmb/tandem/portal"
	"github.com/iw2rmb/tandem/replica"
	"github.com/iw2rmb/tandem/replica/memory"
	"github.com/iw2rmb/tandem/workspace"
)

var (
	headerStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	headerBlurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("238")).Padding(0, 1)
	tabStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	activeTabStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Underline(true).Padding(0, 1)
	placeholderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	noteStyles = map[portal.Level]lipgloss.Style{
		portal.LevelInfo:    noteBox("39"),
		portal.LevelSuccess: noteBox("42"),
		portal.LevelWarning: noteBox("214"),
		portal.LevelError:   noteBox("196"),
	}
)

func noteBox(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Padding(0, 1)
}

// side is one participant of the demo: a workspace and its portals.
type side struct {
	login string
	ws    *workspace.Workspace
	mgr   *portal.Manager
	notes []portal.Notification
}

func newSide(net *memory.Network, login string, roots []string, view editor.Config, opt portal.ManagerOptions, logger *slog.Logger) *side {
	s := &side{
		login: login,
		ws:    workspace.New(workspace.Options{ProjectRoots: roots, Logger: logger}),
	}
	opt.ClientFactory = func(context.Context) (replica.Client, error) {
		return net.NewClient(login, memory.ClientOptions{}), nil
	}
	opt.Workspace = s.ws
	opt.Notifier = s
	opt.View = view
	opt.Logger = logger
	s.mgr = portal.NewManager(opt)
	return s
}

func (s *side) Notify(n portal.Notification) { s.notes = append(s.notes, n) }

func (s *side) dismiss() {
	if len(s.notes) > 0 {
		s.notes = s.notes[1:]
	}
}

func (s *side) activeView() *editor.Model {
	v, _ := s.ws.ActiveItem().(*editor.Model)
	return v
}

// layout sizes the active editor and gives it focus when the side has it.
func (s *side) layout(width, height int, focused bool) {
	for _, item := range s.ws.Items() {
		if v, ok := item.(*editor.Model); ok && v != s.activeView() {
			v.Blur()
		}
	}
	v := s.activeView()
	if v == nil {
		return
	}
	v.SetSize(width, maxInt(height-2, 0))
	if focused {
		v.Focus()
	} else {
		v.Blur()
	}
}

func (s *side) status() string {
	parts := []string{s.login}
	if h := s.mgr.HostPortalBinding(); h != nil {
		parts = append(parts, "sharing "+h.PortalID())
	}
	for _, g := range s.mgr.GuestPortalBindings() {
		state := "in @" + g.HostLogin() + "'s portal"
		if eb := g.ActiveEditorBinding(); eb != nil && eb.IsFollowingHostCursor() {
			state += " (following)"
		}
		parts = append(parts, state)
	}
	return strings.Join(parts, " | ")
}

func (s *side) tabs(width int) string {
	items := s.ws.Items()
	if len(items) == 0 {
		return tabStyle.Render("no open items")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		st := tabStyle
		if item == s.ws.ActiveItem() {
			st = activeTabStyle
		}
		out = append(out, st.Render(item.Title()))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, out...))
}

func (s *side) view(width, height int, focused bool) string {
	header := headerBlurredStyle
	if focused {
		header = headerStyle
	}
	bodyHeight := maxInt(height-2, 0)

	var body string
	switch item := s.ws.ActiveItem().(type) {
	case *editor.Model:
		body = item.View()
	case *portal.EmptyPaneItem:
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, placeholderStyle.Render(item.View()))
	default:
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, placeholderStyle.Render("Nothing open."))
	}

	base := lipgloss.JoinVertical(lipgloss.Left,
		header.Width(width).MaxWidth(width).Render(s.status()),
		s.tabs(width),
		lipgloss.NewStyle().Width(width).Height(bodyHeight).MaxHeight(bodyHeight).Render(body),
	)
	if len(s.notes) == 0 {
		return base
	}
	return s.withNotification(base, width)
}

// withNotification draws the oldest pending notification over the top right
// corner of base.
func (s *side) withNotification(base string, width int) string {
	n := s.notes[0]
	boxWidth := minInt(48, maxInt(width-4, 10))
	text := lipgloss.NewStyle().Bold(true).Render(n.Message)
	if n.Description != "" {
		text += "\n" + n.Description
	}
	if n.LinkURL != "" {
		text += "\n" + n.LinkURL
	}
	if more := len(s.notes) - 1; more > 0 {
		text += fmt.Sprintf("\n(+%d more, esc to dismiss)", more)
	}
	box := noteStyles[n.Level].Width(boxWidth).Render(text)
	x := maxInt(width-lipgloss.Width(box)-1, 0)
	return overlay.Composite(box, base, overlay.Left, overlay.Top, x, 1)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
