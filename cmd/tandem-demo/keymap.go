package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	Focus       key.Binding
	Share       key.Binding
	Join        key.Binding
	Leave       key.Binding
	ClosePortal key.Binding
	Disconnect  key.Binding
	Follow      key.Binding
	OpenFile    key.Binding
	NextTab     key.Binding
	CloseTab    key.Binding
	Dismiss     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		Focus:       key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "switch side")),
		Share:       key.NewBinding(key.WithKeys("alt+s"), key.WithHelp("alt+s", "share")),
		Join:        key.NewBinding(key.WithKeys("alt+j"), key.WithHelp("alt+j", "join")),
		Leave:       key.NewBinding(key.WithKeys("alt+l"), key.WithHelp("alt+l", "leave")),
		ClosePortal: key.NewBinding(key.WithKeys("alt+w"), key.WithHelp("alt+w", "close portal")),
		Disconnect:  key.NewBinding(key.WithKeys("alt+d"), key.WithHelp("alt+d", "drop host")),
		Follow:      key.NewBinding(key.WithKeys("alt+f"), key.WithHelp("alt+f", "follow host")),
		OpenFile:    key.NewBinding(key.WithKeys("alt+n"), key.WithHelp("alt+n", "open file")),
		NextTab:     key.NewBinding(key.WithKeys("alt+t"), key.WithHelp("alt+t", "next tab")),
		CloseTab:    key.NewBinding(key.WithKeys("alt+c"), key.WithHelp("alt+c", "close tab")),
		Dismiss:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Share, k.Join, k.Leave, k.ClosePortal, k.Disconnect, k.Follow, k.OpenFile, k.NextTab, k.CloseTab, k.Focus, k.Dismiss, k.Quit}
}
