package portal

import "github.com/iw2rmb/tandem/internal/emitter"

// EmptyPaneItem stands in for the host's editor while the host has none
// shared.
type EmptyPaneItem struct {
	title     string
	destroyed bool

	destroyEvents emitter.Emitter[struct{}]
}

func newEmptyPaneItem(hostLogin string) *EmptyPaneItem {
	return &EmptyPaneItem{title: emptyTitle(hostLogin)}
}

func (e *EmptyPaneItem) Title() string { return e.title }

func (e *EmptyPaneItem) View() string {
	return "The host has no active file. Their editor will show up here once they focus one."
}

func (e *EmptyPaneItem) OnDidDestroy(fn func()) func() {
	if e.destroyed {
		return func() {}
	}
	return e.destroyEvents.On(func(struct{}) { fn() })
}

func (e *EmptyPaneItem) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.destroyEvents.Emit(struct{}{})
	e.destroyEvents.Clear()
}

func (e *EmptyPaneItem) IsDestroyed() bool { return e.destroyed }
