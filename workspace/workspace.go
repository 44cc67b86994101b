// Package workspace is the local pane model: an ordered list of open items
// with one active item.
package workspace

import (
	"log/slog"
	"slices"

	"github.com/iw2rmb/tandem/internal/emitter"
	"github.com/iw2rmb/tandem/internal/logging"
)

// Item is anything a pane can display.
type Item interface {
	Title() string
}

// Destroyer is implemented by items that release resources when closed.
type Destroyer interface {
	Destroy()
}

type Options struct {
	ProjectRoots []string
	Logger       *slog.Logger
}

type Workspace struct {
	items  []Item
	active Item
	roots  []string
	logger *slog.Logger

	activeChanges emitter.Emitter[Item]
	itemAdds      emitter.Emitter[Item]
	itemRemovals  emitter.Emitter[Item]
}

func New(opt Options) *Workspace {
	return &Workspace{
		roots:  slices.Clone(opt.ProjectRoots),
		logger: logging.OrDefault(opt.Logger).With(slog.String("component", "workspace")),
	}
}

func (w *Workspace) ProjectRoots() []string { return slices.Clone(w.roots) }

func (w *Workspace) SetProjectRoots(roots []string) { w.roots = slices.Clone(roots) }

// Items returns the open items in pane order.
func (w *Workspace) Items() []Item { return slices.Clone(w.items) }

// ActiveItem returns the active item, or nil.
func (w *Workspace) ActiveItem() Item { return w.active }

func (w *Workspace) Contains(item Item) bool { return w.indexOf(item) >= 0 }

func (w *Workspace) indexOf(item Item) int {
	if item == nil {
		return -1
	}
	for i, it := range w.items {
		if it == item {
			return i
		}
	}
	return -1
}

// Open adds item after the active one, unless it is already open, and
// activates it.
func (w *Workspace) Open(item Item) {
	if item == nil {
		return
	}
	if w.indexOf(item) < 0 {
		at := w.indexOf(w.active) + 1
		if at == 0 {
			at = len(w.items)
		}
		w.items = slices.Insert(w.items, at, item)
		w.logger.Debug("item opened", slog.String("title", item.Title()))
		w.itemAdds.Emit(item)
	}
	w.setActive(item)
}

// Activate makes an open item active.
func (w *Workspace) Activate(item Item) bool {
	if w.indexOf(item) < 0 {
		return false
	}
	w.setActive(item)
	return true
}

// Replace puts next where prev is without destroying prev. next becomes
// active when prev was.
func (w *Workspace) Replace(prev, next Item) bool {
	i := w.indexOf(prev)
	if i < 0 || next == nil {
		return false
	}
	if prev == next {
		return true
	}
	if j := w.indexOf(next); j >= 0 {
		w.items = slices.Delete(w.items, j, j+1)
		if j < i {
			i--
		}
	}
	w.items[i] = next
	w.itemRemovals.Emit(prev)
	w.itemAdds.Emit(next)
	if w.active == prev {
		w.setActive(next)
	}
	return true
}

// Close removes item from the pane and destroys it. The next item to the
// left, or else to the right, becomes active.
func (w *Workspace) Close(item Item) bool {
	i := w.indexOf(item)
	if i < 0 {
		return false
	}
	w.items = slices.Delete(w.items, i, i+1)
	if w.active == item {
		var next Item
		switch {
		case i > 0:
			next = w.items[i-1]
		case len(w.items) > 0:
			next = w.items[0]
		}
		w.setActive(next)
	}
	w.logger.Debug("item closed", slog.String("title", item.Title()))
	w.itemRemovals.Emit(item)
	if d, ok := item.(Destroyer); ok {
		d.Destroy()
	}
	return true
}

// CloseAll closes every item.
func (w *Workspace) CloseAll() {
	for len(w.items) > 0 {
		w.Close(w.items[len(w.items)-1])
	}
}

// ActivateNext cycles the active item by delta positions.
func (w *Workspace) ActivateNext(delta int) {
	if len(w.items) == 0 {
		return
	}
	i := w.indexOf(w.active)
	if i < 0 {
		i = 0
	}
	n := len(w.items)
	w.setActive(w.items[((i+delta)%n+n)%n])
}

func (w *Workspace) setActive(item Item) {
	if w.active == item {
		return
	}
	w.active = item
	w.activeChanges.Emit(item)
}

// OnDidChangeActivePaneItem registers fn for active item changes; fn gets nil
// when no item is active.
func (w *Workspace) OnDidChangeActivePaneItem(fn func(Item)) func() {
	return w.activeChanges.On(fn)
}

func (w *Workspace) OnDidAddPaneItem(fn func(Item)) func() { return w.itemAdds.On(fn) }

func (w *Workspace) OnDidRemovePaneItem(fn func(Item)) func() { return w.itemRemovals.On(fn) }
