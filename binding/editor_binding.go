package binding

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/iw2rmb/tandem/buffer"
	"github.com/iw2rmb/tandem/editor"
	"github.com/iw2rmb/tandem/internal/emitter"
	"github.com/iw2rmb/tandem/internal/logging"
	"github.com/iw2rmb/tandem/replica"
)

type EditorBindingOptions struct {
	IsHost bool
	// SiteID is the local site. Zero means the host site on host bindings.
	SiteID replica.SiteID
	// FollowHostCursor is the initial follow flag of guest bindings.
	FollowHostCursor bool
	// SiteLabel names remote sites on their decorations.
	SiteLabel func(replica.SiteID) string
	Logger    *slog.Logger
}

// EditorBinding mirrors one editor view's selection to an editor proxy and
// shows the other sites' selections on the view.
type EditorBinding struct {
	view          *editor.Model
	bufferBinding *BufferBinding
	proxy         replica.EditorProxy

	isHost    bool
	site      replica.SiteID
	siteLabel func(replica.SiteID) string
	following bool
	logger    *slog.Logger

	lastHostSel replica.Selection
	hasHostSel  bool
	sites       map[replica.SiteID]struct{}

	guard          guard
	unsubscribeSel func()
	disposed       bool
	disposeEvents  emitter.Emitter[struct{}]
}

var _ replica.EditorProxyDelegate = (*EditorBinding)(nil)

func NewEditorBinding(view *editor.Model, bb *BufferBinding, opt EditorBindingOptions) *EditorBinding {
	site := opt.SiteID
	if site == 0 && opt.IsHost {
		site = replica.HostSiteID
	}
	return &EditorBinding{
		view:          view,
		bufferBinding: bb,
		isHost:        opt.IsHost,
		site:          site,
		siteLabel:     opt.SiteLabel,
		following:     opt.FollowHostCursor && !opt.IsHost,
		sites:         make(map[replica.SiteID]struct{}),
		logger: logging.OrDefault(opt.Logger).With(
			slog.String("component", "editor-binding"),
			slog.String("viewID", view.ID()),
		),
	}
}

// DecorationKey is the key under which a site's selection decorates a view.
func DecorationKey(site replica.SiteID) string { return fmt.Sprintf("site-%d", site) }

func (b *EditorBinding) View() *editor.Model { return b.view }

func (b *EditorBinding) BufferBinding() *BufferBinding { return b.bufferBinding }

func (b *EditorBinding) EditorProxy() replica.EditorProxy { return b.proxy }

func (b *EditorBinding) IsDisposed() bool { return b.disposed }

// SetEditorProxy attaches the binding: the local selection is published and
// the selections already known for other sites are shown.
func (b *EditorBinding) SetEditorProxy(proxy replica.EditorProxy) {
	if b.disposed || proxy == nil || b.proxy != nil {
		return
	}
	b.proxy = proxy
	b.logger = b.logger.With(slog.String("proxyID", string(proxy.ID())))
	proxy.SetDelegate(b)

	b.forward(b.currentSelection())

	known := proxy.SelectionsBySite()
	sites := make([]replica.SiteID, 0, len(known))
	for site := range known {
		if site != b.site {
			sites = append(sites, site)
		}
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i] < sites[j] })
	for _, site := range sites {
		b.UpdateSelectionsForSite(site, known[site])
	}

	b.unsubscribeSel = b.view.OnDidChangeSelection(b.viewDidChangeSelection)
}

func (b *EditorBinding) currentSelection() replica.Selection {
	c := b.view.Cursor()
	if r, ok := b.view.Selection(); ok {
		return replica.Selection{Range: r, Reversed: c == r.Start}
	}
	return replica.Selection{Range: buffer.Range{Start: c, End: c}}
}

// viewDidChangeSelection forwards local cursor moves. Moves caused by a
// remote edit are not forwarded: every site remaps its markers through the
// same edit.
func (b *EditorBinding) viewDidChangeSelection(ev editor.SelectionEvent) {
	if ev.TextChanged && b.bufferBinding.applyingRemote() {
		return
	}
	b.forward(replica.Selection{Range: ev.Range, Reversed: ev.Reversed})
}

func (b *EditorBinding) forward(sel replica.Selection) {
	if b.disposed || b.proxy == nil || b.guard.is(stateApplyingRemote) {
		return
	}
	if !b.guard.enter(stateForwardingLocal) {
		return
	}
	defer b.guard.exit()
	b.proxy.UpdateSelections(sel)
}

// UpdateSelectionsForSite shows site's selection on the view.
func (b *EditorBinding) UpdateSelectionsForSite(site replica.SiteID, sel replica.Selection) {
	if b.disposed || site == b.site {
		return
	}
	if !b.guard.enter(stateApplyingRemote) {
		b.logger.Error("remote selection refused", slog.Int("siteID", int(site)), slog.String("state", b.guard.state.String()))
		return
	}
	defer b.guard.exit()

	label := ""
	if b.siteLabel != nil {
		label = b.siteLabel(site)
	}
	b.view.SetDecoration(DecorationKey(site), editor.Decoration{
		Range:    sel.Range,
		Reversed: sel.Reversed,
		Label:    label,
		Palette:  int(site),
	})
	b.sites[site] = struct{}{}

	if site == replica.HostSiteID {
		b.lastHostSel = sel
		b.hasHostSel = true
		if b.following {
			b.view.ScrollToPos(sel.Head())
		}
	}
}

func (b *EditorBinding) ClearSelectionsForSite(site replica.SiteID) {
	if b.disposed {
		return
	}
	if _, ok := b.sites[site]; !ok {
		return
	}
	delete(b.sites, site)
	b.view.ClearDecoration(DecorationKey(site))
}

// SetFollowHostCursor changes the follow flag. It only has an effect on
// guest bindings.
func (b *EditorBinding) SetFollowHostCursor(follow bool) {
	if b.isHost || b.following == follow {
		return
	}
	b.following = follow
	if follow {
		b.AutoscrollToLastHostSelection()
	}
}

func (b *EditorBinding) ToggleFollowHostCursor() {
	b.SetFollowHostCursor(!b.following)
}

func (b *EditorBinding) IsFollowingHostCursor() bool { return b.following }

// AutoscrollToLastHostSelection scrolls the view once to the host cursor.
func (b *EditorBinding) AutoscrollToLastHostSelection() {
	if b.disposed || !b.hasHostSel {
		return
	}
	b.view.ScrollToPos(b.lastHostSel.Head())
}

// OnDidDispose registers fn to run once when the binding is disposed.
func (b *EditorBinding) OnDidDispose(fn func()) func() {
	if b.disposed {
		return func() {}
	}
	return b.disposeEvents.On(func(struct{}) { fn() })
}

// Dispose detaches the binding. The view keeps its text, cursor, selection
// and scroll position; only the decorations added here are removed.
func (b *EditorBinding) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	if b.unsubscribeSel != nil {
		b.unsubscribeSel()
		b.unsubscribeSel = nil
	}
	if b.proxy != nil {
		b.proxy.SetDelegate(nil)
	}
	for site := range b.sites {
		b.view.ClearDecoration(DecorationKey(site))
	}
	b.sites = map[replica.SiteID]struct{}{}
	b.logger.Debug("editor binding disposed")

	b.disposeEvents.Emit(struct{}{})
	b.disposeEvents.Clear()
}
