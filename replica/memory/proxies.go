package memory

import (
	"fmt"
	"sort"

	"github.com/iw2rmb/tandem/buffer"
	"github.com/iw2rmb/tandem/replica"
)

type bufferState struct {
	id       replica.ProxyID
	uri      string
	doc      *buffer.Buffer
	replicas map[replica.SiteID]*BufferProxy

	// ops counts edits accepted for this document.
	ops int
}

func (bs *bufferState) otherReplicas(site replica.SiteID) []*BufferProxy {
	out := make([]*BufferProxy, 0, len(bs.replicas))
	for id, bp := range bs.replicas {
		if id != site {
			out = append(out, bp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].portal.site < out[j].portal.site })
	return out
}

// BufferProxy is one site's replica of a shared document.
type BufferProxy struct {
	state    *bufferState
	portal   *Portal
	delegate replica.BufferProxyDelegate
	disposed bool
}

var _ replica.BufferProxy = (*BufferProxy)(nil)

func (bp *BufferProxy) ID() replica.ProxyID { return bp.state.id }

func (bp *BufferProxy) URI() string { return bp.state.uri }

func (bp *BufferProxy) Text() string { return bp.state.doc.Text() }

func (bp *BufferProxy) SetDelegate(d replica.BufferProxyDelegate) { bp.delegate = d }

// SetTextInRange applies an edit and forwards it to the other sites.
func (bp *BufferProxy) SetTextInRange(r buffer.Range, text string) {
	if bp.disposed {
		return
	}
	bp.state.ops++
	opID := fmt.Sprintf("%d:%d", bp.portal.site, bp.state.ops)
	res, ok := bp.state.doc.ApplyRemote([]buffer.RemoteEdit{{Range: r, Text: text, OpID: opID}})
	if !ok {
		return
	}
	bp.portal.state.remapSelections(bp.state, res.Change.AppliedEdits)
	updates := make([]replica.TextUpdate, 0, len(res.Change.AppliedEdits))
	for _, e := range res.Change.AppliedEdits {
		updates = append(updates, replica.TextUpdate{Range: e.RangeBefore, Text: e.InsertText, OpID: opID})
	}
	for _, other := range bp.state.otherReplicas(bp.portal.site) {
		other.withDelegate(func(d replica.BufferProxyDelegate) { d.UpdateText(updates) })
	}
}

func (bp *BufferProxy) SetURI(uri string) {
	if bp.disposed || uri == bp.state.uri {
		return
	}
	bp.state.uri = uri
	for _, other := range bp.state.otherReplicas(bp.portal.site) {
		other.withDelegate(func(d replica.BufferProxyDelegate) { d.DidChangeURI(uri) })
	}
}

// Dispose removes the document from the portal when called by the host and
// only the local replica otherwise.
func (bp *BufferProxy) Dispose() {
	if bp.disposed {
		return
	}
	if bp.portal.site != replica.HostSiteID {
		bp.disposeReplica()
		return
	}
	delete(bp.portal.state.buffers, bp.state.id)
	for _, other := range bp.state.otherReplicas(bp.portal.site) {
		other.disposeReplica()
	}
	bp.disposeReplica()
}

func (bp *BufferProxy) IsDisposed() bool { return bp.disposed }

func (bp *BufferProxy) disposeReplica() {
	if bp.disposed {
		return
	}
	bp.disposed = true
	delete(bp.state.replicas, bp.portal.site)
	delete(bp.portal.buffers, bp.state.id)
	d := bp.delegate
	bp.delegate = nil
	if d != nil {
		d.Dispose()
	}
}

func (bp *BufferProxy) withDelegate(fn func(replica.BufferProxyDelegate)) {
	if bp.delegate != nil && !bp.disposed {
		fn(bp.delegate)
	}
}

type editorState struct {
	id         replica.ProxyID
	buffer     *bufferState
	selections map[replica.SiteID]replica.Selection
	replicas   map[replica.SiteID]*EditorProxy
}

func (es *editorState) otherReplicas(site replica.SiteID) []*EditorProxy {
	out := make([]*EditorProxy, 0, len(es.replicas))
	for id, ep := range es.replicas {
		if id != site {
			out = append(out, ep)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].portal.site < out[j].portal.site })
	return out
}

// remapSelections moves the stored selections of every editor over doc
// through edits, the way each site moves its own markers.
func (st *portalState) remapSelections(doc *bufferState, edits []buffer.AppliedEdit) {
	for _, es := range st.editors {
		if es.buffer != doc {
			continue
		}
		for site, sel := range es.selections {
			start := buffer.RemapPosThrough(sel.Range.Start, edits).After
			end := buffer.RemapPosThrough(sel.Range.End, edits).After
			sel.Range = buffer.NormalizeRange(buffer.Range{Start: start, End: end})
			es.selections[site] = sel
		}
	}
}

// EditorProxy is one site's replica of an editor's per-site selections.
type EditorProxy struct {
	state    *editorState
	portal   *Portal
	delegate replica.EditorProxyDelegate
	disposed bool
}

var _ replica.EditorProxy = (*EditorProxy)(nil)

func (ep *EditorProxy) ID() replica.ProxyID { return ep.state.id }

func (ep *EditorProxy) BufferProxy() replica.BufferProxy {
	if bp, ok := ep.portal.buffers[ep.state.buffer.id]; ok {
		return bp
	}
	if ep.disposed {
		return &BufferProxy{state: ep.state.buffer, portal: ep.portal, disposed: true}
	}
	return ep.portal.bufferReplica(ep.state.buffer)
}

func (ep *EditorProxy) SetDelegate(d replica.EditorProxyDelegate) { ep.delegate = d }

// UpdateSelections records the local site's selection and forwards it.
func (ep *EditorProxy) UpdateSelections(sel replica.Selection) {
	if ep.disposed {
		return
	}
	site := ep.portal.site
	if prev, ok := ep.state.selections[site]; ok && prev == sel {
		return
	}
	ep.state.selections[site] = sel
	for _, other := range ep.state.otherReplicas(site) {
		other.withDelegate(func(d replica.EditorProxyDelegate) { d.UpdateSelectionsForSite(site, sel) })
	}
}

func (ep *EditorProxy) SelectionsBySite() map[replica.SiteID]replica.Selection {
	out := make(map[replica.SiteID]replica.Selection, len(ep.state.selections))
	for k, v := range ep.state.selections {
		out[k] = v
	}
	return out
}

// Dispose removes the editor from the portal when called by the host and
// only the local replica otherwise.
func (ep *EditorProxy) Dispose() {
	if ep.disposed {
		return
	}
	if ep.portal.site != replica.HostSiteID {
		ep.disposeReplica()
		return
	}
	st := ep.portal.state
	delete(st.editors, ep.state.id)
	for _, other := range ep.state.otherReplicas(ep.portal.site) {
		other.disposeReplica()
	}
	ep.disposeReplica()
	if st.active == ep.state.id {
		st.active = ""
		ep.portal.publishActive()
	}
}

func (ep *EditorProxy) IsDisposed() bool { return ep.disposed }

func (ep *EditorProxy) disposeReplica() {
	if ep.disposed {
		return
	}
	ep.disposed = true
	delete(ep.state.replicas, ep.portal.site)
	delete(ep.portal.editors, ep.state.id)
	d := ep.delegate
	ep.delegate = nil
	if d != nil {
		d.Dispose()
	}
}

func (ep *EditorProxy) withDelegate(fn func(replica.EditorProxyDelegate)) {
	if ep.delegate != nil && !ep.disposed {
		fn(ep.delegate)
	}
}
