package memory

import (
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/iw2rmb/tandem/buffer"
	"github.com/iw2rmb/tandem/replica"
)

// portalState is the shared state of one portal, seen by all its sites.
type portalState struct {
	id       string
	net      *Network
	protocol int

	sites      map[replica.SiteID]*Portal
	identities map[replica.SiteID]replica.Identity
	nextSite   replica.SiteID

	buffers map[replica.ProxyID]*bufferState
	editors map[replica.ProxyID]*editorState
	active  replica.ProxyID

	closed bool
}

func (st *portalState) join(c *Client) *Portal {
	site := st.nextSite
	st.nextSite++
	if st.identities == nil {
		st.identities = make(map[replica.SiteID]replica.Identity)
	}
	st.identities[site] = c.identity

	p := &Portal{
		state:   st,
		site:    site,
		buffers: make(map[replica.ProxyID]*BufferProxy),
		editors: make(map[replica.ProxyID]*EditorProxy),
	}
	st.sites[site] = p
	return p
}

func (st *portalState) otherSites(site replica.SiteID) []*Portal {
	out := make([]*Portal, 0, len(st.sites))
	for id, p := range st.sites {
		if id != site {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].site < out[j].site })
	return out
}

func (st *portalState) leave(p *Portal) {
	delete(st.sites, p.site)

	ids := make([]string, 0, len(st.editors))
	for id := range st.editors {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	for _, id := range ids {
		es := st.editors[replica.ProxyID(id)]
		if _, ok := es.selections[p.site]; !ok {
			continue
		}
		delete(es.selections, p.site)
		for _, ep := range es.otherReplicas(p.site) {
			ep.withDelegate(func(d replica.EditorProxyDelegate) { d.ClearSelectionsForSite(p.site) })
		}
	}

	for _, other := range st.otherSites(p.site) {
		other.withDelegate(func(d replica.PortalDelegate) { d.SiteDidLeave(p.site) })
	}
}

// close removes the portal from the network and tells every guest via
// notify.
func (st *portalState) close(notify func(replica.PortalDelegate)) {
	if st.closed {
		return
	}
	st.closed = true
	delete(st.net.portals, st.id)
	st.net.logger.Info("portal closed", slog.String("portalID", st.id))

	for _, g := range st.otherSites(replica.HostSiteID) {
		g.withDelegate(notify)
		g.release()
	}
}

// Portal is one site's handle on a portal.
type Portal struct {
	state    *portalState
	site     replica.SiteID
	delegate replica.PortalDelegate
	disposed bool

	buffers map[replica.ProxyID]*BufferProxy
	editors map[replica.ProxyID]*EditorProxy
}

var _ replica.Portal = (*Portal)(nil)

func (p *Portal) ID() string { return p.state.id }

func (p *Portal) SiteID() replica.SiteID { return p.site }

// SetDelegate installs d. Guests immediately receive the host's active
// editor proxy, which may be nil.
func (p *Portal) SetDelegate(d replica.PortalDelegate) {
	p.delegate = d
	if d != nil && !p.disposed && p.site != replica.HostSiteID {
		d.SetActiveEditorProxy(p.ActiveEditorProxy())
	}
}

func (p *Portal) SiteIdentity(site replica.SiteID) (replica.Identity, bool) {
	id, ok := p.state.identities[site]
	return id, ok
}

func (p *Portal) CreateBufferProxy(uri, text string) replica.BufferProxy {
	if p.site != replica.HostSiteID || p.disposed {
		return nil
	}
	bs := &bufferState{
		id:       replica.ProxyID(uuid.NewString()),
		uri:      uri,
		doc:      buffer.New(text, buffer.Options{HistoryLimit: -1}),
		replicas: make(map[replica.SiteID]*BufferProxy),
	}
	p.state.buffers[bs.id] = bs
	return p.bufferReplica(bs)
}

func (p *Portal) CreateEditorProxy(bp replica.BufferProxy) replica.EditorProxy {
	if p.site != replica.HostSiteID || p.disposed || bp == nil {
		return nil
	}
	bs, ok := p.state.buffers[bp.ID()]
	if !ok {
		return nil
	}
	es := &editorState{
		id:         replica.ProxyID(uuid.NewString()),
		buffer:     bs,
		selections: make(map[replica.SiteID]replica.Selection),
		replicas:   make(map[replica.SiteID]*EditorProxy),
	}
	p.state.editors[es.id] = es
	return p.editorReplica(es)
}

// SetActiveEditorProxy publishes the host's focused editor to the guests.
func (p *Portal) SetActiveEditorProxy(ep replica.EditorProxy) {
	if p.site != replica.HostSiteID || p.disposed {
		return
	}
	var id replica.ProxyID
	if ep != nil {
		id = ep.ID()
	}
	if id == p.state.active {
		return
	}
	p.state.active = id
	p.publishActive()
}

func (p *Portal) publishActive() {
	for _, g := range p.state.otherSites(replica.HostSiteID) {
		g.withDelegate(func(d replica.PortalDelegate) { d.SetActiveEditorProxy(g.ActiveEditorProxy()) })
	}
}

func (p *Portal) ActiveEditorProxy() replica.EditorProxy {
	if p.disposed || p.state.active == "" {
		return nil
	}
	es, ok := p.state.editors[p.state.active]
	if !ok {
		return nil
	}
	return p.editorReplica(es)
}

// Dispose closes the portal on the host and leaves it on a guest.
func (p *Portal) Dispose() {
	if p.disposed {
		return
	}
	if p.site == replica.HostSiteID {
		p.state.close(func(d replica.PortalDelegate) { d.HostDidClosePortal() })
	} else if !p.state.closed {
		p.state.leave(p)
		p.state.net.logger.Info("site left", slog.String("portalID", p.state.id), slog.Int("siteID", int(p.site)))
	}
	p.release()
}

func (p *Portal) IsDisposed() bool { return p.disposed }

// release disposes the site's proxies and drops its delegate.
func (p *Portal) release() {
	if p.disposed {
		return
	}
	p.disposed = true
	delete(p.state.sites, p.site)
	for _, ep := range sortedEditors(p.editors) {
		ep.disposeReplica()
	}
	for _, bp := range sortedBuffers(p.buffers) {
		bp.disposeReplica()
	}
	p.delegate = nil
}

func (p *Portal) withDelegate(fn func(replica.PortalDelegate)) {
	if p.delegate != nil && !p.disposed {
		fn(p.delegate)
	}
}

func (p *Portal) bufferReplica(bs *bufferState) *BufferProxy {
	if bp, ok := p.buffers[bs.id]; ok {
		return bp
	}
	bp := &BufferProxy{state: bs, portal: p}
	p.buffers[bs.id] = bp
	bs.replicas[p.site] = bp
	return bp
}

func (p *Portal) editorReplica(es *editorState) *EditorProxy {
	if ep, ok := p.editors[es.id]; ok {
		return ep
	}
	ep := &EditorProxy{state: es, portal: p}
	p.editors[es.id] = ep
	es.replicas[p.site] = ep
	p.bufferReplica(es.buffer)
	return ep
}

func sortedBuffers(m map[replica.ProxyID]*BufferProxy) []*BufferProxy {
	out := make([]*BufferProxy, 0, len(m))
	for _, bp := range m {
		out = append(out, bp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].state.id < out[j].state.id })
	return out
}

func sortedEditors(m map[replica.ProxyID]*EditorProxy) []*EditorProxy {
	out := make([]*EditorProxy, 0, len(m))
	for _, ep := range m {
		out = append(out, ep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].state.id < out[j].state.id })
	return out
}
