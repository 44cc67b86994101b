// Package memory is an in-process replica engine.
//
// A Network connects clients of one process. Operations fan out
// synchronously to every other site of a portal, so all sites always see the
// same document state. It is meant for tests and demos.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/iw2rmb/tandem/replica"
)

// ProtocolVersion is the protocol spoken by clients created with a zero
// ClientOptions.ProtocolVersion.
const ProtocolVersion = 1

type Network struct {
	logger  *slog.Logger
	portals map[string]*portalState

	joinErr error
}

func NewNetwork(logger *slog.Logger) *Network {
	if logger == nil {
		logger = slog.Default()
	}
	return &Network{
		logger:  logger.With(slog.String("component", "memory")),
		portals: make(map[string]*portalState),
	}
}

type ClientOptions struct {
	ProtocolVersion int
}

// NewClient returns a client that identifies itself as login.
func (n *Network) NewClient(login string, opt ClientOptions) *Client {
	if opt.ProtocolVersion == 0 {
		opt.ProtocolVersion = ProtocolVersion
	}
	return &Client{net: n, identity: replica.Identity{Login: login}, protocol: opt.ProtocolVersion}
}

// FailNextJoin makes the next JoinPortal call on any client fail with err.
func (n *Network) FailNextJoin(err error) { n.joinErr = err }

// PortalIDs returns the ids of open portals.
func (n *Network) PortalIDs() []string {
	ids := make([]string, 0, len(n.portals))
	for id := range n.portals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DropSite simulates a lost connection of site in portal id. Dropping the
// host closes the portal for everyone.
func (n *Network) DropSite(id string, site replica.SiteID) bool {
	st, ok := n.portals[id]
	if !ok {
		return false
	}
	p, ok := st.sites[site]
	if !ok {
		return false
	}
	n.logger.Info("dropping site", slog.String("portalID", id), slog.Int("siteID", int(site)))

	if site == replica.HostSiteID {
		st.close(func(d replica.PortalDelegate) { d.HostDidLoseConnection() })
		d := p.delegate
		p.release()
		if d != nil {
			d.HostDidLoseConnection()
		}
		return true
	}
	st.leave(p)
	d := p.delegate
	p.release()
	if d != nil {
		d.HostDidLoseConnection()
	}
	return true
}

// Client is one participant's connection to a Network.
type Client struct {
	net      *Network
	identity replica.Identity
	protocol int
}

var _ replica.Client = (*Client)(nil)

func (c *Client) SiteIdentity() replica.Identity { return c.identity }

// CreatePortal opens a new portal hosted by c.
func (c *Client) CreatePortal(ctx context.Context) (replica.Portal, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("create portal: %w", err)
	}
	st := &portalState{
		id:       uuid.NewString(),
		net:      c.net,
		protocol: c.protocol,
		sites:    make(map[replica.SiteID]*Portal),
		buffers:  make(map[replica.ProxyID]*bufferState),
		editors:  make(map[replica.ProxyID]*editorState),
		nextSite: replica.HostSiteID,
	}
	c.net.portals[st.id] = st
	host := st.join(c)
	c.net.logger.Info("portal created", slog.String("portalID", st.id), slog.String("login", c.identity.Login))
	return host, nil
}

// JoinPortal joins portal id as a guest. Unknown ids yield (nil, nil).
func (c *Client) JoinPortal(ctx context.Context, id string) (replica.Portal, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("join portal %s: %w", id, err)
	}
	if err := c.net.joinErr; err != nil {
		c.net.joinErr = nil
		return nil, fmt.Errorf("join portal %s: %w", id, err)
	}
	st, ok := c.net.portals[id]
	if !ok {
		return nil, nil
	}
	if c.protocol < st.protocol {
		return nil, fmt.Errorf("join portal %s: protocol %d < %d: %w", id, c.protocol, st.protocol, replica.ErrClientOutOfDate)
	}

	guest := st.join(c)
	c.net.logger.Info("site joined", slog.String("portalID", id), slog.Int("siteID", int(guest.site)), slog.String("login", c.identity.Login))
	for _, other := range st.otherSites(guest.site) {
		other.withDelegate(func(d replica.PortalDelegate) { d.SiteDidJoin(guest.site) })
	}
	return guest, nil
}
