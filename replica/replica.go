// Package replica declares the replicated-document engine the portal
// bindings talk to.
//
// The engine owns replication, transport and authentication. Bindings only
// call the interfaces below and implement the delegate interfaces to receive
// remote events. All calls happen on one goroutine.
package replica

import (
	"context"
	"errors"

	"github.com/iw2rmb/tandem/buffer"
)

// SiteID identifies a participant of a portal. The host is always site 1;
// guests get 2, 3, ... in join order.
type SiteID int

const HostSiteID SiteID = 1

// ProxyID is the stable identifier of a buffer or editor proxy.
type ProxyID string

var (
	// ErrPortalNotFound is returned by JoinPortal for unknown portal ids.
	ErrPortalNotFound = errors.New("portal not found")
	// ErrClientOutOfDate is returned when the remote protocol is newer than
	// the client.
	ErrClientOutOfDate = errors.New("client out of date")
)

// Identity describes a participant.
type Identity struct {
	Login string
}

// TextUpdate is one remote text replacement, in the coordinates of the
// document right before it is applied.
type TextUpdate struct {
	Range buffer.Range
	Text  string

	// OpID identifies the operation within its document. Engines that do
	// not track operations leave it empty.
	OpID string
}

// Selection is a participant's cursor and selection. The cursor sits at
// Range.End unless Reversed.
type Selection struct {
	Range    buffer.Range
	Reversed bool
}

// Head returns the cursor position of the selection.
func (s Selection) Head() buffer.Pos {
	if s.Reversed {
		return s.Range.Start
	}
	return s.Range.End
}

type Client interface {
	SiteIdentity() Identity
	CreatePortal(ctx context.Context) (Portal, error)
	// JoinPortal returns (nil, nil) or ErrPortalNotFound when id is unknown.
	JoinPortal(ctx context.Context, id string) (Portal, error)
}

type Portal interface {
	ID() string
	SiteID() SiteID
	SetDelegate(PortalDelegate)
	SiteIdentity(SiteID) (Identity, bool)

	// Host only.
	CreateBufferProxy(uri, text string) BufferProxy
	CreateEditorProxy(BufferProxy) EditorProxy
	SetActiveEditorProxy(EditorProxy)

	ActiveEditorProxy() EditorProxy
	Dispose()
	IsDisposed() bool
}

type PortalDelegate interface {
	SiteDidJoin(SiteID)
	SiteDidLeave(SiteID)
	SetActiveEditorProxy(EditorProxy)
	HostDidClosePortal()
	HostDidLoseConnection()
}

type BufferProxy interface {
	ID() ProxyID
	URI() string
	Text() string
	SetDelegate(BufferProxyDelegate)
	SetTextInRange(buffer.Range, string)
	SetURI(string)
	Dispose()
}

type BufferProxyDelegate interface {
	UpdateText([]TextUpdate)
	DidChangeURI(string)
	Dispose()
}

type EditorProxy interface {
	ID() ProxyID
	BufferProxy() BufferProxy
	SetDelegate(EditorProxyDelegate)
	UpdateSelections(Selection)
	SelectionsBySite() map[SiteID]Selection
	Dispose()
}

type EditorProxyDelegate interface {
	UpdateSelectionsForSite(SiteID, Selection)
	ClearSelectionsForSite(SiteID)
	Dispose()
}
