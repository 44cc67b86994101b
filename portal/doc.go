// Package portal binds a local workspace to shared portals.
//
// A HostPortalBinding shares the workspace's active editor with the guests
// of one portal. A GuestPortalBinding shows the host's active editor in the
// local workspace, as an editor view backed by a local buffer, or as an
// EmptyPaneItem while the host has no shared editor. The Manager owns the
// replica client and at most one host binding plus any number of guest
// bindings.
//
// Bindings never re-share content they received: a guest view that becomes
// active in the local workspace is not offered to this site's own guests.
package portal
