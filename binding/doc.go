// Package binding keeps local documents and editor views in step with their
// remote proxies.
//
// A BufferBinding relates one *buffer.Buffer to a replica.BufferProxy: local
// changes are forwarded edit by edit and remote updates are applied without
// entering the local undo history. An EditorBinding relates one editor view
// to a replica.EditorProxy and shows other sites' selections as decorations.
//
// Both bindings suppress echoes with a small state machine, so a change is
// never sent back to the side it came from. Disposing a binding leaves the
// document and the view usable as purely local objects.
package binding
