// Package editor provides a Bubble Tea text editor view backed by the
// buffer package.
//
// Several views may display one *buffer.Buffer. Each view owns its cursor,
// selection, scroll position and the decorations that mark other
// participants' cursors; all of them are remapped whenever the shared buffer
// changes, whichever view or site produced the change.
package editor
