// Package buffer holds the text model shared by local views and remote
// replicas.
//
// Positions are 0-based rows and grapheme columns. Ranges are half-open,
// [Start, End). Local edits go through Apply and are recorded for Undo.
// Edits that arrive from other sites go through ApplyRemote: they never
// enter the local history, but every pending undo and redo entry is
// rebased through them so Undo only reverts what this site typed.
package buffer
