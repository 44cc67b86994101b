package editor

// Clipboard is the system clipboard as seen by a view. Read and write
// errors leave the document unchanged.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(s string) error
}
