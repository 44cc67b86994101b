package portal

import (
	"path/filepath"
	"strings"
)

const untitledURI = "untitled"

// BufferURI names a local file for the guests of a portal. Files inside a
// project root are named relative to it, prefixed with the root's base name.
// The first matching root wins. Other files are named by their base name.
func BufferURI(roots []string, path string) string {
	if path == "" {
		return untitledURI
	}
	for _, root := range roots {
		if root == "" {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return filepath.Base(root) + "/" + filepath.ToSlash(rel)
	}
	return filepath.Base(path)
}

// RemotePath is the local path given to a buffer shared by a host.
func RemotePath(uri string) string { return "remote:" + uri }

// RemoteTitle is the title of a guest view of uri.
func RemoteTitle(hostLogin, uri string) string { return "@" + hostLogin + ": " + uri }

func emptyTitle(hostLogin string) string { return "@" + hostLogin + ": No Active File" }
