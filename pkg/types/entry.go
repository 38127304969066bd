package types

import (
	"path/filepath"
	"strings"
)

// EntryKind is the kind of filesystem node found under the input root
type EntryKind string

const (
	// KindFile is a regular file
	KindFile EntryKind = "file"
	// KindDirectory is a directory
	KindDirectory EntryKind = "directory"
	// KindSymlink is a symbolic link; it is linked as-is, never followed
	KindSymlink EntryKind = "symlink"
)

// Entry is one node discovered while walking the input root
type Entry struct {
	// RelPath is the path relative to the input root, using the OS separator
	RelPath string

	// Kind is the node kind
	Kind EntryKind
}

// IsDir reports whether the entry is a directory
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// Segments returns the ordered path segments from the input root
func (e Entry) Segments() []string {
	return SplitRelPath(e.RelPath)
}

// SplitRelPath splits a relative path into its segments. The root itself
// ("" or ".") has no segments.
func SplitRelPath(rel string) []string {
	rel = filepath.Clean(rel)
	if rel == "." || rel == "" {
		return nil
	}
	return strings.Split(rel, string(filepath.Separator))
}

// Depth returns the number of segments in a relative path
func Depth(rel string) int {
	return len(SplitRelPath(rel))
}
