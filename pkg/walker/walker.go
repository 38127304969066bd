// Package walker enumerates the input root depth-first, reporting each
// directory before its children. Symlinks are reported as entries and never
// followed.
package walker

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/homer/pkg/errors"
	"github.com/arthur-debert/homer/pkg/types"
)

// SkipDir may be returned by a WalkFunc for a directory entry to prevent the
// walk from descending into it.
var SkipDir = stderrors.New("skip this directory")

// WalkFunc is called once per entry. Returning SkipDir on a directory prunes
// it; any other error stops the walk and is returned by Walk.
type WalkFunc func(entry types.Entry) error

// Walk visits every entry under root. The root itself is not reported.
// Entries of a directory are visited in lexical order.
func Walk(fsys types.FS, root string, fn WalkFunc) error {
	info, err := fsys.Stat(root)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, errors.ErrNotFound, "No directory found at: %s", root).
				WithDetail("path", root)
		}
		return errors.Wrapf(err, errors.ErrIO, "cannot read input root %s", root).
			WithDetail("path", root)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrNotFound, "No directory found at: %s", root).
			WithDetail("path", root)
	}

	return walkDir(fsys, root, "", fn)
}

func walkDir(fsys types.FS, root, rel string, fn WalkFunc) error {
	dir := filepath.Join(root, rel)
	children, err := fsys.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIO, "cannot read directory %s", dir).
			WithDetail("path", dir)
	}

	sort.Slice(children, func(i, j int) bool {
		return children[i].Name() < children[j].Name()
	})

	for _, child := range children {
		entry := types.Entry{
			RelPath: filepath.Join(rel, child.Name()),
			Kind:    kindOf(child),
		}

		err := fn(entry)
		if stderrors.Is(err, SkipDir) {
			continue
		}
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if err := walkDir(fsys, root, entry.RelPath, fn); err != nil {
				return err
			}
		}
	}

	return nil
}

func kindOf(d fs.DirEntry) types.EntryKind {
	switch {
	case d.Type()&fs.ModeSymlink != 0:
		return types.KindSymlink
	case d.IsDir():
		return types.KindDirectory
	default:
		return types.KindFile
	}
}
