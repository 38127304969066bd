package types

import (
	"io/fs"
)

// FS is the filesystem surface homer needs. Lstat is used for every
// inspection so symlinks are never followed implicitly.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)

	MkdirAll(path string, perm fs.FileMode) error

	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	Remove(name string) error
	Rename(oldpath, newpath string) error
}
