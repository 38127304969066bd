package filesystem

import (
	stderrors "errors"
	"io/fs"
	"syscall"

	"github.com/arthur-debert/homer/pkg/errors"
	"github.com/arthur-debert/homer/pkg/types"
)

// Inspect classifies what exists at path without following a final symlink.
// A path whose parent is not a directory is reported as absent, since
// nothing can exist there yet.
func Inspect(fsys types.FS, path string) (types.State, error) {
	info, err := fsys.Lstat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) || stderrors.Is(err, syscall.ENOTDIR) {
			return types.Absent(), nil
		}
		return types.State{}, errors.Wrapf(err, errors.ErrIO, "cannot inspect %s", path).
			WithDetail("path", path)
	}

	switch mode := info.Mode(); {
	case mode&fs.ModeSymlink != 0:
		target, err := fsys.Readlink(path)
		if err != nil {
			return types.State{}, errors.Wrapf(err, errors.ErrIO, "cannot read symlink %s", path).
				WithDetail("path", path)
		}
		return types.SymlinkTo(target), nil
	case mode.IsDir():
		return types.State{Kind: types.StateDirectory}, nil
	default:
		// Sockets, fifos and devices are treated like regular files: they are
		// never deleted without consent.
		return types.State{Kind: types.StateRegularFile}, nil
	}
}
