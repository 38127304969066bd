package executor

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/arthur-debert/homer/pkg/errors"
	"github.com/arthur-debert/homer/pkg/filesystem"
	"github.com/arthur-debert/homer/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	synthfilesystem "github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

// run applies a single action inside its own synthfs pipeline. Every write
// goes through the filesystem the pipeline hands to the operation; reads
// stay on e.fs. Rollback is off: an action either completed or left its
// target as it found it.
func (e *Executor) run(ctx context.Context, action types.Action) error {
	if err := validate(action); err != nil {
		return err
	}

	var applyErr error
	sfs := synthfs.New()
	op := sfs.CustomOperationWithID(operationID(action), func(ctx context.Context, w synthfilesystem.FileSystem) error {
		applyErr = e.apply(w, action)
		return applyErr
	})

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = false

	_, err := synthfs.RunWithOptions(ctx, e.synthfs, options, op)
	if applyErr != nil {
		return applyErr
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrActionExecute, "failed to %s", action.Describe()).
			WithDetail("target", action.Target)
	}
	return nil
}

func operationID(action types.Action) string {
	return fmt.Sprintf("%s_%s_%d", action.Type, filepath.Base(action.Target), time.Now().UnixNano())
}

func validate(action types.Action) error {
	if !filepath.IsAbs(action.Target) {
		return errors.Newf(errors.ErrActionInvalid, "target %q is not absolute", action.Target).
			WithDetail("target", action.Target)
	}
	if action.Kind != types.KindDirectory && action.Type != types.ActionCreateDirectory {
		if !filepath.IsAbs(action.LinkTo) {
			return errors.Newf(errors.ErrActionInvalid, "link target %q for %s is not absolute", action.LinkTo, action.Target).
				WithDetail("target", action.Target).
				WithDetail("link_to", action.LinkTo)
		}
	}
	if action.Type == types.ActionBackupAndReplace && action.BackupPath == "" {
		return errors.Newf(errors.ErrActionInvalid, "no backup path for %s", action.Target).
			WithDetail("target", action.Target)
	}
	return nil
}

func (e *Executor) apply(w synthfilesystem.FileSystem, action types.Action) error {
	switch action.Type {
	case types.ActionCreateDirectory:
		return createDirectory(w, action.Target)
	case types.ActionCreateSymlink:
		return createSymlink(w, action.LinkTo, action.Target)
	case types.ActionBackupAndReplace:
		return e.backupAndReplace(w, action)
	case types.ActionDeleteAndReplace:
		return e.deleteAndReplace(w, action)
	default:
		return errors.Newf(errors.ErrActionInvalid, "unknown action type: %s", action.Type)
	}
}

func createDirectory(w synthfilesystem.FileSystem, target string) error {
	if err := w.MkdirAll(target, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory %s", target).
			WithDetail("target", target)
	}
	return nil
}

func createSymlink(w synthfilesystem.FileSystem, linkTo, target string) error {
	if err := w.Symlink(linkTo, target); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s to %s", target, linkTo).
			WithDetail("target", target).
			WithDetail("link_to", linkTo)
	}
	return nil
}

func replace(w synthfilesystem.FileSystem, action types.Action) error {
	if action.Kind == types.KindDirectory {
		return createDirectory(w, action.Target)
	}
	return createSymlink(w, action.LinkTo, action.Target)
}

// backupAndReplace never overwrites an existing backup
func (e *Executor) backupAndReplace(w synthfilesystem.FileSystem, action types.Action) error {
	_, err := e.fs.Lstat(action.BackupPath)
	switch {
	case err == nil:
		return errors.Newf(errors.ErrBackupCollision,
			"backup %s already exists, refusing to overwrite it", action.BackupPath).
			WithDetail("target", action.Target).
			WithDetail("backup", action.BackupPath)
	case !stderrors.Is(err, fs.ErrNotExist):
		return errors.Wrapf(err, errors.ErrIO, "cannot inspect %s", action.BackupPath).
			WithDetail("backup", action.BackupPath)
	}

	if err := w.Rename(action.Target, action.BackupPath); err != nil {
		return errors.Wrapf(err, errors.ErrFileRename, "cannot move %s to %s", action.Target, action.BackupPath).
			WithDetail("target", action.Target).
			WithDetail("backup", action.BackupPath)
	}

	e.logger.Info().
		Str("target", action.Target).
		Str("backup", action.BackupPath).
		Msg("Backed up")

	return replace(w, action)
}

// deleteAndReplace re-inspects the target so a directory that appeared
// after planning is never removed.
func (e *Executor) deleteAndReplace(w synthfilesystem.FileSystem, action types.Action) error {
	state, err := filesystem.Inspect(e.fs, action.Target)
	if err != nil {
		return err
	}

	switch state.Kind {
	case types.StateDirectory:
		return errors.Newf(errors.ErrFileRemove, "refusing to delete directory %s", action.Target).
			WithDetail("target", action.Target)
	case types.StateAbsent:
	default:
		if err := w.Remove(action.Target); err != nil {
			return errors.Wrapf(err, errors.ErrFileRemove, "cannot delete %s", action.Target).
				WithDetail("target", action.Target)
		}
		e.logger.Info().
			Str("target", action.Target).
			Str("was", state.Describe()).
			Msg("Deleted")
	}

	return replace(w, action)
}
