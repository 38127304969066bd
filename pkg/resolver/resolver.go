// Package resolver holds the conflict decision table: given what is wanted
// at a target path and what is currently there, it returns the action to
// take or the conflict that blocks it.
//
// Data loss is always opt-in. Regular files and symlinks are only replaced
// under Backup or Force, and an existing directory is never replaced under
// any policy.
package resolver

import (
	"path/filepath"

	"github.com/arthur-debert/homer/pkg/types"
)

// Resolve decides what to do with target. linkTo is the absolute path the
// target should link to (ignored when desired is a directory). Exactly one
// of the returned values is meaningful: the conflict is non-nil when no
// action is permitted under policy.
func Resolve(target, linkTo string, desired types.EntryKind, state types.State, policy types.Policy) (types.Action, *types.Conflict) {
	if desired == types.KindDirectory {
		return resolveDirectory(target, state, policy)
	}
	return resolveLink(target, linkTo, desired, state, policy)
}

func resolveDirectory(target string, state types.State, policy types.Policy) (types.Action, *types.Conflict) {
	action := types.Action{Target: target, Kind: types.KindDirectory}

	switch state.Kind {
	case types.StateAbsent:
		action.Type = types.ActionCreateDirectory
		return action, nil

	case types.StateDirectory:
		action.Type = types.ActionSkipUnchanged
		return action, nil

	case types.StateSymlink:
		if policy.Force {
			action.Type = types.ActionDeleteAndReplace
			return action, nil
		}
		return types.Action{}, conflict(target, "", types.KindDirectory, state, types.ConflictSymlinkExists)

	default:
		return replaceRegularFile(action, state, policy)
	}
}

func resolveLink(target, linkTo string, desired types.EntryKind, state types.State, policy types.Policy) (types.Action, *types.Conflict) {
	action := types.Action{Target: target, LinkTo: linkTo, Kind: desired}

	switch state.Kind {
	case types.StateAbsent:
		action.Type = types.ActionCreateSymlink
		return action, nil

	case types.StateSymlink:
		if PointsTo(target, state.LinkTarget, linkTo) {
			action.Type = types.ActionSkipUnchanged
			return action, nil
		}
		if policy.Force {
			action.Type = types.ActionDeleteAndReplace
			return action, nil
		}
		return types.Action{}, conflict(target, linkTo, desired, state, types.ConflictSymlinkExists)

	case types.StateDirectory:
		return types.Action{}, conflict(target, linkTo, desired, state, types.ConflictDirectoryExists)

	default:
		return replaceRegularFile(action, state, policy)
	}
}

// replaceRegularFile prefers a backup over deletion when both flags are set
func replaceRegularFile(action types.Action, state types.State, policy types.Policy) (types.Action, *types.Conflict) {
	switch {
	case policy.Backup:
		action.Type = types.ActionBackupAndReplace
		action.BackupPath = types.BackupPathFor(action.Target)
		return action, nil
	case policy.Force:
		action.Type = types.ActionDeleteAndReplace
		return action, nil
	default:
		return types.Action{}, conflict(action.Target, action.LinkTo, action.Kind, state, types.ConflictRegularFileExists)
	}
}

func conflict(target, linkTo string, desired types.EntryKind, state types.State, reason types.ConflictReason) *types.Conflict {
	return &types.Conflict{
		Target:  target,
		LinkTo:  linkTo,
		Desired: desired,
		State:   state,
		Reason:  reason,
	}
}

// PointsTo reports whether a symlink at linkPath whose raw value is
// rawTarget resolves to want. Relative link values are interpreted against
// the link's own directory, the way the kernel resolves them.
func PointsTo(linkPath, rawTarget, want string) bool {
	if rawTarget == "" || want == "" {
		return false
	}
	resolved := rawTarget
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(linkPath), resolved)
	}
	return filepath.Clean(resolved) == filepath.Clean(want)
}
