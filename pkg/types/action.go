package types

import (
	"fmt"
)

// ActionType is the variant of a planned action
type ActionType string

const (
	// ActionCreateDirectory creates a directory at Target
	ActionCreateDirectory ActionType = "create_directory"

	// ActionCreateSymlink creates a symlink at Target pointing to LinkTo
	ActionCreateSymlink ActionType = "create_symlink"

	// ActionBackupAndReplace moves Target to BackupPath, then creates the
	// replacement (a symlink to LinkTo, or a directory when Kind is directory)
	ActionBackupAndReplace ActionType = "backup_and_replace"

	// ActionDeleteAndReplace removes Target, then creates the replacement
	ActionDeleteAndReplace ActionType = "delete_and_replace"

	// ActionSkipUnchanged leaves Target alone, it is already in the desired state
	ActionSkipUnchanged ActionType = "skip_unchanged"

	// ActionSkipIgnored leaves Target alone because the entry matched an ignore rule
	ActionSkipIgnored ActionType = "skip_ignored"
)

// BackupSuffix is appended to a target path to name its backup
const BackupSuffix = ".bkp"

// BackupPathFor returns the backup path used for target
func BackupPathFor(target string) string {
	return target + BackupSuffix
}

// Action is one unit of planned work for a single target path
type Action struct {
	Type ActionType

	// RelPath is the entry path relative to both roots ("." for the output root)
	RelPath string

	// Target is the absolute path under the output root
	Target string

	// LinkTo is the absolute path under the input root the symlink points to.
	// Empty for directory actions.
	LinkTo string

	// BackupPath is set for ActionBackupAndReplace
	BackupPath string

	// Kind is the desired kind of the entry at Target
	Kind EntryKind
}

// IsSkip reports whether the action leaves the filesystem untouched
func (a Action) IsSkip() bool {
	return a.Type == ActionSkipUnchanged || a.Type == ActionSkipIgnored
}

// CreatesDirectory reports whether applying the action leaves a new directory
// at Target
func (a Action) CreatesDirectory() bool {
	switch a.Type {
	case ActionCreateDirectory:
		return true
	case ActionBackupAndReplace, ActionDeleteAndReplace:
		return a.Kind == KindDirectory
	}
	return false
}

// Describe returns a one-line human description of the action
func (a Action) Describe() string {
	replacement := "symlink to " + a.LinkTo
	if a.Kind == KindDirectory {
		replacement = "directory"
	}

	switch a.Type {
	case ActionCreateDirectory:
		return fmt.Sprintf("create directory %s", a.Target)
	case ActionCreateSymlink:
		return fmt.Sprintf("link %s -> %s", a.Target, a.LinkTo)
	case ActionBackupAndReplace:
		return fmt.Sprintf("back up %s to %s, replace with %s", a.Target, a.BackupPath, replacement)
	case ActionDeleteAndReplace:
		return fmt.Sprintf("delete %s, replace with %s", a.Target, replacement)
	case ActionSkipUnchanged:
		return fmt.Sprintf("unchanged %s", a.Target)
	case ActionSkipIgnored:
		return fmt.Sprintf("ignored %s", a.Target)
	default:
		return fmt.Sprintf("%s %s", a.Type, a.Target)
	}
}
