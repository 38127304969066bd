package types

import "fmt"

// ConflictReason classifies why a target cannot be resolved under the policy
type ConflictReason string

const (
	// ConflictSymlinkExists means a symlink pointing elsewhere is in the way
	ConflictSymlinkExists ConflictReason = "symlink_exists"

	// ConflictRegularFileExists means a regular file is in the way
	ConflictRegularFileExists ConflictReason = "regular_file_exists"

	// ConflictDirectoryExists means a directory is where a link should go.
	// Directories are never removed, so no policy resolves this.
	ConflictDirectoryExists ConflictReason = "directory_exists"

	// ConflictBackupCollision means the backup of a regular file would land
	// on a path that is itself linked from the input tree
	ConflictBackupCollision ConflictReason = "backup_collision"
)

// Conflict is a target path that needs manual intervention or an explicit
// policy flag before it can be linked. It is never executed.
type Conflict struct {
	RelPath string
	Target  string
	LinkTo  string
	Desired EntryKind
	State   State
	Reason  ConflictReason
}

// Message returns the user facing explanation, including the flag that
// would resolve it where one exists.
func (c Conflict) Message() string {
	switch c.Reason {
	case ConflictSymlinkExists:
		return fmt.Sprintf("Symlink at %s already exists, points to %s. Use --force to do the operation anyway.",
			c.Target, c.State.LinkTarget)
	case ConflictRegularFileExists:
		return fmt.Sprintf("Regular file already exists at: %s. Use --backup to create a backup of this file, or --force to delete file without backup.",
			c.Target)
	case ConflictDirectoryExists:
		return fmt.Sprintf("Directory already exists at: %s. Directories are never replaced; move it away manually.",
			c.Target)
	case ConflictBackupCollision:
		return fmt.Sprintf("Regular file already exists at: %s, and its backup %s is also a link target. Rename one of them, or use --force to delete file without backup.",
			c.Target, BackupPathFor(c.Target))
	default:
		return fmt.Sprintf("Conflict at %s (%s)", c.Target, c.Reason)
	}
}
