// Package testutil provides utilities for testing homer components.
//
// Key components:
//   - Environment: an isolated input root and output root in a temp directory
//   - FileTree: declarative trees of files, directories and symlinks
//   - Assertions for the on-disk result of a run (symlinks, backups, files)
//
// All tests use the real filesystem under t.TempDir(); symlink and Lstat
// semantics are what the planner and executor depend on.
package testutil
