// Package executor applies a plan to the filesystem.
//
// Actions run in plan order, one at a time. Each action is wrapped in its
// own synthfs operation pipeline, so a failing action is recorded and the
// run moves on to the next one. The only actions not attempted are those
// nested under a directory whose own action failed.
//
// In dry-run mode nothing is touched and every action is reported as
// skipped.
package executor
