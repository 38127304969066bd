// Package types defines the data model shared by homer's planning and
// execution stages: entries discovered in the input tree, the inspected state
// of target paths, the linking policy, planned actions, the plan itself and
// per-action execution results.
package types
