// Package filesystem provides filesystem implementations for homer.
//
// It contains the OS implementation of types.FS and Inspect, which turns a
// single Lstat (plus Readlink for symlinks) into a types.State.
package filesystem
