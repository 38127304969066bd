// Package paths resolves the locations homer works with: the input and
// output roots given on the command line, the user's home directory, and
// the XDG directories for homer's own configuration and state.
package paths
