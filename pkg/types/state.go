package types

// StateKind classifies what currently exists at a target path
type StateKind string

const (
	StateAbsent      StateKind = "absent"
	StateDirectory   StateKind = "directory"
	StateRegularFile StateKind = "regular_file"
	StateSymlink     StateKind = "symlink"
)

// State is the result of a single inspection of a target path. Symlinks are
// not followed; LinkTarget holds the raw link value.
type State struct {
	Kind       StateKind
	LinkTarget string
}

// Absent is the state of a path that does not exist
func Absent() State {
	return State{Kind: StateAbsent}
}

// SymlinkTo is the state of a symlink pointing at target
func SymlinkTo(target string) State {
	return State{Kind: StateSymlink, LinkTarget: target}
}

// Describe returns a short human description of the state
func (s State) Describe() string {
	switch s.Kind {
	case StateAbsent:
		return "nothing"
	case StateDirectory:
		return "directory"
	case StateRegularFile:
		return "regular file"
	case StateSymlink:
		return "symlink to " + s.LinkTarget
	default:
		return string(s.Kind)
	}
}

// Policy holds the user's consent for destructive replacements. It is passed
// by value to every decision; nothing reads it from global state.
type Policy struct {
	// Backup preserves conflicting regular files under a .bkp suffix
	Backup bool

	// Force permits deleting conflicting regular files and symlinks
	Force bool
}
