package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/homer/pkg/filesystem"
	"github.com/arthur-debert/homer/pkg/types"
)

// Environment is an isolated pair of roots: the dotfiles tree being linked
// from and the directory standing in for $HOME.
type Environment struct {
	Root       string
	InputRoot  string
	OutputRoot string
	FS         types.FS

	t *testing.T
}

// NewEnvironment creates <tmp>/home (input) and <tmp>/target (output).
// Roots are resolved through symlinks so paths compare equal to what the
// planner computes on systems where the temp dir itself is a symlink.
func NewEnvironment(t *testing.T) *Environment {
	t.Helper()

	tmp, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}

	env := &Environment{
		Root:       tmp,
		InputRoot:  filepath.Join(tmp, "home"),
		OutputRoot: filepath.Join(tmp, "target"),
		FS:         filesystem.NewOS(),
		t:          t,
	}

	for _, dir := range []string{env.InputRoot, env.OutputRoot} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	return env
}

// WithInput populates the input root
func (env *Environment) WithInput(tree FileTree) *Environment {
	env.t.Helper()
	CreateFileTree(env.t, env.InputRoot, tree)
	return env
}

// WithOutput populates the output root
func (env *Environment) WithOutput(tree FileTree) *Environment {
	env.t.Helper()
	CreateFileTree(env.t, env.OutputRoot, tree)
	return env
}

// In returns the absolute path of rel under the input root
func (env *Environment) In(rel ...string) string {
	return filepath.Join(append([]string{env.InputRoot}, rel...)...)
}

// Out returns the absolute path of rel under the output root
func (env *Environment) Out(rel ...string) string {
	return filepath.Join(append([]string{env.OutputRoot}, rel...)...)
}
