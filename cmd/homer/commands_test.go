// cmd/homer/commands_test.go
// TEST TYPE: CLI Integration
// DEPENDENCIES: Real filesystem under t.TempDir()
// PURPOSE: Test flag handling, config layering and exit behavior of the CLI

package homer_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/homer/cmd/homer"
	"github.com/arthur-debert/homer/pkg/errors"
	"github.com/arthur-debert/homer/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every location homer reads at the test's temp dir
func isolate(t *testing.T, env *testutil.Environment) {
	t.Helper()
	t.Setenv("HOME", env.OutputRoot)
	t.Setenv("HOMER_CONFIG_DIR", filepath.Join(env.Root, "config"))
	t.Setenv("HOMER_STATE_DIR", filepath.Join(env.Root, "state"))
	t.Setenv("HOMER_CONFIG", "")
	t.Setenv("NO_COLOR", "1")
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := homer.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_LinksWithConfirmation(t *testing.T) {
	env := testutil.NewEnvironment(t).WithInput(testutil.FileTree{".vimrc": "set nu"})
	isolate(t, env)

	out, err := execute(t, "y\n", env.InputRoot)

	require.NoError(t, err)
	assert.Contains(t, out, "Continue with these operations? [y/N]: ")
	testutil.AssertSymlink(t, env.Out(".vimrc"), env.In(".vimrc"))
}

func TestRoot_DeclineExitsCleanly(t *testing.T) {
	env := testutil.NewEnvironment(t).WithInput(testutil.FileTree{".vimrc": "set nu"})
	isolate(t, env)

	out, err := execute(t, "n\n", "link", env.InputRoot)

	require.NoError(t, err)
	assert.Contains(t, out, "Nothing was changed.")
	testutil.AssertNotExists(t, env.Out(".vimrc"))
}

func TestRoot_OutputFlag(t *testing.T) {
	env := testutil.NewEnvironment(t).WithInput(testutil.FileTree{".vimrc": "set nu"})
	isolate(t, env)
	other := filepath.Join(env.Root, "other")

	_, err := execute(t, "", env.InputRoot, "-o", other, "--force")

	require.NoError(t, err)
	testutil.AssertSymlink(t, filepath.Join(other, ".vimrc"), env.In(".vimrc"))
	testutil.AssertNotExists(t, env.Out(".vimrc"))
}

func TestRoot_ConflictExitsNonZero(t *testing.T) {
	env := testutil.NewEnvironment(t).
		WithInput(testutil.FileTree{"file": "new"}).
		WithOutput(testutil.FileTree{"file": testutil.Link{Target: "/elsewhere"}})
	isolate(t, env)

	out, err := execute(t, "y\n", env.InputRoot)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnresolvedConflict))
	assert.Contains(t, out, "Use --force to do the operation anyway.")
	testutil.AssertSymlink(t, env.Out("file"), "/elsewhere")
}

func TestRoot_BackupFlag(t *testing.T) {
	env := testutil.NewEnvironment(t).
		WithInput(testutil.FileTree{".bashrc": "new"}).
		WithOutput(testutil.FileTree{".bashrc": "old"})
	isolate(t, env)

	_, err := execute(t, "yes\n", env.InputRoot, "-b")

	require.NoError(t, err)
	testutil.AssertSymlink(t, env.Out(".bashrc"), env.In(".bashrc"))
	testutil.AssertFileContent(t, env.Out(".bashrc.bkp"), "old")
}

func TestPlan_ShowsEverythingAndChangesNothing(t *testing.T) {
	env := testutil.NewEnvironment(t).WithInput(testutil.FileTree{
		".vimrc":  "set nu",
		".bashrc": "x",
	})
	isolate(t, env)
	require.NoError(t, os.Symlink(env.In(".vimrc"), env.Out(".vimrc")))

	out, err := execute(t, "", "plan", env.InputRoot)

	require.NoError(t, err)
	assert.Contains(t, out, "ok       ~/.vimrc")
	assert.Contains(t, out, "link     ~/.bashrc")
	assert.Contains(t, out, "Dry run, nothing was changed")
	testutil.AssertNotExists(t, env.Out(".bashrc"))
}

func TestRoot_ExplicitIgnoreFileMustExist(t *testing.T) {
	env := testutil.NewEnvironment(t).WithInput(testutil.FileTree{".vimrc": "set nu"})
	isolate(t, env)

	_, err := execute(t, "", env.InputRoot, "--dry-run", "--ignore-file", filepath.Join(env.Root, "missing"))

	assert.True(t, errors.HasErrorCode(err, errors.ErrIgnoreLoad))
}

func TestRoot_ScriptFailureExitsNonZero(t *testing.T) {
	env := testutil.NewEnvironment(t).WithInput(testutil.FileTree{".vimrc": "set nu"})
	isolate(t, env)
	dir := filepath.Join(env.Root, "scripts")
	require.NoError(t, os.MkdirAll(dir, 0755))
	testutil.WriteExecutable(t, filepath.Join(dir, "01-fail"), "#!/bin/sh\nexit 1\n")

	_, err := execute(t, "", env.InputRoot, "-f", "-s", dir)

	assert.True(t, errors.IsErrorCode(err, errors.ErrScriptFailure))
	testutil.AssertSymlink(t, env.Out(".vimrc"), env.In(".vimrc"))
}

func TestConfig(t *testing.T) {
	env := testutil.NewEnvironment(t)
	isolate(t, env)

	t.Run("defaults", func(t *testing.T) {
		out, err := execute(t, "", "config")

		require.NoError(t, err)
		assert.Contains(t, out, "no configuration files found")
		assert.Contains(t, out, "input = 'home'")
		assert.Contains(t, out, "timeout = '5m0s'")
	})

	t.Run("user_file_env_and_flags", func(t *testing.T) {
		dir := filepath.Join(env.Root, "config")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
			[]byte("backup = true\ninput = \"dots\"\n"), 0644))
		t.Setenv("HOMER_SCRIPTS__TIMEOUT", "1m")

		out, err := execute(t, "", "config", "--format", "text")

		require.NoError(t, err)
		assert.Contains(t, out, "# loaded from: "+filepath.Join(dir, "config.toml"))
		assert.Contains(t, out, "backup = true")
		assert.Contains(t, out, "input = 'dots'")
		assert.Contains(t, out, "timeout = '1m0s'")
		assert.Contains(t, out, "format = 'text'")
	})

	t.Run("template", func(t *testing.T) {
		out, err := execute(t, "", "config", "--template")

		require.NoError(t, err)
		assert.Contains(t, out, "# input = \"home\"")
	})

	t.Run("invalid_format", func(t *testing.T) {
		_, err := execute(t, "", "config", "--format", "html")
		assert.True(t, errors.HasErrorCode(err, errors.ErrConfigParse))
	})
}

func TestTopics(t *testing.T) {
	env := testutil.NewEnvironment(t)
	isolate(t, env)

	out, err := execute(t, "", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "Available help topics:")
	assert.Contains(t, out, "conflicts")
	assert.Contains(t, out, "--dry-run")

	out, err = execute(t, "", "topics", "conflicts")
	require.NoError(t, err)
	assert.Contains(t, out, "# Conflicts")

	_, err = execute(t, "", "topics", "nope")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestMiscCommands(t *testing.T) {
	env := testutil.NewEnvironment(t)
	isolate(t, env)

	t.Run("version", func(t *testing.T) {
		out, err := execute(t, "", "version")
		require.NoError(t, err)
		assert.Contains(t, out, "homer version dev")
	})

	t.Run("completion", func(t *testing.T) {
		out, err := execute(t, "", "completion", "bash")
		require.NoError(t, err)
		assert.Contains(t, out, "homer")
	})

	t.Run("man", func(t *testing.T) {
		out, err := execute(t, "", "man")
		require.NoError(t, err)
		assert.Contains(t, out, ".TH \"HOMER\"")
	})
}
