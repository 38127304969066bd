// pkg/commands/link/link_test.go
// TEST TYPE: Business Logic Integration
// DEPENDENCIES: Real filesystem under t.TempDir(), shell for script tests
// PURPOSE: Test the full link flow: plan, confirmation, execution, scripts

package link_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/homer/pkg/commands/link"
	"github.com/arthur-debert/homer/pkg/config"
	"github.com/arthur-debert/homer/pkg/errors"
	"github.com/arthur-debert/homer/pkg/testutil"
	"github.com/arthur-debert/homer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConfirmer struct {
	answer  bool
	calls   int
	summary string
}

func (c *recordingConfirmer) Confirm(summary string) (bool, error) {
	c.calls++
	c.summary = summary
	return c.answer, nil
}

func configFor(env *testutil.Environment) *config.Config {
	cfg := config.Default()
	cfg.Input = env.InputRoot
	cfg.Output = env.OutputRoot
	cfg.IgnoreFile = filepath.Join(env.Root, ".homerignore")
	cfg.UI.Format = "text"
	return cfg
}

func run(t *testing.T, opts link.Options) (*link.Result, string, error) {
	t.Helper()
	var out bytes.Buffer
	opts.Out = &out
	opts.ErrOut = &out
	result, err := link.Run(context.Background(), opts)
	return result, out.String(), err
}

func TestRun_ConfirmedLinksTree(t *testing.T) {
	env := testutil.NewEnvironment(t).WithInput(testutil.FileTree{
		".vimrc": "set nu",
		".config": testutil.FileTree{
			"app.toml": "x = 1",
		},
	})
	confirmer := &recordingConfirmer{answer: true}

	result, out, err := run(t, link.Options{Config: configFor(env), Confirmer: confirmer})

	require.NoError(t, err)
	assert.False(t, result.Failed())
	assert.Equal(t, 1, confirmer.calls)
	assert.Contains(t, confirmer.summary, "link     "+env.Out(".vimrc"))
	assert.Contains(t, out, "3 applied, 0 skipped, 0 failed")

	testutil.AssertSymlink(t, env.Out(".vimrc"), env.In(".vimrc"))
	testutil.AssertDir(t, env.Out(".config"))
	testutil.AssertSymlink(t, env.Out(".config", "app.toml"), env.In(".config", "app.toml"))
}

func TestRun_DeclinedChangesNothing(t *testing.T) {
	env := testutil.NewEnvironment(t).WithInput(testutil.FileTree{".vimrc": "set nu"})
	confirmer := &recordingConfirmer{answer: false}

	result, out, err := run(t, link.Options{Config: configFor(env), Confirmer: confirmer})

	require.NoError(t, err)
	assert.True(t, result.Declined)
	assert.False(t, result.Failed())
	assert.Empty(t, result.Actions)
	assert.Contains(t, out, "Nothing was changed.")
	testutil.AssertNotExists(t, env.Out(".vimrc"))
}

func TestRun_NoChangesSkipsConfirmation(t *testing.T) {
	env := testutil.NewEnvironment(t).WithInput(testutil.FileTree{".vimrc": "set nu"})
	require.NoError(t, os.Symlink(env.In(".vimrc"), env.Out(".vimrc")))
	confirmer := &recordingConfirmer{answer: false}

	result, _, err := run(t, link.Options{Config: configFor(env), Confirmer: confirmer})

	require.NoError(t, err)
	assert.Zero(t, confirmer.calls)
	assert.False(t, result.Failed())
	assert.Equal(t, types.Summary{Skipped: 1}, types.Summarize(result.Actions))
}

func TestRun_ForceSkipsConfirmation(t *testing.T) {
	env := testutil.NewEnvironment(t).
		WithInput(testutil.FileTree{"file": "new"}).
		WithOutput(testutil.FileTree{"file": testutil.Link{Target: "/elsewhere"}})
	cfg := configFor(env)
	cfg.Force = true
	confirmer := &recordingConfirmer{answer: false}

	result, _, err := run(t, link.Options{Config: cfg, Confirmer: confirmer})

	require.NoError(t, err)
	assert.Zero(t, confirmer.calls)
	assert.False(t, result.Failed())
	testutil.AssertSymlink(t, env.Out("file"), env.In("file"))
}

func TestRun_ConflictsBlockExecution(t *testing.T) {
	env := testutil.NewEnvironment(t).
		WithInput(testutil.FileTree{"file": "new", "other": "x"}).
		WithOutput(testutil.FileTree{"file": testutil.Link{Target: "/elsewhere"}})
	confirmer := &recordingConfirmer{answer: true}

	result, out, err := run(t, link.Options{Config: configFor(env), Confirmer: confirmer})

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnresolvedConflict))
	assert.True(t, result.Failed())
	assert.Zero(t, confirmer.calls)
	assert.Contains(t, out, "Use --force to do the operation anyway.")

	testutil.AssertSymlink(t, env.Out("file"), "/elsewhere")
	testutil.AssertNotExists(t, env.Out("other"))
}

func TestRun_BackupPreservesFile(t *testing.T) {
	env := testutil.NewEnvironment(t).
		WithInput(testutil.FileTree{".bashrc": "new"}).
		WithOutput(testutil.FileTree{".bashrc": "old"})
	cfg := configFor(env)
	cfg.Backup = true

	result, _, err := run(t, link.Options{Config: cfg, Confirmer: &recordingConfirmer{answer: true}})

	require.NoError(t, err)
	assert.False(t, result.Failed())
	testutil.AssertSymlink(t, env.Out(".bashrc"), env.In(".bashrc"))
	testutil.AssertFileContent(t, env.Out(".bashrc.bkp"), "old")
}

func TestRun_DryRun(t *testing.T) {
	env := testutil.NewEnvironment(t).
		WithInput(testutil.FileTree{"file": "new", "dir": testutil.FileTree{"a": "x"}}).
		WithOutput(testutil.FileTree{"file": "existing"})
	confirmer := &recordingConfirmer{answer: true}

	result, out, err := run(t, link.Options{Config: configFor(env), DryRun: true, Confirmer: confirmer})

	t.Run("reports_conflicts_without_changes", func(t *testing.T) {
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnresolvedConflict))
		assert.Zero(t, confirmer.calls)
		assert.Contains(t, out, "Regular file already exists at: "+env.Out("file"))
		assert.Contains(t, out, "Dry run, nothing was changed")
		testutil.AssertFileContent(t, env.Out("file"), "existing")
		testutil.AssertNotExists(t, env.Out("dir"))
	})

	t.Run("every_action_skipped", func(t *testing.T) {
		require.NotNil(t, result)
		for _, r := range result.Actions {
			assert.Equal(t, types.StatusSkipped, r.Status, r.Action.RelPath)
		}
	})
}

func TestRun_IgnoreFile(t *testing.T) {
	env := testutil.NewEnvironment(t).WithInput(testutil.FileTree{
		".vimrc": "set nu",
		"secret": testutil.FileTree{"token": "x"},
	})
	cfg := configFor(env)
	require.NoError(t, os.WriteFile(cfg.IgnoreFile, []byte("secret/\n"), 0644))

	result, _, err := run(t, link.Options{Config: cfg, Confirmer: &recordingConfirmer{answer: true}})

	require.NoError(t, err)
	assert.False(t, result.Failed())
	testutil.AssertSymlink(t, env.Out(".vimrc"), env.In(".vimrc"))
	testutil.AssertNotExists(t, env.Out("secret"))
	for _, a := range result.Plan.Actions {
		assert.NotContains(t, a.RelPath, "secret")
	}
}

func TestRun_MissingRequiredIgnoreFile(t *testing.T) {
	env := testutil.NewEnvironment(t).WithInput(testutil.FileTree{".vimrc": "set nu"})

	_, _, err := run(t, link.Options{Config: configFor(env), IgnoreFileRequired: true})

	assert.True(t, errors.IsErrorCode(err, errors.ErrIgnoreLoad))
}

func TestRun_MissingInput(t *testing.T) {
	env := testutil.NewEnvironment(t)
	cfg := configFor(env)
	cfg.Input = filepath.Join(env.Root, "nope")

	result, _, err := run(t, link.Options{Config: cfg})

	assert.Nil(t, result)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestRun_Scripts(t *testing.T) {
	setup := func(t *testing.T) (*testutil.Environment, *config.Config) {
		env := testutil.NewEnvironment(t).WithInput(testutil.FileTree{".vimrc": "set nu"})
		dir := filepath.Join(env.Root, "scripts")
		require.NoError(t, os.MkdirAll(dir, 0755))
		testutil.WriteExecutable(t, filepath.Join(dir, "01-mark"), "#!/bin/sh\ntouch \"$HOMER_OUTPUT/.marked\"\n")
		testutil.WriteExecutable(t, filepath.Join(dir, "02-fail"), "#!/bin/sh\nexit 3\n")

		cfg := configFor(env)
		cfg.Scripts.Dir = dir
		return env, cfg
	}

	t.Run("run_after_successful_link", func(t *testing.T) {
		env, cfg := setup(t)

		result, out, err := run(t, link.Options{Config: cfg, Confirmer: &recordingConfirmer{answer: true}})

		require.NoError(t, err)
		require.Len(t, result.Scripts, 2)
		assert.False(t, result.Scripts[0].Failed())
		assert.Equal(t, 3, result.Scripts[1].ExitCode)
		assert.True(t, result.Failed())
		assert.Contains(t, out, "ran      01-mark")
		assert.FileExists(t, env.Out(".marked"))
	})

	t.Run("dry_run_lists_only", func(t *testing.T) {
		env, cfg := setup(t)

		result, out, err := run(t, link.Options{Config: cfg, DryRun: true})

		require.NoError(t, err)
		assert.Empty(t, result.Scripts)
		require.Len(t, result.ScriptsListed, 2)
		assert.Contains(t, out, "script   01-mark")
		testutil.AssertNotExists(t, env.Out(".marked"))
	})

	t.Run("skipped_after_failed_action", func(t *testing.T) {
		env, cfg := setup(t)
		// A file where a directory must go makes the directory action fail
		// at execution time, after planning saw the path as absent.
		require.NoError(t, os.MkdirAll(env.In("dir"), 0755))
		require.NoError(t, os.WriteFile(env.In("dir", "a"), []byte("x"), 0644))

		confirmer := confirmFunc(func() {
			require.NoError(t, os.WriteFile(env.Out("dir"), []byte("late"), 0644))
		})

		result, out, err := run(t, link.Options{Config: cfg, Confirmer: confirmer})

		require.NoError(t, err)
		assert.True(t, result.Failed())
		assert.Empty(t, result.Scripts)
		assert.Contains(t, out, "setup scripts were not run")
		testutil.AssertNotExists(t, env.Out(".marked"))
	})
}

// confirmFunc approves after running fn, letting a test change the
// filesystem between planning and execution
type confirmFunc func()

func (f confirmFunc) Confirm(string) (bool, error) {
	f()
	return true, nil
}
