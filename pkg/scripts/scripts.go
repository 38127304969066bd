// Package scripts runs the user's post-link scripts.
//
// Every executable in the scripts directory is run once, in lexical order of
// file name, as its own process. A failing script is recorded and the
// remaining scripts still run.
package scripts

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/arthur-debert/homer/pkg/errors"
	"github.com/arthur-debert/homer/pkg/filesystem"
	"github.com/arthur-debert/homer/pkg/logging"
	"github.com/arthur-debert/homer/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single script run
const DefaultTimeout = 5 * time.Minute

// Environment variables passed to every script
const (
	EnvInput  = "HOMER_INPUT"
	EnvOutput = "HOMER_OUTPUT"
	EnvDryRun = "HOMER_DRY_RUN"
)

// Script is an executable found in the scripts directory
type Script struct {
	Name string
	Path string
}

// Result is the outcome of running one script
type Result struct {
	Script   Script
	ExitCode int
	Stdout   string
	Stderr   string

	// Err is set when the script could not be started, timed out or exited
	// non-zero. It carries ErrScriptFailure.
	Err error

	Duration time.Duration
}

// Failed reports whether the script did not succeed
func (r Result) Failed() bool {
	return r.Err != nil
}

// RunnerOptions configures a Runner
type RunnerOptions struct {
	// FS defaults to the OS filesystem
	FS types.FS

	InputRoot  string
	OutputRoot string
	DryRun     bool

	// Timeout defaults to DefaultTimeout
	Timeout time.Duration

	// Script output is streamed here as well as captured. Nil discards.
	Stdout io.Writer
	Stderr io.Writer
}

// Runner discovers and runs scripts
type Runner struct {
	fs     types.FS
	opts   RunnerOptions
	logger zerolog.Logger
}

// NewRunner creates a runner
func NewRunner(opts RunnerOptions) *Runner {
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}

	return &Runner{
		fs:     fsys,
		opts:   opts,
		logger: logging.GetLogger("scripts"),
	}
}

// List returns the executables in dir in run order. Symlinks are followed;
// directories and files without an execute bit are left out.
func (r *Runner) List(dir string) ([]Script, error) {
	info, err := r.fs.Stat(dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "No directory found at: %s", dir).
				WithDetail("path", dir)
		}
		return nil, errors.Wrapf(err, errors.ErrIO, "cannot read scripts directory %s", dir).
			WithDetail("path", dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidInput, "scripts path %s is not a directory", dir).
			WithDetail("path", dir)
	}

	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "cannot read scripts directory %s", dir).
			WithDetail("path", dir)
	}

	var found []Script
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := r.fs.Stat(path)
		if err != nil {
			r.logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable script")
			continue
		}
		if !info.Mode().IsRegular() || info.Mode().Perm()&0111 == 0 {
			r.logger.Debug().Str("path", path).Msg("Not an executable, skipping")
			continue
		}
		found = append(found, Script{Name: entry.Name(), Path: path})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Name < found[j].Name
	})
	return found, nil
}

// Run executes every script in dir. The returned error is only for a
// scripts directory that cannot be listed; script failures are in the
// results.
func (r *Runner) Run(ctx context.Context, dir string) ([]Result, error) {
	found, err := r.List(dir)
	if err != nil {
		return nil, err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid scripts directory %s", dir)
	}

	results := make([]Result, 0, len(found))
	for _, script := range found {
		results = append(results, r.run(ctx, absDir, script))
	}
	return results, nil
}

func (r *Runner) run(ctx context.Context, dir string, script Script) Result {
	r.logger.Info().
		Str("script", script.Name).
		Str("workingDir", dir).
		Msg("Running script")

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, filepath.Join(dir, script.Name))
	cmd.Dir = dir
	// Grandchildren holding the output pipes must not outlive the timeout
	cmd.WaitDelay = time.Second
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("%s=%s", EnvInput, r.opts.InputRoot),
		fmt.Sprintf("%s=%s", EnvOutput, r.opts.OutputRoot),
		fmt.Sprintf("%s=%s", EnvDryRun, strconv.FormatBool(r.opts.DryRun)),
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = io.MultiWriter(&stdout, r.opts.Stdout)
	cmd.Stderr = io.MultiWriter(&stderr, r.opts.Stderr)

	start := time.Now()
	err := cmd.Run()

	result := Result{
		Script:   script,
		ExitCode: exitCode(cmd, err),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = ctx.Err()
		}
		result.Err = errors.Wrapf(err, errors.ErrScriptFailure, "script %s failed", script.Name).
			WithDetail("script", script.Path).
			WithDetail("exit_code", result.ExitCode)

		r.logger.Error().
			Err(err).
			Str("script", script.Name).
			Int("exitCode", result.ExitCode).
			Str("stderr", result.Stderr).
			Msg("Script failed")
		return result
	}

	r.logger.Info().
		Str("script", script.Name).
		Dur("duration", result.Duration).
		Msg("Script completed")
	return result
}

func exitCode(cmd *exec.Cmd, err error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

// Failures counts the failed results
func Failures(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Failed() {
			n++
		}
	}
	return n
}
