package executor

import (
	"context"
	"path/filepath"
	"time"

	"github.com/arthur-debert/homer/pkg/errors"
	"github.com/arthur-debert/homer/pkg/filesystem"
	"github.com/arthur-debert/homer/pkg/logging"
	"github.com/arthur-debert/homer/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	synthfilesystem "github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/rs/zerolog"
)

const (
	reasonDryRun    = "dry run"
	reasonUnchanged = "unchanged"
	reasonIgnored   = "ignored"
)

// Options contains configuration for the executor
type Options struct {
	// FS defaults to the OS filesystem
	FS     types.FS
	DryRun bool
	Logger zerolog.Logger
}

// Executor applies plans
type Executor struct {
	fs      types.FS
	synthfs synthfilesystem.FullFileSystem
	dryRun  bool
	logger  zerolog.Logger
}

// New creates a new executor instance
func New(opts Options) *Executor {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("executor")
	}

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}

	// Targets are always absolute
	osfs := synthfilesystem.NewOSFileSystem("/")

	return &Executor{
		fs:      fs,
		synthfs: synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths(),
		dryRun:  opts.DryRun,
		logger:  logger,
	}
}

// DryRun reports whether the executor only simulates
func (e *Executor) DryRun() bool {
	return e.dryRun
}

// Execute applies every action of plan and returns one result per action,
// in plan order. A blocked plan is refused unless this is a dry run. Per
// action failures are reported in the results, not as the returned error.
func (e *Executor) Execute(ctx context.Context, plan *types.Plan) ([]types.ExecutionResult, error) {
	if plan == nil {
		return nil, errors.New(errors.ErrInvalidInput, "no plan to execute")
	}

	if e.dryRun {
		return e.simulate(plan), nil
	}

	if plan.Blocked() {
		return nil, errors.Newf(errors.ErrUnresolvedConflict,
			"%d unresolved conflicts, nothing was changed", len(plan.Conflicts)).
			WithDetail("conflicts", len(plan.Conflicts))
	}

	e.logger.Info().
		Int("actions", len(plan.Actions)).
		Int("changes", plan.Changes()).
		Msg("Executing plan")

	results := make([]types.ExecutionResult, 0, len(plan.Actions))
	failedDirs := make(map[string]bool)

	for _, action := range plan.Actions {
		result := e.executeAction(ctx, action, failedDirs)
		if result.Failed() && action.Kind == types.KindDirectory {
			failedDirs[action.RelPath] = true
		}
		results = append(results, result)
	}

	summary := types.Summarize(results)
	e.logger.Info().
		Int("applied", summary.Applied).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Msg("Plan executed")

	return results, nil
}

func (e *Executor) simulate(plan *types.Plan) []types.ExecutionResult {
	results := make([]types.ExecutionResult, 0, len(plan.Actions))
	for _, action := range plan.Actions {
		reason := reasonDryRun
		if action.IsSkip() {
			reason = skipReason(action)
		}
		e.logger.Debug().
			Str("action", string(action.Type)).
			Str("target", action.Target).
			Msg("Would execute")
		results = append(results, types.ExecutionResult{
			Action: action,
			Status: types.StatusSkipped,
			Reason: reason,
		})
	}
	return results
}

func (e *Executor) executeAction(ctx context.Context, action types.Action, failedDirs map[string]bool) types.ExecutionResult {
	start := time.Now()
	result := types.ExecutionResult{Action: action}

	if action.IsSkip() {
		result.Status = types.StatusSkipped
		result.Reason = skipReason(action)
		return result
	}

	if parent, failed := failedAncestor(action.RelPath, failedDirs); failed {
		result.Status = types.StatusFailed
		result.Err = errors.Newf(errors.ErrActionExecute,
			"not attempted, directory %s could not be created", parent).
			WithDetail("parent", parent)
		return result
	}

	if err := ctx.Err(); err != nil {
		result.Status = types.StatusFailed
		result.Err = errors.Wrap(err, errors.ErrActionExecute, "execution cancelled")
		return result
	}

	err := e.run(ctx, action)
	result.Duration = time.Since(start)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("action", string(action.Type)).
			Str("target", action.Target).
			Msg("Action failed")
		result.Status = types.StatusFailed
		result.Err = err
		return result
	}

	e.logger.Debug().
		Str("action", string(action.Type)).
		Str("target", action.Target).
		Dur("duration", result.Duration).
		Msg("Action applied")
	result.Status = types.StatusApplied
	return result
}

// failedAncestor returns the nearest ancestor of rel (the output root
// included) whose directory action failed.
func failedAncestor(rel string, failedDirs map[string]bool) (string, bool) {
	if len(failedDirs) == 0 || rel == "." {
		return "", false
	}
	for dir := filepath.Dir(rel); ; dir = filepath.Dir(dir) {
		if failedDirs[dir] {
			return dir, true
		}
		if dir == "." {
			return "", false
		}
	}
}

func skipReason(action types.Action) string {
	if action.Type == types.ActionSkipIgnored {
		return reasonIgnored
	}
	return reasonUnchanged
}
