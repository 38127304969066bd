// Package planner computes the full plan for linking an input root into an
// output root. Building a plan never touches the filesystem beyond reads:
// it walks the input, inspects each target once and asks the resolver what
// to do, collecting every conflict instead of stopping at the first.
package planner

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/homer/pkg/errors"
	"github.com/arthur-debert/homer/pkg/filesystem"
	"github.com/arthur-debert/homer/pkg/ignore"
	"github.com/arthur-debert/homer/pkg/logging"
	"github.com/arthur-debert/homer/pkg/resolver"
	"github.com/arthur-debert/homer/pkg/types"
	"github.com/arthur-debert/homer/pkg/walker"
	"github.com/rs/zerolog"
)

// BuildOptions holds the inputs of a plan computation
type BuildOptions struct {
	// FS defaults to the OS filesystem
	FS types.FS

	InputRoot  string
	OutputRoot string
	Policy     types.Policy

	// Filter defaults to ignoring nothing
	Filter ignore.Filter
}

// Build walks the input root and returns the ordered plan. Conflicts are
// part of the plan; only I/O failures and invalid roots return an error.
func Build(opts BuildOptions) (*types.Plan, error) {
	logger := logging.GetLogger("planner")

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	filter := opts.Filter
	if filter == nil {
		filter = ignore.None()
	}

	inputRoot, err := canonicalInput(opts.InputRoot)
	if err != nil {
		return nil, err
	}

	outputRoot, err := filepath.Abs(opts.OutputRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid output directory %s", opts.OutputRoot)
	}

	logger.Debug().
		Str("input", inputRoot).
		Str("output", outputRoot).
		Bool("backup", opts.Policy.Backup).
		Bool("force", opts.Policy.Force).
		Msg("Building plan")

	plan := types.NewPlan(inputRoot, outputRoot, opts.Policy)

	b := &builder{
		fsys:   fsys,
		filter: filter,
		plan:   plan,
		fresh:  make(map[string]bool),
		logger: logger,
	}

	outState, err := filesystem.Inspect(fsys, outputRoot)
	if err != nil {
		return nil, err
	}
	switch outState.Kind {
	case types.StateAbsent:
		if err := plan.Add(types.Action{
			Type:    types.ActionCreateDirectory,
			RelPath: ".",
			Target:  outputRoot,
			Kind:    types.KindDirectory,
		}); err != nil {
			return nil, err
		}
		b.fresh["."] = true
	case types.StateDirectory:
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "output %s is not a directory", outputRoot).
			WithDetail("path", outputRoot).
			WithDetail("state", outState.Describe())
	}

	if err := walker.Walk(fsys, inputRoot, b.visit); err != nil {
		return nil, err
	}

	plan.Sort()

	logger.Info().
		Int("actions", len(plan.Actions)).
		Int("changes", plan.Changes()).
		Int("conflicts", len(plan.Conflicts)).
		Msg("Plan built")

	return plan, nil
}

// canonicalInput makes the input root absolute with symlinks evaluated, so
// links created in the output never depend on the working directory.
func canonicalInput(input string) (string, error) {
	abs, err := filepath.Abs(input)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid input directory %s", input)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.Wrapf(err, errors.ErrNotFound, "No directory found at: %s", abs).
				WithDetail("path", abs)
		}
		return "", errors.Wrapf(err, errors.ErrIO, "cannot resolve input directory %s", abs).
			WithDetail("path", abs)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "cannot inspect input directory %s", resolved).
			WithDetail("path", resolved)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrNotFound, "No directory found at: %s", abs).
			WithDetail("path", abs)
	}
	return resolved, nil
}

type builder struct {
	fsys   types.FS
	filter ignore.Filter
	plan   *types.Plan

	// fresh marks directories whose action leaves a new, empty directory.
	// Everything beneath one is known to be absent.
	fresh map[string]bool

	logger zerolog.Logger
}

func (b *builder) visit(entry types.Entry) error {
	target := filepath.Join(b.plan.OutputRoot, entry.RelPath)
	linkTo := filepath.Join(b.plan.InputRoot, entry.RelPath)

	if b.filter.IsIgnored(entry.RelPath, entry.IsDir()) {
		if err := b.plan.AddIgnored(types.Action{
			Type:    types.ActionSkipIgnored,
			RelPath: entry.RelPath,
			Target:  target,
			LinkTo:  linkTo,
			Kind:    entry.Kind,
		}); err != nil {
			return err
		}
		if entry.IsDir() {
			return walker.SkipDir
		}
		return nil
	}

	state := types.Absent()
	if !b.fresh[filepath.Dir(entry.RelPath)] {
		var err error
		if state, err = filesystem.Inspect(b.fsys, target); err != nil {
			return err
		}
	}

	action, conflict := resolver.Resolve(target, linkTo, entry.Kind, state, b.plan.Policy)
	if conflict == nil && action.Type == types.ActionBackupAndReplace {
		var err error
		if conflict, err = b.backupCollision(entry, action, state); err != nil {
			return err
		}
	}
	if conflict != nil {
		conflict.RelPath = entry.RelPath
		b.logger.Debug().
			Str("path", entry.RelPath).
			Str("reason", string(conflict.Reason)).
			Msg("Conflict")
		if err := b.plan.AddConflict(*conflict); err != nil {
			return err
		}
		// A directory we cannot create leaves nothing to link into
		if entry.IsDir() {
			return walker.SkipDir
		}
		return nil
	}

	action.RelPath = entry.RelPath
	if action.CreatesDirectory() {
		b.fresh[entry.RelPath] = true
	}
	return b.plan.Add(action)
}

// backupCollision returns a conflict when the backup of action's target
// would land on a path the plan also links: one already claimed, or an
// input sibling named <entry>.bkp that the filter keeps.
func (b *builder) backupCollision(entry types.Entry, action types.Action, state types.State) (*types.Conflict, error) {
	collides := b.plan.Claimed(action.BackupPath)
	if !collides {
		rel := entry.RelPath + types.BackupSuffix
		info, err := b.fsys.Lstat(filepath.Join(b.plan.InputRoot, rel))
		switch {
		case err == nil:
			collides = !b.filter.IsIgnored(rel, info.IsDir())
		case !stderrors.Is(err, fs.ErrNotExist):
			return nil, errors.Wrapf(err, errors.ErrIO, "cannot inspect %s", rel).
				WithDetail("path", rel)
		}
	}
	if !collides {
		return nil, nil
	}

	return &types.Conflict{
		Target:  action.Target,
		LinkTo:  action.LinkTo,
		Desired: entry.Kind,
		State:   state,
		Reason:  types.ConflictBackupCollision,
	}, nil
}
