// Package link runs a complete homer invocation: resolve the roots, build
// the plan, show it, ask for confirmation, apply it and run the setup
// scripts. The CLI and the tests both drive homer through Run.
package link

import (
	"context"
	"io"
	"os"

	"github.com/arthur-debert/homer/pkg/config"
	"github.com/arthur-debert/homer/pkg/display"
	"github.com/arthur-debert/homer/pkg/errors"
	"github.com/arthur-debert/homer/pkg/executor"
	"github.com/arthur-debert/homer/pkg/ignore"
	"github.com/arthur-debert/homer/pkg/logging"
	"github.com/arthur-debert/homer/pkg/paths"
	"github.com/arthur-debert/homer/pkg/planner"
	"github.com/arthur-debert/homer/pkg/scripts"
	"github.com/arthur-debert/homer/pkg/types"
	"github.com/arthur-debert/homer/pkg/ui"
	"github.com/arthur-debert/homer/pkg/ui/confirmations"
)

// Options defines the options for a link run
type Options struct {
	// Config is the effective configuration; defaults to config.Default()
	Config *config.Config

	DryRun bool

	// Verbose lists unchanged and ignored paths and applied actions
	Verbose bool

	// IgnoreFileRequired makes a missing ignore file an error. Set when the
	// user named the file explicitly.
	IgnoreFileRequired bool

	// Out receives the rendered plan and results, ErrOut script stderr.
	// Both default to the process streams.
	Out    io.Writer
	ErrOut io.Writer

	// Confirmer defaults to a console dialog on stdin
	Confirmer confirmations.Confirmer

	// FS defaults to the OS filesystem
	FS types.FS
}

// Result is everything a run produced
type Result struct {
	Roots paths.Roots
	Plan  *types.Plan

	// Declined is set when the user rejected the confirmation
	Declined bool

	Actions []types.ExecutionResult

	// Scripts holds the scripts run; ScriptsListed the ones a dry run would run
	Scripts       []scripts.Result
	ScriptsListed []scripts.Script
}

// Failed reports whether the run must exit non-zero: an action or script
// failed, or a conflict was left in place.
func (r *Result) Failed() bool {
	if r == nil {
		return true
	}
	if r.Declined {
		return false
	}
	if r.Plan != nil && r.Plan.HasConflicts() {
		return true
	}
	return types.Summarize(r.Actions).Failed > 0 || scripts.Failures(r.Scripts) > 0
}

// Run executes a link. Conflicts that block the plan are reported after the
// plan is shown, as an ErrUnresolvedConflict error alongside the result.
func Run(ctx context.Context, opts Options) (*Result, error) {
	log := logging.GetLogger("commands.link")
	log.Debug().Bool("dry_run", opts.DryRun).Msg("Executing command")
	defer logging.LogOperationStart(log, "link")()

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.ErrOut
	if errOut == nil {
		errOut = os.Stderr
	}

	format, err := ui.ParseFormat(cfg.UI.Format)
	if err != nil {
		return nil, err
	}
	renderer := display.New(out, display.Options{
		Styled:  ui.IsStyled(ui.Resolve(format, out)),
		Verbose: opts.Verbose,
	})

	roots, err := paths.ResolveRoots(cfg.Input, cfg.Output)
	if err != nil {
		return nil, err
	}
	result := &Result{Roots: roots}

	filter, err := ignore.Load(cfg.IgnoreFile, opts.IgnoreFileRequired)
	if err != nil {
		return nil, err
	}
	if patterns, ok := filter.(*ignore.PatternFilter); ok {
		log.Debug().Str("ignore_file", patterns.Source()).Msg("Using ignore patterns")
	}

	plan, err := planner.Build(planner.BuildOptions{
		FS:         opts.FS,
		InputRoot:  roots.Input,
		OutputRoot: roots.Output,
		Policy:     types.Policy{Backup: cfg.Backup, Force: cfg.Force},
		Filter:     filter,
	})
	if err != nil {
		return nil, err
	}
	result.Plan = plan

	if opts.DryRun {
		return result, dryRun(ctx, opts, cfg, renderer, result)
	}

	if plan.Blocked() {
		renderer.RenderPlan(plan)
		return result, unresolved(plan)
	}

	if confirmationNeeded(cfg, plan) {
		confirmer := opts.Confirmer
		if confirmer == nil {
			confirmer = confirmations.NewConsoleDialogWithIO(os.Stdin, out)
		}
		ok, err := confirmer.Confirm(renderer.PlanSummary(plan))
		if err != nil {
			return result, err
		}
		if !ok {
			log.Info().Msg("Confirmation declined, nothing was changed")
			renderer.RenderMessage("Muted", msgDeclined)
			result.Declined = true
			return result, nil
		}
	} else {
		renderer.RenderPlan(plan)
	}

	exec := executor.New(executor.Options{FS: opts.FS})
	result.Actions, err = exec.Execute(ctx, plan)
	if err != nil {
		return result, err
	}
	renderer.RenderResults(result.Actions, false)

	if cfg.Scripts.Dir != "" {
		if types.Summarize(result.Actions).Failed > 0 && !cfg.Force {
			log.Warn().Msg("Actions failed, skipping setup scripts")
			renderer.RenderMessage("Warning", msgScriptsSkipped)
		} else {
			runner := newRunner(opts, cfg, plan, out, errOut, false)
			result.Scripts, err = runner.Run(ctx, scriptsDir(cfg))
			if err != nil {
				return result, err
			}
			renderer.RenderScriptResults(result.Scripts)
		}
	}

	log.Info().Bool("failed", result.Failed()).Msg("Command finished")
	return result, nil
}

func dryRun(ctx context.Context, opts Options, cfg *config.Config, renderer *display.Renderer, result *Result) error {
	plan := result.Plan
	renderer.RenderPlan(plan)

	exec := executor.New(executor.Options{FS: opts.FS, DryRun: true})
	actions, err := exec.Execute(ctx, plan)
	if err != nil {
		return err
	}
	result.Actions = actions
	renderer.RenderResults(actions, true)

	if cfg.Scripts.Dir != "" {
		runner := newRunner(opts, cfg, plan, io.Discard, io.Discard, true)
		list, err := runner.List(scriptsDir(cfg))
		if err != nil {
			return err
		}
		result.ScriptsListed = list
		renderer.RenderScriptList(list)
	}

	if plan.Blocked() {
		return unresolved(plan)
	}
	return nil
}

// confirmationNeeded is false under force and when nothing would change
func confirmationNeeded(cfg *config.Config, plan *types.Plan) bool {
	return !cfg.Force && plan.Changes() > 0
}

// newRunner passes the plan's canonical roots to the scripts
func newRunner(opts Options, cfg *config.Config, plan *types.Plan, out, errOut io.Writer, dry bool) *scripts.Runner {
	return scripts.NewRunner(scripts.RunnerOptions{
		FS:         opts.FS,
		InputRoot:  plan.InputRoot,
		OutputRoot: plan.OutputRoot,
		DryRun:     dry,
		Timeout:    cfg.Scripts.Timeout.Std(),
		Stdout:     out,
		Stderr:     errOut,
	})
}

func scriptsDir(cfg *config.Config) string {
	dir, err := paths.Normalize(cfg.Scripts.Dir)
	if err != nil {
		return cfg.Scripts.Dir
	}
	return dir
}

func unresolved(plan *types.Plan) error {
	return errors.Newf(errors.ErrUnresolvedConflict, msgUnresolved, len(plan.Conflicts)).
		WithDetail("conflicts", len(plan.Conflicts))
}
