// Package display renders plans, conflicts, execution results and script
// results for the terminal. Output is styled with lipgloss when the format
// allows it and plain text otherwise; the wording is identical.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/homer/pkg/paths"
	"github.com/arthur-debert/homer/pkg/scripts"
	"github.com/arthur-debert/homer/pkg/types"
	"github.com/arthur-debert/homer/pkg/ui/styles"
)

// Options controls rendering
type Options struct {
	Styled bool

	// Verbose lists unchanged and ignored paths too
	Verbose bool
}

// Renderer writes human readable output
type Renderer struct {
	w       io.Writer
	paint   styles.Painter
	verbose bool
}

// New creates a renderer writing to w
func New(w io.Writer, opts Options) *Renderer {
	return &Renderer{
		w:       w,
		paint:   styles.NewPainter(opts.Styled),
		verbose: opts.Verbose,
	}
}

const verbWidth = 8

type verb struct {
	label string
	style string
}

var actionVerbs = map[types.ActionType]verb{
	types.ActionCreateDirectory:  {"mkdir", "Create"},
	types.ActionCreateSymlink:    {"link", "Create"},
	types.ActionBackupAndReplace: {"backup", "Replace"},
	types.ActionDeleteAndReplace: {"replace", "Replace"},
	types.ActionSkipUnchanged:    {"ok", "Skip"},
	types.ActionSkipIgnored:      {"ignore", "Skip"},
}

// PlanSummary renders the plan as shown before confirmation
func (r *Renderer) PlanSummary(plan *types.Plan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", r.paint.Paint("Header",
		fmt.Sprintf("Linking %s into %s", paths.ContractHome(plan.InputRoot), paths.ContractHome(plan.OutputRoot))))

	for _, action := range plan.Actions {
		if action.IsSkip() && !r.verbose {
			continue
		}
		b.WriteString(r.actionLine(action))
	}
	if r.verbose {
		for _, action := range plan.Ignored {
			b.WriteString(r.actionLine(action))
		}
	}

	if len(plan.Conflicts) > 0 {
		b.WriteString("\n")
		b.WriteString(r.Conflicts(plan))
	}

	b.WriteString("\n")
	b.WriteString(r.paint.Paint("Muted", planCounts(plan)))
	b.WriteString("\n")
	return b.String()
}

func (r *Renderer) actionLine(action types.Action) string {
	v, ok := actionVerbs[action.Type]
	if !ok {
		v = verb{string(action.Type), "Muted"}
	}

	line := fmt.Sprintf("  %s %s", r.paint.Paint(v.style, pad(v.label, verbWidth)),
		r.paint.Paint("Path", paths.ContractHome(action.Target)))

	switch {
	case action.Type == types.ActionSkipIgnored:
	case action.Kind == types.KindDirectory:
	case action.LinkTo != "":
		line += " -> " + r.paint.Paint("Link", paths.ContractHome(action.LinkTo))
	}
	if action.Type == types.ActionBackupAndReplace {
		line += r.paint.Paint("Muted", fmt.Sprintf(" (backup: %s)", paths.ContractHome(action.BackupPath)))
	}
	return line + "\n"
}

// Conflicts renders the conflict list with the flag that resolves each one
func (r *Renderer) Conflicts(plan *types.Plan) string {
	var b strings.Builder
	header := fmt.Sprintf("%d conflicts", len(plan.Conflicts))
	if plan.Policy.Force {
		header += " (left untouched)"
	}
	fmt.Fprintf(&b, "%s\n", r.paint.Paint("Conflict", header))
	for _, c := range plan.Conflicts {
		fmt.Fprintf(&b, "  %s %s\n", r.paint.Paint("Conflict", pad("conflict", verbWidth)), c.Message())
	}
	return b.String()
}

func planCounts(plan *types.Plan) string {
	create := plan.Count(types.ActionCreateDirectory) + plan.Count(types.ActionCreateSymlink)
	replace := plan.Count(types.ActionBackupAndReplace) + plan.Count(types.ActionDeleteAndReplace)

	return fmt.Sprintf("%d to create, %d to replace, %d unchanged, %d ignored, %d conflicts",
		create, replace, plan.Count(types.ActionSkipUnchanged), len(plan.Ignored), len(plan.Conflicts))
}

// RenderPlan writes the plan summary
func (r *Renderer) RenderPlan(plan *types.Plan) {
	_, _ = io.WriteString(r.w, r.PlanSummary(plan))
}

// RenderResults writes the outcome of an execution. Failures are always
// listed; applied actions only in verbose mode.
func (r *Renderer) RenderResults(results []types.ExecutionResult, dryRun bool) {
	var b strings.Builder

	if dryRun {
		fmt.Fprintf(&b, "%s\n", r.paint.Paint("DryRunBanner", "Dry run, nothing was changed"))
	}

	for _, result := range results {
		switch {
		case result.Failed():
			fmt.Fprintf(&b, "  %s %s: %v\n",
				r.paint.Paint("Error", pad("failed", verbWidth)),
				r.paint.Paint("Path", paths.ContractHome(result.Action.Target)),
				result.Err)
		case r.verbose && result.Status == types.StatusApplied:
			fmt.Fprintf(&b, "  %s %s\n",
				r.paint.Paint("Success", pad("done", verbWidth)),
				result.Action.Describe())
		}
	}

	summary := types.Summarize(results)
	line := fmt.Sprintf("%d applied, %d skipped, %d failed", summary.Applied, summary.Skipped, summary.Failed)
	style := "Success"
	if summary.Failed > 0 {
		style = "Error"
	}
	fmt.Fprintf(&b, "%s\n", r.paint.Paint(style, line))

	_, _ = io.WriteString(r.w, b.String())
}

// RenderScriptList writes the scripts that would run
func (r *Renderer) RenderScriptList(list []scripts.Script) {
	var b strings.Builder
	if len(list) == 0 {
		fmt.Fprintf(&b, "%s\n", r.paint.Paint("Muted", "No scripts to run"))
	}
	for _, s := range list {
		fmt.Fprintf(&b, "  %s %s\n", r.paint.Paint("Skip", pad("script", verbWidth)), s.Name)
	}
	_, _ = io.WriteString(r.w, b.String())
}

// RenderScriptResults writes one line per script run
func (r *Renderer) RenderScriptResults(results []scripts.Result) {
	var b strings.Builder
	for _, res := range results {
		if res.Failed() {
			fmt.Fprintf(&b, "  %s %s: %v\n", r.paint.Paint("Error", pad("failed", verbWidth)), res.Script.Name, res.Err)
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", r.paint.Paint("Success", pad("ran", verbWidth)), res.Script.Name)
	}
	_, _ = io.WriteString(r.w, b.String())
}

// RenderMessage writes a single line in the given style
func (r *Renderer) RenderMessage(style, msg string) {
	_, _ = fmt.Fprintln(r.w, r.paint.Paint(style, msg))
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
