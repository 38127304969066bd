package types

import (
	"sort"

	"github.com/arthur-debert/homer/pkg/errors"
)

// Plan is the ordered set of actions computed before any filesystem mutation
type Plan struct {
	InputRoot  string
	OutputRoot string
	Policy     Policy

	// Actions are ordered parents before children once Sort has run
	Actions []Action

	// Conflicts are collected for the whole tree, never just the first one
	Conflicts []Conflict

	// Ignored holds the SkipIgnored records of entries matched by the ignore
	// filter. They are kept apart from Actions: an ignored path is not part of
	// the work, and nothing beneath an ignored directory is recorded at all.
	Ignored []Action

	targets map[string]struct{}
}

// NewPlan creates an empty plan for the given roots and policy
func NewPlan(inputRoot, outputRoot string, policy Policy) *Plan {
	return &Plan{
		InputRoot:  inputRoot,
		OutputRoot: outputRoot,
		Policy:     policy,
		Actions:    []Action{},
		Conflicts:  []Conflict{},
		Ignored:    []Action{},
		targets:    make(map[string]struct{}),
	}
}

// Add appends an action. A second action or conflict for the same target is
// rejected, and so is any action whose target is another action's backup
// path: the backup is claimed along with the target.
func (p *Plan) Add(action Action) error {
	if err := p.claim(action.Target, action.BackupPath); err != nil {
		return err
	}
	p.Actions = append(p.Actions, action)
	return nil
}

// AddIgnored records an entry left out by the ignore filter
func (p *Plan) AddIgnored(action Action) error {
	if err := p.claim(action.Target); err != nil {
		return err
	}
	action.Type = ActionSkipIgnored
	p.Ignored = append(p.Ignored, action)
	return nil
}

// AddConflict records an unresolved conflict for a target
func (p *Plan) AddConflict(conflict Conflict) error {
	if err := p.claim(conflict.Target); err != nil {
		return err
	}
	p.Conflicts = append(p.Conflicts, conflict)
	return nil
}

// Claimed reports whether path is already the target or backup path of
// something in the plan
func (p *Plan) Claimed(path string) bool {
	_, exists := p.targets[path]
	return exists
}

// claim takes every non-empty path or none of them
func (p *Plan) claim(paths ...string) error {
	if p.targets == nil {
		p.targets = make(map[string]struct{})
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, exists := p.targets[path]; exists {
			return errors.Newf(errors.ErrDuplicateAction, "more than one action planned for %s", path).
				WithDetail("target", path)
		}
	}
	for _, path := range paths {
		if path != "" {
			p.targets[path] = struct{}{}
		}
	}
	return nil
}

// Sort orders actions by depth, then by path, so every directory's action
// precedes the actions nested under it. Conflicts and ignored entries are
// ordered by path.
func (p *Plan) Sort() {
	sort.SliceStable(p.Actions, func(i, j int) bool {
		di, dj := Depth(p.Actions[i].RelPath), Depth(p.Actions[j].RelPath)
		if di != dj {
			return di < dj
		}
		return p.Actions[i].RelPath < p.Actions[j].RelPath
	})
	sort.SliceStable(p.Conflicts, func(i, j int) bool {
		return p.Conflicts[i].RelPath < p.Conflicts[j].RelPath
	})
	sort.SliceStable(p.Ignored, func(i, j int) bool {
		return p.Ignored[i].RelPath < p.Ignored[j].RelPath
	})
}

// HasConflicts reports whether any conflict was found
func (p *Plan) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// Blocked reports whether execution must be withheld. Conflicts block the
// plan unless the user explicitly permitted overwrites.
func (p *Plan) Blocked() bool {
	return p.HasConflicts() && !p.Policy.Force
}

// Changes returns the number of actions that would modify the filesystem
func (p *Plan) Changes() int {
	n := 0
	for _, a := range p.Actions {
		if !a.IsSkip() {
			n++
		}
	}
	return n
}

// Count returns the number of actions of the given type
func (p *Plan) Count(t ActionType) int {
	n := 0
	for _, a := range p.Actions {
		if a.Type == t {
			n++
		}
	}
	return n
}

// Find returns the action for a relative path, if one was planned
func (p *Plan) Find(relPath string) (Action, bool) {
	for _, a := range p.Actions {
		if a.RelPath == relPath {
			return a, true
		}
	}
	return Action{}, false
}
