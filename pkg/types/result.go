package types

import "time"

// ResultStatus is the outcome of applying one action
type ResultStatus string

const (
	StatusApplied ResultStatus = "applied"
	StatusSkipped ResultStatus = "skipped"
	StatusFailed  ResultStatus = "failed"
)

// ExecutionResult records what happened to one action during a run
type ExecutionResult struct {
	Action Action
	Status ResultStatus

	// Reason explains a skip ("dry run", "unchanged", "ignored")
	Reason string

	// Err is set when Status is StatusFailed
	Err error

	Duration time.Duration
}

// Failed reports whether the action failed
func (r ExecutionResult) Failed() bool {
	return r.Status == StatusFailed
}

// Summary tallies a run's results
type Summary struct {
	Applied int
	Skipped int
	Failed  int
}

// Summarize counts results by status
func Summarize(results []ExecutionResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusApplied:
			s.Applied++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}
