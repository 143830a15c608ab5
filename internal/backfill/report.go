package backfill

import "fmt"

// Result tallies one section of a run.
type Result struct {
	Section string
	Created int
	Skipped int
}

// Line renders the result as printed by the command.
func (r Result) Line() string {
	return fmt.Sprintf("%s: created=%d skipped=%d", r.Section, r.Created, r.Skipped)
}

// Report is the outcome of a run.
type Report struct {
	RunID   string
	DryRun  bool
	Results []Result
	// LockHeld is set when another run owned the lock and nothing was done.
	LockHeld bool
}

// Lines returns one summary line per section that ran.
func (r Report) Lines() []string {
	if r.LockHeld {
		return []string{"backfill skipped: another run holds the lock"}
	}
	lines := make([]string, 0, len(r.Results))
	for _, result := range r.Results {
		lines = append(lines, result.Line())
	}
	return lines
}

// Result returns the tally for section, if it ran.
func (r Report) Result(section string) (Result, bool) {
	for _, result := range r.Results {
		if result.Section == section {
			return result, true
		}
	}
	return Result{}, false
}
