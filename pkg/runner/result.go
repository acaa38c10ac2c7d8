package runner

import (
	"time"

	"github.com/yaklabco/hypocrite/pkg/generator"
)

// FileOutcome is the result of generating one input file.
type FileOutcome struct {
	// Path is the input file path.
	Path string

	// Result is nil when Error is set.
	Result *generator.Result

	// Error is set if the file could not be generated.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// Processed is the number of files attempted.
	Processed int

	// Generated is the number of outputs written.
	Generated int

	// Unchanged is the number of outputs left alone because their content
	// was already current.
	Unchanged int

	// Failed is the number of files that could not be generated.
	Failed int
}

// Result is the overall runner result.
type Result struct {
	// Files holds one outcome per processed file, in input order.
	Files []FileOutcome

	Stats Stats

	Duration time.Duration
}

// HasFailures reports whether any file failed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.Failed > 0
}

// Failures returns the outcomes that carry an error.
func (r *Result) Failures() []FileOutcome {
	if r == nil {
		return nil
	}
	var failed []FileOutcome
	for _, outcome := range r.Files {
		if outcome.Error != nil {
			failed = append(failed, outcome)
		}
	}
	return failed
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)
	r.Stats.Processed++

	switch {
	case outcome.Error != nil:
		r.Stats.Failed++
	case outcome.Result != nil && outcome.Result.Changed:
		r.Stats.Generated++
	default:
		r.Stats.Unchanged++
	}
}
