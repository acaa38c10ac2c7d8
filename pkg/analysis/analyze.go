// Package analysis aggregates the results of a batch run into the views
// shown by reporters.
package analysis

import (
	"cmp"
	"errors"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/hypocrite/pkg/perfile"
	"github.com/yaklabco/hypocrite/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// makeRelativePath converts an absolute path to a relative path from workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// Status returns the status of one file of a batch run.
func Status(outcome runner.FileOutcome) string {
	switch {
	case outcome.Error != nil:
		return StatusFailed
	case outcome.Result != nil && outcome.Result.Changed:
		return StatusGenerated
	default:
		return StatusUnchanged
	}
}

// ErrorLine returns the input line a failure points at, or 0.
func ErrorLine(outcome runner.FileOutcome) int {
	var perr *perfile.ParseError
	if !errors.As(outcome.Error, &perr) || perr.Coord.Path != outcome.Path {
		return 0
	}
	return perr.Coord.Line
}

func newFileEntry(outcome runner.FileOutcome, workDir string) FileEntry {
	entry := FileEntry{
		Path:   makeRelativePath(outcome.Path, workDir),
		Status: Status(outcome),
	}

	if outcome.Error != nil {
		entry.Error = outcome.Error.Error()
		entry.Line = ErrorLine(outcome)
		return entry
	}

	if res := outcome.Result; res != nil {
		entry.Output = makeRelativePath(res.Output, workDir)
		entry.Tests = res.Tests
		entry.Mocks = res.Mocks
		entry.Fixtures = res.Fixtures
		entry.TargetLanguage = res.TargetLanguage
		entry.BackedUp = res.BackedUp
		entry.DurationMS = res.Duration.Milliseconds()
	}
	return entry
}

// Analyze transforms a runner.Result into a Report in a single pass.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}
	report.Totals.DurationMS = result.Duration.Milliseconds()

	dirs := make(map[string]*DirAnalysis)

	for _, outcome := range result.Files {
		entry := newFileEntry(outcome, opts.WorkingDir)

		report.Totals.Files++
		report.Totals.Tests += entry.Tests
		report.Totals.Mocks += entry.Mocks
		report.Totals.Fixtures += entry.Fixtures

		dir := filepath.Dir(entry.Path)
		da, ok := dirs[dir]
		if !ok {
			da = &DirAnalysis{Dir: dir}
			dirs[dir] = da
		}
		da.Files++
		da.Tests += entry.Tests

		switch entry.Status {
		case StatusFailed:
			report.Totals.Failed++
			da.Failed++
		case StatusGenerated:
			report.Totals.Generated++
			da.Generated++
		default:
			report.Totals.Unchanged++
			da.Unchanged++
		}

		if opts.IncludeFiles {
			report.Files = append(report.Files, entry)
		}
	}

	if opts.IncludeByDir {
		report.ByDir = make([]DirAnalysis, 0, len(dirs))
		for _, da := range dirs {
			report.ByDir = append(report.ByDir, *da)
		}
		sortDirAnalysis(report.ByDir, opts.SortBy, opts.SortDesc)
	}

	return report
}

func sortDirAnalysis(dirs []DirAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(dirs, func(left, right DirAnalysis) int {
		var result int
		switch sortBy {
		case SortByFailures:
			// Most failures first regardless of desc.
			result = cmp.Compare(right.Failed, left.Failed)
		case SortByCount:
			result = cmp.Compare(left.Files, right.Files)
			if desc {
				result = -result
			}
		}
		if result == 0 {
			result = cmp.Compare(left.Dir, right.Dir)
		}
		return result
	})
}
