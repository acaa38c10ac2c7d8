package analysis

import "time"

// Status values of a file in a batch run.
const (
	StatusGenerated = "generated"
	StatusUnchanged = "unchanged"
	StatusFailed    = "failed"
)

// Report contains pre-computed views of a batch run.
// Computed once by Analyze(), used by all renderers.
type Report struct {
	// Files lists every input in run order.
	Files []FileEntry `json:"files,omitempty"`

	// ByDir groups inputs by the directory they were found in.
	ByDir []DirAnalysis `json:"byDir,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// FileEntry describes one input file.
type FileEntry struct {
	Path   string `json:"path"`
	Output string `json:"output,omitempty"`
	Status string `json:"status"`

	Tests    int `json:"tests"`
	Mocks    int `json:"mocks"`
	Fixtures int `json:"fixtures"`

	TargetLanguage string `json:"targetLanguage,omitempty"`
	BackedUp       bool   `json:"backedUp,omitempty"`
	DurationMS     int64  `json:"durationMs"`

	// Error is the failure message; Line is the input line it points at,
	// or 0 when the failure is not a parse error in the input.
	Error string `json:"error,omitempty"`
	Line  int    `json:"line,omitempty"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files     int `json:"files"`
	Generated int `json:"generated"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`

	Tests    int `json:"tests"`
	Mocks    int `json:"mocks"`
	Fixtures int `json:"fixtures"`

	DurationMS int64 `json:"durationMs"`
}

// HasFailures returns true if any file failed.
func (t Totals) HasFailures() bool {
	return t.Failed > 0
}

// DirAnalysis contains aggregated data for one directory.
type DirAnalysis struct {
	Dir       string `json:"dir"`
	Files     int    `json:"files"`
	Generated int    `json:"generated"`
	Unchanged int    `json:"unchanged"`
	Failed    int    `json:"failed"`
	Tests     int    `json:"tests"`
}
