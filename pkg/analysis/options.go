package analysis

// SortField specifies how to sort the per-directory view.
type SortField string

const (
	// SortByCount sorts by number of files (descending by default).
	SortByCount SortField = "count"
	// SortByAlpha sorts alphabetically.
	SortByAlpha SortField = "alpha"
	// SortByFailures sorts by failed files, most failures first.
	SortByFailures SortField = "failures"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortByFailures:
		return true
	default:
		return false
	}
}

// Options configures the Analyze function.
type Options struct {
	// IncludeFiles includes the per-file entries.
	IncludeFiles bool

	// IncludeByDir includes the per-directory analysis.
	IncludeByDir bool

	// SortBy specifies how to sort ByDir.
	SortBy SortField

	// SortDesc sorts in descending order (highest first).
	SortDesc bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		IncludeFiles: true,
		IncludeByDir: true,
		SortBy:       SortByAlpha,
	}
}
