package reporter

import (
	"fmt"
	"slices"
	"strings"
)

// Format names a batch output format.
type Format string

// Output formats supported by the reporter.
const (
	FormatText    Format = "text"
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

//nolint:gochecknoglobals // fixed list of formats
var formats = []Format{FormatText, FormatTable, FormatJSON, FormatSummary}

// Formats returns the names of all formats, default first.
func Formats() []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

// ParseFormat parses a format name. The empty string selects text.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	format := Format(name)
	if !format.IsValid() {
		return "", fmt.Errorf("unknown format %q; valid formats: %s", name, strings.Join(Formats(), ", "))
	}
	return format, nil
}

func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	return slices.Contains(formats, f)
}
