package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/hypocrite/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int) string {
	if n == 1 {
		return wordFile
	}
	return wordFiles
}

// FormatSummaryOneLine formats batch statistics as a single line.
// Example: "3 generated, 1 unchanged, 1 failed (5 files)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.Processed == 0 {
		return s.Dim.Render("No input files found") + "\n"
	}

	parts := []string{
		s.Success.Render(fmt.Sprintf("%d generated", stats.Generated)),
		s.Dim.Render(fmt.Sprintf("%d unchanged", stats.Unchanged)),
	}
	if stats.Failed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.Failed)))
	}

	return strings.Join(parts, ", ") +
		s.Dim.Render(fmt.Sprintf(" (%d %s)", stats.Processed, plural(stats.Processed))) + "\n"
}

// FormatSummary formats batch statistics as a summary block.
func (s *Styles) FormatSummary(result *runner.Result) string {
	stats := result.Stats

	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files processed:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.Processed)) + "\n")
	builder.WriteString("  Generated:         " +
		s.Success.Render(strconv.Itoa(stats.Generated)) + "\n")
	builder.WriteString("  Unchanged:         " +
		s.SummaryValue.Render(strconv.Itoa(stats.Unchanged)) + "\n")
	if stats.Failed > 0 {
		builder.WriteString("  Failed:            " +
			s.Failure.Render(strconv.Itoa(stats.Failed)) + "\n")
	}
	builder.WriteString("  Duration:          " +
		s.SummaryValue.Render(result.Duration.Round(time.Millisecond).String()) + "\n")

	builder.WriteString("\n")

	if stats.Failed > 0 {
		builder.WriteString(s.Failure.Render("Generation failed"))
	} else {
		builder.WriteString(s.Success.Render("Generation succeeded"))
	}
	builder.WriteString("\n")

	return builder.String()
}
