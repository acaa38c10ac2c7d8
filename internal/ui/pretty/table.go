package pretty

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/hypocrite/pkg/analysis"
	"github.com/yaklabco/hypocrite/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minColumnWidth   = 6
	heavySeparator   = "="
	defaultTermWidth = 100
	ellipsis         = "..."
)

// Table is a simple column-aligned table.
type Table struct {
	Headers []string
	Rows    [][]string

	// RowStyle optionally styles a whole row.
	RowStyle func(row []string) *lipgloss.Style
}

// TableFormatter formats tables to fit the terminal.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// Format renders table. The last column is truncated to fit the terminal.
func (t *TableFormatter) Format(table Table) string {
	if len(table.Headers) == 0 {
		return ""
	}

	widths := t.columnWidths(table)

	var builder strings.Builder
	builder.WriteString(t.styles.TableHeader.Render(formatCells(table.Headers, widths)))
	builder.WriteString("\n")
	builder.WriteString(t.separator(widths))
	builder.WriteString("\n")

	for _, row := range table.Rows {
		line := formatCells(row, widths)
		if table.RowStyle != nil {
			if style := table.RowStyle(row); style != nil {
				line = style.Render(line)
			}
		}
		builder.WriteString(line)
		builder.WriteString("\n")
	}

	builder.WriteString(t.separator(widths))
	builder.WriteString("\n")

	return builder.String()
}

// FormatFiles renders one row per file of a batch run.
func (t *TableFormatter) FormatFiles(result *runner.Result) string {
	if result == nil || len(result.Files) == 0 {
		return ""
	}

	table := Table{
		Headers: []string{"INPUT", "STATUS", "TESTS", "MOCKS", "FIXTURES", "OUTPUT"},
		RowStyle: func(row []string) *lipgloss.Style {
			if row[1] == analysis.StatusFailed {
				return &t.styles.TableFailedRow
			}
			return nil
		},
	}

	for _, file := range result.Files {
		input := filepath.Base(file.Path)
		status := analysis.Status(file)
		switch {
		case file.Error != nil:
			table.Rows = append(table.Rows, []string{input, status, "-", "-", "-", "-"})
		case file.Result != nil:
			table.Rows = append(table.Rows, []string{
				input,
				status,
				strconv.Itoa(file.Result.Tests),
				strconv.Itoa(file.Result.Mocks),
				strconv.Itoa(file.Result.Fixtures),
				file.Result.Output,
			})
		}
	}

	return t.Format(table)
}

func (t *TableFormatter) columnWidths(table Table) []int {
	widths := make([]int, len(table.Headers))
	for i, h := range table.Headers {
		widths[i] = max(minColumnWidth, len(h))
	}
	for _, row := range table.Rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], len(row[i]))
		}
	}

	total := 1
	for _, w := range widths {
		total += w + tablePadding
	}
	if total > t.termWidth {
		last := len(widths) - 1
		widths[last] = max(minColumnWidth, widths[last]-(total-t.termWidth))
	}

	return widths
}

func (t *TableFormatter) separator(widths []int) string {
	total := 1
	for _, w := range widths {
		total += w + tablePadding
	}
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total-tablePadding))
}

func formatCells(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = truncateString(cells[i], w)
		}
		if i == len(widths)-1 {
			parts[i] = cell
		} else {
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
	}
	return " " + strings.Join(parts, strings.Repeat(" ", tablePadding))
}

// truncateString shortens s to width, marking the cut with an ellipsis.
func truncateString(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= len(ellipsis) {
		return s[:width]
	}
	return s[:width-len(ellipsis)] + ellipsis
}
