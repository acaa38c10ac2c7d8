package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/hypocrite/internal/ui/pretty"
	"github.com/yaklabco/hypocrite/pkg/analysis"
)

// SummaryRenderer formats results as one table row per directory.
type SummaryRenderer struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer))

	termWidth := opts.TermWidth
	if termWidth <= 0 {
		termWidth = getTerminalWidth(opts.Writer)
	}

	return &SummaryRenderer{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, termWidth),
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if report.Totals.Files == 0 {
		_, err := io.WriteString(r.opts.Writer, r.styles.Dim.Render("No input files found")+"\n")
		return err
	}

	var builder strings.Builder

	table := pretty.Table{
		Headers: []string{"FILES", "GENERATED", "UNCHANGED", "FAILED", "TESTS", "DIRECTORY"},
		RowStyle: func(row []string) *lipgloss.Style {
			if row[3] != "0" {
				return &r.styles.TableFailedRow
			}
			return nil
		},
	}
	for _, dir := range report.ByDir {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(dir.Files),
			strconv.Itoa(dir.Generated),
			strconv.Itoa(dir.Unchanged),
			strconv.Itoa(dir.Failed),
			strconv.Itoa(dir.Tests),
			dir.Dir,
		})
	}
	builder.WriteString(r.formatter.Format(table))

	totals := report.Totals
	builder.WriteString(fmt.Sprintf("%s %d tests, %d mocks, %d fixtures in %d %s\n",
		r.styles.SummaryTitle.Render("Total:"),
		totals.Tests, totals.Mocks, totals.Fixtures,
		totals.Files, fileWord(totals.Files),
	))

	_, err := io.WriteString(r.opts.Writer, builder.String())
	return err
}

func fileWord(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}
