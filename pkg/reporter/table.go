package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/yaklabco/hypocrite/internal/ui/pretty"
	"github.com/yaklabco/hypocrite/pkg/runner"
)

// defaultTermWidth is used when terminal width cannot be determined.
const defaultTermWidth = 100

// TableReporter lists every file with its outcome in a table.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	errStyles *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer))

	termWidth := opts.TermWidth
	if termWidth <= 0 {
		termWidth = getTerminalWidth(opts.Writer)
	}

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		errStyles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.errorWriter())),
		formatter: pretty.NewTableFormatter(styles, termWidth),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(ctx context.Context, result *runner.Result) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if err := writeFailures(ctx, r.opts, r.errStyles, result); err != nil {
		return err
	}

	if result != nil && len(result.Files) > 0 {
		fmt.Fprint(r.bw, r.formatter.FormatFiles(result))
	}

	if r.opts.ShowSummary {
		stats := runner.Stats{}
		if result != nil {
			stats = result.Stats
		}
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(stats))
	}

	return nil
}

// getTerminalWidth returns the width of w, or defaultTermWidth when w is
// not a terminal.
func getTerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultTermWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}
