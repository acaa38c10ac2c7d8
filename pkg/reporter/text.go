package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/hypocrite/internal/ui/pretty"
	"github.com/yaklabco/hypocrite/pkg/runner"
)

// TextReporter writes failure diagnostics followed by a summary block.
type TextReporter struct {
	opts      Options
	styles    *pretty.Styles
	errStyles *pretty.Styles
	bw        *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{
		opts:      opts,
		styles:    pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		errStyles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.errorWriter())),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if err := writeFailures(ctx, r.opts, r.errStyles, result); err != nil {
		return err
	}

	if !r.opts.ShowSummary {
		return nil
	}
	if result == nil || len(result.Files) == 0 {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(runner.Stats{}))
		return nil
	}
	fmt.Fprint(r.bw, r.styles.FormatSummary(result))
	return nil
}

// writeFailures reports every failed file to the error writer.
func writeFailures(ctx context.Context, opts Options, styles *pretty.Styles, result *runner.Result) error {
	if result == nil {
		return nil
	}
	w := opts.errorWriter()
	for _, failure := range result.Failures() {
		if err := WriteFailure(ctx, w, styles, failure.Path, failure.Error, opts.ShowContext); err != nil {
			return fmt.Errorf("write failure: %w", err)
		}
	}
	return nil
}
