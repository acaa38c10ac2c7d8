package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hypocrite/internal/ui/pretty"
	"github.com/yaklabco/hypocrite/pkg/analysis"
	"github.com/yaklabco/hypocrite/pkg/generator"
	"github.com/yaklabco/hypocrite/pkg/location"
	"github.com/yaklabco/hypocrite/pkg/perfile"
	"github.com/yaklabco/hypocrite/pkg/reporter"
	"github.com/yaklabco/hypocrite/pkg/runner"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "table", input: "table", want: reporter.FormatTable},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format reporter.Format
		want   bool
	}{
		{reporter.FormatText, true},
		{reporter.FormatTable, true},
		{reporter.FormatJSON, true},
		{reporter.FormatSummary, true},
		{reporter.Format("diff"), false},
		{reporter.Format(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.format.IsValid())
		})
	}
}

func TestFormats(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"text", "table", "json", "summary"}, reporter.Formats())
}

func TestNew_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: "xml"})
	require.Error(t, err)
}

// batchResult returns a result with one generated file and one parse
// failure pointing into a real input.
func batchResult(t *testing.T) (*runner.Result, string) {
	t.Helper()

	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.hypo")
	require.NoError(t, os.WriteFile(broken, []byte("/* header */\n%test t {\n  x();\n"), 0o644))

	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: filepath.Join(dir, "widget.hypo"),
				Result: &generator.Result{
					Output:   filepath.Join(dir, "widget.c"),
					Changed:  true,
					Tests:    2,
					Mocks:    1,
					Fixtures: 1,
				},
			},
			{
				Path:  broken,
				Error: perfile.Errorf(location.At(broken, 2), "unclosed %%test directive at end of file"),
			},
		},
		Stats:    runner.Stats{Processed: 2, Generated: 1, Failed: 1},
		Duration: 3 * time.Millisecond,
	}, dir
}

func newReporter(t *testing.T, format reporter.Format, stdout, stderr *bytes.Buffer, workDir string) reporter.Reporter {
	t.Helper()

	rep, err := reporter.New(reporter.Options{
		Writer:      stdout,
		ErrorWriter: stderr,
		Format:      format,
		Color:       "never",
		ShowContext: true,
		ShowSummary: true,
		TermWidth:   200,
		WorkingDir:  workDir,
	})
	require.NoError(t, err)
	return rep
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	result, _ := batchResult(t)
	var stdout, stderr bytes.Buffer
	rep := newReporter(t, reporter.FormatText, &stdout, &stderr, "")

	require.NoError(t, rep.Report(context.Background(), result))

	assert.Contains(t, stderr.String(), "broken.hypo:2  error  unclosed %test directive at end of file")
	assert.Contains(t, stderr.String(), "    > 2 | %test t {")
	assert.Contains(t, stderr.String(), "        | ^\n")
	assert.Contains(t, stderr.String(), "      3 |   x();")

	assert.Contains(t, stdout.String(), "Files processed:   2")
	assert.Contains(t, stdout.String(), "Failed:            1")
	assert.Contains(t, stdout.String(), "Generation failed")
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	rep := newReporter(t, reporter.FormatText, &stdout, &stderr, "")

	require.NoError(t, rep.Report(context.Background(), &runner.Result{}))
	assert.Equal(t, "No input files found\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestTextReporter_ErrorWriterDefaultsToWriter(t *testing.T) {
	t.Parallel()

	result, _ := batchResult(t)
	var out bytes.Buffer
	rep, err := reporter.New(reporter.Options{Writer: &out, Color: "never", ShowSummary: true})
	require.NoError(t, err)

	require.NoError(t, rep.Report(context.Background(), result))
	assert.Contains(t, out.String(), "unclosed %test directive")
	assert.Contains(t, out.String(), "Generation failed")
	// ShowContext is off.
	assert.NotContains(t, out.String(), "> 2 |")
}

func TestTableReporter(t *testing.T) {
	t.Parallel()

	result, _ := batchResult(t)
	var stdout, stderr bytes.Buffer
	rep := newReporter(t, reporter.FormatTable, &stdout, &stderr, "")

	require.NoError(t, rep.Report(context.Background(), result))

	out := stdout.String()
	assert.Contains(t, out, "INPUT")
	assert.Contains(t, out, "widget.hypo")
	assert.Contains(t, out, analysis.StatusGenerated)
	assert.Contains(t, out, analysis.StatusFailed)
	assert.Contains(t, out, "1 generated, 0 unchanged, 1 failed (2 files)\n")
	assert.Contains(t, stderr.String(), "unclosed %test directive")
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	result, dir := batchResult(t)
	var stdout, stderr bytes.Buffer
	rep := newReporter(t, reporter.FormatJSON, &stdout, &stderr, dir)

	require.NoError(t, rep.Report(context.Background(), result))
	assert.Empty(t, stderr.String())

	var report analysis.Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))

	assert.Equal(t, analysis.ReportVersion, report.Version)
	assert.Equal(t, 2, report.Totals.Files)
	assert.Equal(t, 1, report.Totals.Failed)
	require.Len(t, report.Files, 2)
	assert.Equal(t, "widget.hypo", report.Files[0].Path)
	assert.Equal(t, "widget.c", report.Files[0].Output)
	assert.Equal(t, "broken.hypo", report.Files[1].Path)
	assert.Equal(t, 2, report.Files[1].Line)
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	rep, err := reporter.New(reporter.Options{Writer: &stdout, Format: reporter.FormatJSON, Compact: true})
	require.NoError(t, err)

	require.NoError(t, rep.Report(context.Background(), &runner.Result{}))
	assert.NotContains(t, stdout.String(), "\n  ")
	assert.Contains(t, stdout.String(), `"version":"1.0.0"`)
}

func TestSummaryRenderer(t *testing.T) {
	t.Parallel()

	result, dir := batchResult(t)
	var stdout, stderr bytes.Buffer
	rep := newReporter(t, reporter.FormatSummary, &stdout, &stderr, dir)

	require.NoError(t, rep.Report(context.Background(), result))

	out := stdout.String()
	assert.Contains(t, out, "DIRECTORY")
	assert.Contains(t, out, "Total: 2 tests, 1 mocks, 1 fixtures in 2 files\n")
}

func TestSummaryRenderer_Empty(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	rep := newReporter(t, reporter.FormatSummary, &stdout, &stderr, "")

	require.NoError(t, rep.Report(context.Background(), nil))
	assert.Equal(t, "No input files found\n", stdout.String())
}

func TestWriteFailure(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	dir := t.TempDir()
	input := filepath.Join(dir, "in.hypo")
	require.NoError(t, os.WriteFile(input, []byte("%mock int\n"), 0o644))

	tests := []struct {
		name        string
		err         error
		showContext bool
		want        string
	}{
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: "error: boom\n",
		},
		{
			name: "parse error without context",
			err:  perfile.Errorf(location.At(input, 1), "invalid %%mock directive"),
			want: "  " + input + ":1  error  invalid %mock directive\n",
		},
		{
			name:        "parse error with context",
			err:         perfile.Errorf(location.At(input, 1), "invalid %%mock directive"),
			showContext: true,
			want: "  " + input + ":1  error  invalid %mock directive\n" +
				"    > 1 | %mock int\n" +
				"        | ^\n",
		},
		{
			name:        "parse error in another file",
			err:         perfile.Errorf(location.At("master.c", 3), "undefined variable"),
			showContext: true,
			want:        "  master.c:3  error  undefined variable\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, reporter.WriteFailure(context.Background(), &buf, styles, input, tt.err, tt.showContext))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
