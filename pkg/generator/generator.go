// Package generator turns one input file into a C test program on disk.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/hypocrite/internal/logging"
	"github.com/yaklabco/hypocrite/pkg/fsutil"
	"github.com/yaklabco/hypocrite/pkg/hypofile"
	"github.com/yaklabco/hypocrite/pkg/langdetect"
	"github.com/yaklabco/hypocrite/pkg/template"
)

// OutputExt is the extension given to derived output paths.
const OutputExt = ".c"

// Options controls a single generation.
type Options struct {
	// Input is the path of the input file.
	Input string

	// Output is the path to write. When empty it is derived from Input
	// with OutputPath.
	Output string

	// OutputDir holds derived outputs. Empty means the current directory.
	// It is ignored when Output is set.
	OutputDir string

	// Templates supplies the templates. Nil selects the built-in set.
	Templates hypofile.Templates

	// Backup controls whether the previous output is kept.
	Backup fsutil.BackupConfig

	// WriteIfChanged leaves an identical existing output untouched,
	// preserving its modification time for build tools.
	WriteIfChanged bool

	// Logger receives progress and warnings. Nil uses the context logger.
	Logger *log.Logger
}

// Result describes a completed generation.
type Result struct {
	Input  string
	Output string

	// Changed is false when WriteIfChanged found the output up to date.
	Changed bool

	// BackedUp is set when the previous output was saved.
	BackedUp bool

	// TargetLanguage is the detected language of the %target file, or
	// empty when the input names no target.
	TargetLanguage string

	Tests    int
	Mocks    int
	Fixtures int

	Duration time.Duration
}

// OutputPath derives the output path for input: its base name with the
// extension replaced by ".c", placed in outputDir.
func OutputPath(input, outputDir string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + OutputExt
	if outputDir == "" {
		return name
	}
	return filepath.Join(outputDir, name)
}

// TestName returns the name the generated program reports itself by: the
// output base name without its extension.
func TestName(output string) string {
	base := filepath.Base(output)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Generate parses opts.Input, renders it and writes the result. Nothing is
// written unless rendering succeeds, and the write itself is atomic.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	templates := opts.Templates
	if templates == nil {
		templates = template.Default()
	}

	output := opts.Output
	if output == "" {
		output = OutputPath(opts.Input, opts.OutputDir)
	}

	content, info, err := fsutil.ReadFile(ctx, opts.Input)
	if err != nil {
		return nil, err
	}

	file, err := hypofile.Parse(ctx, bytes.NewReader(content), opts.Input)
	if err != nil {
		return nil, err
	}

	lines, err := file.Render(templates, TestName(output))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := lines.Output(&buf, output); err != nil {
		return nil, fmt.Errorf("serialize %s: %w", output, err)
	}

	// An input edited while we rendered would leave a stale output that
	// looks fresh.
	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		return nil, err
	}
	if modified {
		return nil, fmt.Errorf("%w: %s", fsutil.ErrModified, opts.Input)
	}

	result := &Result{
		Input:    opts.Input,
		Output:   output,
		Tests:    len(file.Tests),
		Mocks:    len(file.Mocks),
		Fixtures: len(file.Fixtures),
	}

	if file.Target != "" {
		result.TargetLanguage = detectTarget(opts.Input, file.Target)
		if !langdetect.IsC(result.TargetLanguage) {
			logger.Warn("target does not look like C source",
				logging.FieldInput, opts.Input,
				logging.FieldTarget, file.Target,
				logging.FieldLanguage, result.TargetLanguage)
		}
	}

	if err := write(ctx, opts, output, buf.Bytes(), result); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	logger.Debug("generated",
		logging.FieldInput, result.Input,
		logging.FieldOutput, result.Output,
		logging.FieldChanged, result.Changed,
		logging.FieldDuration, result.Duration)

	return result, nil
}

func write(ctx context.Context, opts Options, output string, data []byte, result *Result) error {
	if opts.WriteIfChanged {
		// An up-to-date output is left alone, backup included.
		if current, _, err := fsutil.ReadFile(ctx, output); err == nil && bytes.Equal(current, data) {
			return nil
		}
	}

	backedUp, err := fsutil.CreateBackup(ctx, output, opts.Backup)
	if err != nil {
		return err
	}
	result.BackedUp = backedUp

	if opts.WriteIfChanged {
		changed, err := fsutil.WriteAtomicIfChanged(ctx, output, data, 0)
		if err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		result.Changed = changed
		return nil
	}

	if err := fsutil.WriteAtomic(ctx, output, data, 0); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	result.Changed = true
	return nil
}

// detectTarget classifies the target file, resolved relative to the input
// file. A target that cannot be read is classified by name alone.
func detectTarget(input, target string) string {
	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(input), target)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return langdetect.Detect(target, nil)
	}
	return langdetect.Detect(target, content)
}
