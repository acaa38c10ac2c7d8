package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hypocrite/internal/logging"
	"github.com/yaklabco/hypocrite/internal/ui/pretty"
	"github.com/yaklabco/hypocrite/pkg/config"
	"github.com/yaklabco/hypocrite/pkg/reporter"
	"github.com/yaklabco/hypocrite/pkg/runner"
)

type batchFlags struct {
	jobs    int
	ignore  []string
	format  string
	compact bool
}

func newBatchCommand(global *globalFlags) *cobra.Command {
	flags := &batchFlags{}

	cmd := &cobra.Command{
		Use:   "batch [paths...]",
		Short: "Generate every input file under the given paths",
		Long: `Generate test programs for many input files at once.

Directories are searched recursively for files with a configured extension
(.hypo by default). Hidden files and directories are skipped, as are paths
matching an ignore pattern. Files named explicitly are always generated.
With no paths, the current directory is searched.

Each input is written to its own output, derived from its base name and
placed in the output directory. Generation runs in parallel; a failure in
one file does not stop the others.

Output formats:
  text     failures followed by a summary block (default)
  table    one row per input with its outcome and counts
  json     machine-readable report of every input
  summary  one row per directory with totals`,
		Example: `  hypocrite batch                        Generate everything below .
  hypocrite batch tests/ --output-dir build/tests
  hypocrite batch --ignore 'vendor/**' --jobs 4
  hypocrite batch --format json > report.json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, global, flags, args)
		},
	}

	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, withEnv("number of parallel workers (0 means one per CPU)", "jobs"))
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, withEnv("glob pattern of paths to skip (repeatable)", "ignore"))
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "output format: "+strings.Join(reporter.Formats(), ", "))
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minify json output")

	return cmd
}

func runBatch(cmd *cobra.Command, global *globalFlags, flags *batchFlags, args []string) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	cli := cliConfig(cmd, global)
	if cmd.Flags().Changed("jobs") {
		cli.Jobs = flags.jobs
	}
	if cmd.Flags().Changed("ignore") {
		cli.Ignore = flags.ignore
	}

	cfg, err := loadConfig(cmd, global, cli)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := runner.Discover(ctx, paths, runner.DiscoverOptions{
		WorkingDir: workDir,
		Extensions: cfg.Extensions,
		Ignore:     cfg.Ignore,
	})
	if err != nil {
		return err
	}
	logger.Debug("discovered input files", logging.FieldCount, len(files))
	warnCollisions(cmd, cfg, runner.Collisions(files, cfg.OutputDir))

	base := generatorOptions(cfg, templateCache(cfg))
	base.Logger = logger

	result, err := runner.Run(ctx, files, runner.Options{
		Jobs:     cfg.Jobs,
		Generate: runner.GenerateWith(base),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       string(cfg.Color),
		ShowContext: true,
		ShowSummary: true,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return err
	}
	if err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if result.HasFailures() {
		return ErrGenerationFailed
	}
	return nil
}

// warnCollisions reports inputs that would overwrite each other's output.
func warnCollisions(cmd *cobra.Command, cfg *config.Config, collisions []runner.Collision) {
	if len(collisions) == 0 {
		return
	}
	stderr := cmd.ErrOrStderr()
	styles := pretty.NewStyles(pretty.IsColorEnabled(string(cfg.Color), stderr))
	for _, c := range collisions {
		fmt.Fprint(stderr, styles.FormatWarning(fmt.Sprintf("%s is generated from more than one input: %s",
			c.Output, strings.Join(c.Inputs, ", "))))
	}
}
