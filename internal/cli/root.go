// Package cli provides the Cobra command structure for hypocrite.
package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hypocrite/internal/configloader"
	"github.com/yaklabco/hypocrite/internal/logging"
	"github.com/yaklabco/hypocrite/internal/ui/pretty"
	"github.com/yaklabco/hypocrite/pkg/config"
	"github.com/yaklabco/hypocrite/pkg/generator"
	"github.com/yaklabco/hypocrite/pkg/reporter"
	"github.com/yaklabco/hypocrite/pkg/template"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the flags shared by every command.
type globalFlags struct {
	debug       bool
	configPath  string
	noConfig    bool
	color       string
	outputDir   string
	templateDir string
	backup      bool
}

// NewRootCommand creates the root hypocrite command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}
	var output string

	rootCmd := &cobra.Command{
		Use:   "hypocrite [flags] INFILE",
		Short: "Generate C unit test programs from test description files",
		Long: `hypocrite turns a test description file into a self-contained C program.

The input names the C file under test with %target, declares mocks for the
functions it calls with %mock, and describes tests and fixtures in %test and
%fixture blocks. The generated program includes the target, replaces each
mocked function with a recording stub and runs every test in turn.

Exit codes:
  0  every file was generated
  1  generation failed
  2  invalid usage or configuration

Environment:
` + envHelp(),
		Example: `  hypocrite widget.hypo                 Write widget.c
  hypocrite -O tests/t_widget.c widget.hypo
  hypocrite batch tests/                Generate every .hypo file under tests/`,
		Args: usageArgs(cobra.ExactArgs(1)),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "info"
			if flags.debug {
				level = "debug"
				logging.SetLevel(level)
			}
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)
			cmd.SetContext(logging.WithLogger(commandContext(cmd), logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags, output, args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	// Global flags.
	pflags := rootCmd.PersistentFlags()
	pflags.BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	pflags.StringVar(&flags.configPath, "config", "", "path to config file")
	pflags.BoolVar(&flags.noConfig, "no-config", false, "ignore discovered config files")
	pflags.StringVar(&flags.color, "color", "auto", withEnv("colorize output: auto, always, never", "color"))
	pflags.StringVar(&flags.outputDir, "output-dir", "", withEnv("directory for generated files", "output_dir"))
	pflags.StringVar(&flags.templateDir, "template-dir", "",
		withEnv("directory of templates overriding the built-in ones", "template_dir"))
	pflags.BoolVar(&flags.backup, "backup", false, withEnv("keep the previous output next to the new one", "backups.enabled"))

	rootCmd.Flags().StringVarP(&output, "output", "O", "", "output file (default: INFILE with a .c extension)")

	rootCmd.AddCommand(newBatchCommand(flags))
	rootCmd.AddCommand(newTemplatesCommand(flags))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(flags.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// Execute runs the root command with args and returns the process exit
// code. Errors not already shown are printed to stderr.
func Execute(ctx context.Context, info BuildInfo, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand(info)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !Reported(err) {
		styles := pretty.NewStyles(pretty.IsColorEnabled(colorFlag(rootCmd), stderr))
		fmt.Fprint(stderr, styles.FormatError(err))
	}
	return ExitCode(err)
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return nil
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// envHelp lists the environment variables read by the config loader.
func envHelp() string {
	vars := configloader.ListEnvVars()
	names := slices.Sorted(maps.Keys(vars))
	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	var builder strings.Builder
	for _, name := range names {
		fmt.Fprintf(&builder, "  %-*s  %s\n", width, name, vars[name])
	}
	return strings.TrimSuffix(builder.String(), "\n")
}

// withEnv appends the environment variable for a config field to a flag
// usage.
func withEnv(usage, field string) string {
	if name := configloader.GetEnvVarName(field); name != "" {
		return usage + " [$" + name + "]"
	}
	return usage
}

func colorFlag(cmd *cobra.Command) string {
	color, err := cmd.PersistentFlags().GetString("color")
	if err != nil {
		return string(config.ColorAuto)
	}
	return color
}

// cliConfig returns the configuration layer given by flags. Only flags the
// user actually set are carried, so they do not mask config files.
func cliConfig(cmd *cobra.Command, flags *globalFlags) *config.Config {
	cfg := &config.Config{}
	changed := cmd.Flags().Changed

	if changed("output-dir") {
		cfg.OutputDir = flags.outputDir
	}
	if changed("template-dir") {
		cfg.TemplateDir = flags.templateDir
	}
	if changed("color") {
		cfg.Color = config.ColorMode(flags.color)
	}
	if changed("backup") {
		cfg.Backups.Enabled = config.Bool(flags.backup)
	}

	return cfg
}

// loadConfig resolves the configuration for a command, layering cli over
// the discovered files and the environment.
func loadConfig(cmd *cobra.Command, flags *globalFlags, cli *config.Config) (*config.Config, error) {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: flags.configPath,
		NoConfig:     flags.noConfig,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, err
	}

	if len(loadResult.Warnings) > 0 {
		stderr := cmd.ErrOrStderr()
		styles := pretty.NewStyles(pretty.IsColorEnabled(string(loadResult.Config.Color), stderr))
		for _, warning := range loadResult.Warnings {
			fmt.Fprint(stderr, styles.FormatWarning(warning))
		}
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfig, loadResult.LoadedFrom)
	}

	return loadResult.Config, nil
}

// templateCache returns the templates selected by cfg.
func templateCache(cfg *config.Config) *template.Cache {
	if cfg.TemplateDir == "" {
		return template.Default()
	}
	return template.NewCache(template.WithOverrideDir(cfg.TemplateDir))
}

// generatorOptions returns the generation settings shared by single-file
// and batch mode.
func generatorOptions(cfg *config.Config, templates *template.Cache) generator.Options {
	return generator.Options{
		OutputDir:      cfg.OutputDir,
		Templates:      templates,
		Backup:         cfg.BackupConfig(),
		WriteIfChanged: cfg.ShouldWriteIfChanged(),
	}
}

func runGenerate(cmd *cobra.Command, flags *globalFlags, output, input string) error {
	cfg, err := loadConfig(cmd, flags, cliConfig(cmd, flags))
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	opts := generatorOptions(cfg, templateCache(cfg))
	opts.Input = input
	opts.Output = output
	opts.Logger = logging.FromContext(ctx)

	if _, err := generator.Generate(ctx, opts); err != nil {
		styles := pretty.NewStyles(pretty.IsColorEnabled(string(cfg.Color), cmd.ErrOrStderr()))
		if werr := reporter.WriteFailure(ctx, cmd.ErrOrStderr(), styles, input, err, true); werr != nil {
			opts.Logger.Debug("write failure", logging.FieldError, werr)
		}
		return ErrGenerationFailed
	}

	return nil
}
