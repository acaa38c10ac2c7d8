package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/hypocrite/internal/logging"
	"github.com/yaklabco/hypocrite/pkg/config"
	"github.com/yaklabco/hypocrite/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a hypocrite configuration file",
		Long: `Create a new .hypocrite.yml configuration file in the current directory.

The minimal file lists every setting commented out; --full writes the
defaults as live values. When the file already exists you are asked before
it is replaced, unless --force is given or stdin is not a terminal, in
which case the command fails.

Examples:
  hypocrite init                       Create a minimal .hypocrite.yml
  hypocrite init --full                Write every default
  hypocrite init --output ci.yml       Write to a custom file path`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "write every setting with its default value")
	cmd.Flags().StringVarP(&flags.output, "output", "o", config.DefaultFileName, "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	ctx := commandContext(cmd)
	logger := logging.NewInteractive(cmd.ErrOrStderr())

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		confirmed, err := confirmOverwrite(cmd, flags.output)
		if err != nil {
			return err
		}
		if !confirmed {
			logger.Info("left existing file unchanged", logging.FieldPath, flags.output)
			return nil
		}
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	return nil
}

// confirmOverwrite asks whether path may be replaced. Without a terminal
// on stdin there is nobody to ask, so it fails instead.
func confirmOverwrite(cmd *cobra.Command, path string) (bool, error) {
	in := cmd.InOrStdin()
	if !isTerminal(in) {
		return false, fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrUsage, path)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s already exists. Overwrite? [y/N] ", path)
	return readYes(in)
}

func readYes(r io.Reader) (bool, error) {
	answer, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
