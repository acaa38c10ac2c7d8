package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hypocrite/internal/ui/pretty"
	"github.com/yaklabco/hypocrite/pkg/langdetect"
	"github.com/yaklabco/hypocrite/pkg/template"
)

// Output formats for the templates command.
const (
	formatText = "text"
	formatJSON = "json"
)

type templatesFlags struct {
	format string
	show   string
}

// templateInfo is the JSON form of a template.
type templateInfo struct {
	Name      string        `json:"name"`
	Language  string        `json:"language"`
	Defines   []string      `json:"defines"`
	Sections  []sectionInfo `json:"sections"`
	Structure []string      `json:"structure"`
}

type sectionInfo struct {
	Name     string   `json:"name"`
	Requires []string `json:"requires,omitempty"`
}

func newTemplatesCommand(global *globalFlags) *cobra.Command {
	flags := &templatesFlags{}

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the templates used to assemble test programs",
		Long: `List the templates used to assemble test programs, with the defines and
sections each one declares and the layout of its output.

Templates found in the template directory replace the built-in template
of the same name.

Examples:
  hypocrite templates                    List all templates
  hypocrite templates --format json      Output as JSON
  hypocrite templates --show master.c    Print the source of one template`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTemplates(cmd, global, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", formatText, "output format: text, json")
	cmd.Flags().StringVar(&flags.show, "show", "", "print the source of the named template")

	return cmd
}

func runTemplates(cmd *cobra.Command, global *globalFlags, flags *templatesFlags) error {
	if flags.format != formatText && flags.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be text or json", ErrUsage, flags.format)
	}

	cfg, err := loadConfig(cmd, global, cliConfig(cmd, global))
	if err != nil {
		return err
	}
	cache := templateCache(cfg)
	out := cmd.OutOrStdout()

	if flags.show != "" {
		source, err := cache.Source(flags.show)
		if err != nil {
			return err
		}
		_, err = out.Write(source)
		return err
	}

	names, err := cache.Names()
	if err != nil {
		return err
	}

	infos := make([]templateInfo, 0, len(names))
	for _, name := range names {
		info, err := describeTemplate(cache, name)
		if err != nil {
			return err
		}
		infos = append(infos, info)
	}

	if flags.format == formatJSON {
		return outputTemplatesJSON(out, infos)
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(string(cfg.Color), out))
	return outputTemplatesText(out, styles, infos)
}

func describeTemplate(cache *template.Cache, name string) (templateInfo, error) {
	tmpl, err := cache.Get(name)
	if err != nil {
		return templateInfo{}, err
	}
	source, err := cache.Source(name)
	if err != nil {
		return templateInfo{}, err
	}

	info := templateInfo{
		Name:      name,
		Language:  langdetect.Detect(name, source),
		Defines:   make([]string, 0, len(tmpl.Defines)),
		Sections:  make([]sectionInfo, 0, len(tmpl.Sections)),
		Structure: make([]string, 0, len(tmpl.Structure)),
	}
	for _, d := range tmpl.Defines {
		info.Defines = append(info.Defines, d.Name)
	}
	for _, s := range tmpl.Sections {
		info.Sections = append(info.Sections, sectionInfo{Name: s.Name, Requires: s.Requires})
	}
	for _, elem := range tmpl.Structure {
		info.Structure = append(info.Structure, fmt.Sprint(elem))
	}

	return info, nil
}

func outputTemplatesJSON(w io.Writer, infos []templateInfo) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(infos); err != nil {
		return fmt.Errorf("encode templates: %w", err)
	}
	return nil
}

func outputTemplatesText(w io.Writer, styles *pretty.Styles, infos []templateInfo) error {
	var builder strings.Builder

	for i, info := range infos {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(styles.Bold.Render(info.Name))
		builder.WriteString(styles.Dim.Render(" (" + info.Language + ")"))
		builder.WriteString("\n")

		if len(info.Defines) > 0 {
			builder.WriteString("  defines:   " + strings.Join(info.Defines, ", ") + "\n")
		}
		for _, s := range info.Sections {
			builder.WriteString("  section:   " + s.Name)
			if len(s.Requires) > 0 {
				builder.WriteString(styles.Dim.Render(" (" + strings.Join(s.Requires, ", ") + ")"))
			}
			builder.WriteString("\n")
		}
		for _, elem := range info.Structure {
			builder.WriteString("  structure: " + elem + "\n")
		}
	}

	_, err := io.WriteString(w, builder.String())
	return err
}

