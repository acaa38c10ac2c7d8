package config

import (
	"bytes"
	"fmt"
)

// DefaultFileName is the project configuration file written by init.
const DefaultFileName = ".hypocrite.yml"

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value. Otherwise the
	// settings are present but commented out.
	Full bool
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		return generateFullTemplate()
	}
	return []byte(DefaultTemplateHeader() + `

# Directory for generated C files (default: current directory)
# output_dir: build/tests

# Directory with template overrides (test.c, mock.c, fixture.c, master.c, ...)
# template_dir: templates

# Input extensions for "hypocrite batch"
# extensions:
#   - .hypo

# Paths to skip in batch mode (glob patterns)
# ignore:
#   - "vendor/**"

# Number of parallel workers (0 = auto)
# jobs: 0

# Styled output: auto, always, or never
# color: auto

# Keep the previous output next to the new one
# backups:
#   enabled: false
#   mode: sidecar

# Leave outputs whose content has not changed untouched
# write_if_changed: true
`), nil
}

func generateFullTemplate() ([]byte, error) {
	body, err := NewConfig().ToYAML()
	if err != nil {
		return nil, fmt.Errorf("generate template: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// DefaultTemplateHeader returns the header for generated configs.
func DefaultTemplateHeader() string {
	return `# hypocrite configuration
# See: https://github.com/yaklabco/hypocrite`
}
