// Package config defines the configuration model for hypocrite.
// These types are plain data; discovery and merging live in the loader.
package config

import "github.com/yaklabco/hypocrite/pkg/fsutil"

// DefaultExtension is the input file extension used when none is configured.
const DefaultExtension = ".hypo"

// ColorMode controls styled terminal output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether m is a known color mode.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// BackupsConfig controls whether the previous output is kept when a file
// is regenerated.
type BackupsConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Mode    string `yaml:"mode,omitempty"` // "sidecar" or "none"
}

// Config is the root configuration structure.
//
// Booleans are pointers so that a layer which does not mention a field
// leaves the lower layer's value alone when configurations are merged.
type Config struct {
	// OutputDir holds generated files. Empty means the current directory.
	OutputDir string `yaml:"output_dir,omitempty"`

	// TemplateDir holds template overrides, consulted before the built-in
	// templates.
	TemplateDir string `yaml:"template_dir,omitempty"`

	// Extensions are the input file extensions used by batch discovery.
	Extensions []string `yaml:"extensions,omitempty"`

	// Ignore contains glob patterns for files to skip in batch mode.
	Ignore []string `yaml:"ignore,omitempty"`

	// Jobs is the number of parallel workers. 0 means GOMAXPROCS.
	Jobs int `yaml:"jobs,omitempty"`

	Color ColorMode `yaml:"color,omitempty"`

	Backups BackupsConfig `yaml:"backups,omitempty"`

	// WriteIfChanged leaves outputs whose content is already current
	// untouched.
	WriteIfChanged *bool `yaml:"write_if_changed,omitempty"`
}

// NewConfig returns a Config holding the defaults.
func NewConfig() *Config {
	return &Config{
		Extensions: []string{DefaultExtension},
		Color:      ColorAuto,
		Backups: BackupsConfig{
			Enabled: Bool(false),
			Mode:    string(fsutil.BackupModeSidecar),
		},
		WriteIfChanged: Bool(true),
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// ShouldWriteIfChanged reports the effective write_if_changed setting.
func (c *Config) ShouldWriteIfChanged() bool {
	if c == nil || c.WriteIfChanged == nil {
		return true
	}
	return *c.WriteIfChanged
}

// BackupConfig converts the backups section for the file layer. The mode
// is assumed valid; see Validate.
func (c *Config) BackupConfig() fsutil.BackupConfig {
	cfg := fsutil.DefaultBackupConfig()
	if c == nil {
		return cfg
	}
	if c.Backups.Enabled != nil {
		cfg.Enabled = *c.Backups.Enabled
	}
	if mode, err := fsutil.ParseBackupMode(c.Backups.Mode); err == nil {
		cfg.Mode = mode
	}
	return cfg
}
