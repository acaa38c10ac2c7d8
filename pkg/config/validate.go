package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/hypocrite/pkg/fsutil"
)

// ErrInvalidConfig is matched by every configuration error.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError describes one invalid field.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "backups.mode").
	Field string

	// Value is the invalid value.
	Value any

	Message string

	// FilePath is the config file containing the error, if known.
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// Unwrap makes every ValidationError match ErrInvalidConfig.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are failures that prevent the configuration from being used.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns the first error, or nil.
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &r.Errors[0]
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "color",
			Value:   cfg.Color,
			Message: fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color),
		})
	}

	if _, err := fsutil.ParseBackupMode(cfg.Backups.Mode); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "backups.mode",
			Value:   cfg.Backups.Mode,
			Message: fmt.Sprintf("invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode),
		})
	}

	validateExtensions(cfg, result)
	validateIgnorePatterns(cfg, result)

	return result
}

// ValidateWithFile validates cfg and records filePath on every finding.
func ValidateWithFile(cfg *Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

func validateExtensions(cfg *Config, result *ValidationResult) {
	seen := make(map[string]bool, len(cfg.Extensions))
	for i, ext := range cfg.Extensions {
		field := fmt.Sprintf("extensions[%d]", i)
		if len(ext) < 2 || ext[0] != '.' || strings.ContainsAny(ext, `/\`) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Value:   ext,
				Message: fmt.Sprintf("invalid extension %q; must start with a dot", ext),
			})
			continue
		}
		key := strings.ToLower(ext)
		if seen[key] {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   field,
				Value:   ext,
				Message: fmt.Sprintf("extension %q listed more than once", ext),
			})
		}
		seen[key] = true
	}
}

func validateIgnorePatterns(cfg *Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}
