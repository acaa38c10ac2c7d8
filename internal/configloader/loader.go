// Package configloader resolves the effective configuration. It implements
// XDG-compliant discovery, layered merging, environment variables and
// validation.
package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/hypocrite/pkg/config"
)

// LoadOptions controls configuration loading.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to the current working directory.
	WorkingDir string

	// ExplicitPath is a config file named with --config. It is loaded
	// after the discovered files, even when NoConfig is set.
	ExplicitPath string

	// NoConfig skips discovery of system, user and project files.
	NoConfig bool

	// IgnoreSystemConfig skips the system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips the user-level configuration.
	IgnoreUserConfig bool

	// IgnoreEnv skips HYPOCRITE_* environment variables.
	IgnoreEnv bool

	// LookupEnv reads environment variables. Defaults to os.LookupEnv.
	LookupEnv LookupFunc

	// CLIConfig contains configuration from CLI flags. It takes the
	// highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were loaded, in merge order.
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (HYPOCRITE_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.hypocrite.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/hypocrite/config.yml)
//  6. System config (/etc/hypocrite/config.yml)
//  7. Defaults
//
// Every error returned matches config.ErrInvalidConfig.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{Paths: &ConfigPaths{}}

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("%w: get working directory: %w", config.ErrInvalidConfig, err)
		}
	}

	if !opts.NoConfig {
		paths, err := DiscoverPaths(ctx, workDir)
		if err != nil {
			return nil, fmt.Errorf("%w: discover paths: %w", config.ErrInvalidConfig, err)
		}
		if opts.IgnoreSystemConfig {
			paths.System = ""
		}
		if opts.IgnoreUserConfig {
			paths.User = ""
		}
		result.Paths = paths
	}
	result.Paths.Explicit = opts.ExplicitPath

	configs := []*config.Config{config.NewConfig()}

	layers := []struct {
		kind string
		path string
	}{
		{"system", result.Paths.System},
		{"user", result.Paths.User},
		{"project", result.Paths.Project},
		{"explicit", result.Paths.Explicit},
	}
	for _, layer := range layers {
		if layer.path == "" {
			continue
		}
		fileCfg, err := loadConfigFile(layer.path, result)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.kind, err)
		}
		configs = append(configs, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}
	cfg := MergeAll(configs...)

	if !opts.IgnoreEnv {
		lookup := opts.LookupEnv
		if lookup == nil {
			lookup = os.LookupEnv
		}
		if err := loadFromEnv(cfg, lookup); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	// File layers were checked as they loaded and report their own
	// warnings; this pass catches bad environment or flag values.
	if err := config.Validate(cfg).Err(); err != nil {
		return nil, err
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile reads and validates one YAML file. Validation happens per
// file so that errors name the file they came from.
func loadConfigFile(path string, result *LoadResult) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: file not found", config.ErrInvalidConfig, path)
		}
		return nil, fmt.Errorf("%w: read %s: %w", config.ErrInvalidConfig, path, err)
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	validation := config.ValidateWithFile(cfg, path)
	if err := validation.Err(); err != nil {
		return nil, err
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	return cfg, nil
}
