// Package runner generates many input files concurrently.
package runner

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/hypocrite/pkg/generator"
)

// DefaultExtension is the extension of input files.
const DefaultExtension = ".hypo"

// DiscoverOptions controls which files Discover returns.
type DiscoverOptions struct {
	// WorkingDir is the base directory used to resolve relative paths and
	// ignore patterns. If empty, the process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (with leading dot) treated
	// as input files. Defaults to DefaultExtensions().
	Extensions []string

	// Ignore holds glob patterns, relative to WorkingDir, for files and
	// directories to skip. "*" stops at "/" and "**" does not.
	Ignore []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool
}

// DefaultExtensions returns the default set of input file extensions.
func DefaultExtensions() []string {
	return []string{DefaultExtension}
}

func (o DiscoverOptions) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

// GenerateFunc generates the output for a single input file.
type GenerateFunc func(ctx context.Context, input string) (*generator.Result, error)

// GenerateWith returns a GenerateFunc that runs generator.Generate with
// base, substituting each input. Output is always derived per input.
func GenerateWith(base generator.Options) GenerateFunc {
	return func(ctx context.Context, input string) (*generator.Result, error) {
		opts := base
		opts.Input = input
		opts.Output = ""
		return generator.Generate(ctx, opts)
	}
}

// Options controls a batch run.
type Options struct {
	// Jobs is the maximum number of concurrent workers.
	// 0 or negative means runtime.GOMAXPROCS(0).
	Jobs int

	// Generate processes one file. Required.
	Generate GenerateFunc

	// Logger receives per-file progress. Nil uses the context logger.
	Logger *log.Logger
}
