package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Discover expands paths into the input files they name. Files are
// returned as given; directories are walked recursively for files with a
// matching extension, skipping hidden entries and ignored paths.
//
// The result is deduplicated and sorted, with absolute paths.
func Discover(ctx context.Context, paths []string, opts DiscoverOptions) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	ignore, err := compileIgnore(opts.Ignore)
	if err != nil {
		return nil, err
	}

	walker := &walker{
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		ignore:     ignore,
		follow:     opts.FollowSymlinks,
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(found ...string) {
		for _, f := range found {
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				files = append(files, f)
			}
		}
	}

	for _, inputPath := range paths {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			// Explicitly named files are taken whatever their extension.
			add(absPath)
			continue
		}

		discovered, err := walker.walk(ctx, absPath)
		if err != nil {
			return nil, err
		}
		add(discovered...)
	}

	sort.Strings(files)

	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func compileIgnore(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

type walker struct {
	workDir    string
	extensions []string
	ignore     []glob.Glob
	follow     bool
}

func (w *walker) walk(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if path != root && w.ignored(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			if info.IsDir() {
				if !w.follow || w.ignored(path, true) {
					return nil
				}
				realPath, evalErr := filepath.EvalSymlinks(path)
				if evalErr != nil {
					return nil //nolint:nilerr // unresolvable symlinks are skipped
				}
				// Walk the target: WalkDir does not descend through a
				// symlinked root.
				sub, err := w.walk(ctx, realPath)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if w.hasExtension(path) && !w.ignored(path, false) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

func (w *walker) hasExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range w.extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// ignored matches path, relative to the working directory, against the
// ignore patterns. Patterns are also tried against the base name so that
// "*.gen.hypo" works at any depth, and directories are tried with a
// trailing slash so that "build/**" prunes build itself.
func (w *walker) ignored(path string, isDir bool) bool {
	if len(w.ignore) == 0 {
		return false
	}

	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)

	for _, g := range w.ignore {
		if g.Match(rel) || g.Match(base) {
			return true
		}
		if isDir && g.Match(rel+"/") {
			return true
		}
	}
	return false
}
