package runner_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yaklabco/hypocrite/pkg/generator"
	"github.com/yaklabco/hypocrite/pkg/runner"
	"github.com/yaklabco/hypocrite/pkg/template"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{})
}

func inputs(n int) []string {
	files := make([]string, n)
	for i := range files {
		files[i] = fmt.Sprintf("file%02d.hypo", i)
	}
	return files
}

func TestRun_NoGenerate(t *testing.T) {
	t.Parallel()

	_, err := runner.Run(context.Background(), inputs(1), runner.Options{})
	require.ErrorIs(t, err, runner.ErrNoGenerate)
}

func TestRun_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := runner.Run(context.Background(), nil, runner.Options{
		Generate: func(context.Context, string) (*generator.Result, error) {
			t.Error("generate called with no files")
			return nil, nil
		},
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Equal(t, runner.Stats{}, result.Stats)
	assert.False(t, result.HasFailures())
}

func TestRun_PreservesInputOrder(t *testing.T) {
	t.Parallel()

	files := inputs(24)

	result, err := runner.Run(context.Background(), files, runner.Options{
		Jobs: 6,
		Generate: func(_ context.Context, input string) (*generator.Result, error) {
			// Earlier files finish later.
			var idx int
			_, _ = fmt.Sscanf(input, "file%02d.hypo", &idx)
			time.Sleep(time.Duration(len(files)-idx) * time.Millisecond)
			return &generator.Result{Input: input, Output: input + ".c", Changed: true}, nil
		},
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	require.Len(t, result.Files, len(files))

	for i, outcome := range result.Files {
		assert.Equal(t, files[i], outcome.Path)
		assert.Equal(t, files[i], outcome.Result.Input)
	}
}

func TestRun_Stats(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("broken")

	result, err := runner.Run(context.Background(), []string{"new", "same", "bad", "new2"}, runner.Options{
		Jobs: 2,
		Generate: func(_ context.Context, input string) (*generator.Result, error) {
			switch input {
			case "bad":
				return nil, errBroken
			case "same":
				return &generator.Result{Input: input, Output: "same.c"}, nil
			default:
				return &generator.Result{Input: input, Output: input + ".c", Changed: true}, nil
			}
		},
		Logger: quietLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, runner.Stats{Processed: 4, Generated: 2, Unchanged: 1, Failed: 1}, result.Stats)
	assert.True(t, result.HasFailures())

	failures := result.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "bad", failures[0].Path)
	require.ErrorIs(t, failures[0].Error, errBroken)
	assert.Nil(t, failures[0].Result)
}

func TestRun_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	const jobs = 3

	var (
		active  atomic.Int32
		maxSeen atomic.Int32
	)

	result, err := runner.Run(context.Background(), inputs(30), runner.Options{
		Jobs: jobs,
		Generate: func(_ context.Context, input string) (*generator.Result, error) {
			n := active.Add(1)
			defer active.Add(-1)
			for {
				seen := maxSeen.Load()
				if n <= seen || maxSeen.CompareAndSwap(seen, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			return &generator.Result{Input: input, Changed: true}, nil
		},
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, 30, result.Stats.Generated)
	assert.LessOrEqual(t, maxSeen.Load(), int32(jobs))
	assert.Positive(t, maxSeen.Load())
}

func TestRun_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := runner.Run(ctx, inputs(10), runner.Options{
		Jobs: 2,
		Generate: func(_ context.Context, input string) (*generator.Result, error) {
			return &generator.Result{Input: input, Changed: true}, nil
		},
		Logger: quietLogger(),
	})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Zero(t, result.Stats.Processed)
}

func TestRun_CancelMidway(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var once sync.Once
	result, err := runner.Run(ctx, inputs(50), runner.Options{
		Jobs: 1,
		Generate: func(_ context.Context, input string) (*generator.Result, error) {
			once.Do(cancel)
			return &generator.Result{Input: input, Changed: true}, nil
		},
		Logger: quietLogger(),
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, result.Stats.Processed, 50)
}

func TestRun_GenerateWith(t *testing.T) {
	t.Parallel()

	dir := makeTree(t, "a.hypo", "b.hypo", "c.hypo")
	outDir := filepath.Join(dir, "gen")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	files, err := runner.Discover(context.Background(), nil, runner.DiscoverOptions{WorkingDir: dir})
	require.NoError(t, err)

	base := generator.Options{
		Output:         "ignored.c",
		OutputDir:      outDir,
		Templates:      template.NewCache(template.Embedded()),
		WriteIfChanged: true,
		Logger:         quietLogger(),
	}
	opts := runner.Options{Jobs: 3, Generate: runner.GenerateWith(base), Logger: quietLogger()}

	result, err := runner.Run(context.Background(), files, opts)
	require.NoError(t, err)
	assert.Equal(t, runner.Stats{Processed: 3, Generated: 3}, result.Stats)

	for _, name := range []string{"a.c", "b.c", "c.c"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
	assert.NoFileExists(t, filepath.Join(outDir, "ignored.c"))

	again, err := runner.Run(context.Background(), files, opts)
	require.NoError(t, err)
	assert.Equal(t, runner.Stats{Processed: 3, Unchanged: 3}, again.Stats)
}
