package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/yaklabco/hypocrite/internal/logging"
)

// ErrNoGenerate is returned by Run when Options.Generate is nil.
var ErrNoGenerate = errors.New("runner: no generate function")

type job struct {
	index int
	path  string
}

type indexedOutcome struct {
	index   int
	outcome FileOutcome
}

// Run generates files concurrently. Each worker handles whole files, so
// parser and render state is never shared; anything shared, such as a
// template cache, must be safe for concurrent use.
//
// Outcomes are returned in the order of files. When ctx is cancelled no
// further files are dispatched and the partial result is returned along
// with the context error.
func Run(ctx context.Context, files []string, opts Options) (*Result, error) {
	if opts.Generate == nil {
		return nil, ErrNoGenerate
	}

	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	// Don't use more workers than files.
	jobs = min(jobs, len(files))

	logger.Debug("starting batch", logging.FieldJobs, jobs, logging.FieldCount, len(files))

	workCh := make(chan job)
	outCh := make(chan indexedOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(ctx, opts.Generate, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for idx, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- job{index: idx, path: path}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order; slot outcomes by input position.
	outcomes := make([]*FileOutcome, len(files))
	for item := range outCh {
		outcome := item.outcome
		outcomes[item.index] = &outcome

		if outcome.Error != nil {
			logger.Error("generation failed",
				logging.FieldInput, outcome.Path,
				logging.FieldError, outcome.Error)
			continue
		}
		if outcome.Result == nil {
			continue
		}
		logger.Info("generated",
			logging.FieldInput, outcome.Path,
			logging.FieldOutput, outcome.Result.Output,
			logging.FieldChanged, outcome.Result.Changed)
	}

	for _, outcome := range outcomes {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}
	result.Duration = time.Since(start)

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func worker(ctx context.Context, generate GenerateFunc, workCh <-chan job, outCh chan<- indexedOutcome) {
	for work := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := FileOutcome{Path: work.path}
		res, err := generate(ctx, work.path)
		if err != nil {
			outcome.Error = err
		} else {
			outcome.Result = res
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- indexedOutcome{index: work.index, outcome: outcome}:
		}
	}
}
