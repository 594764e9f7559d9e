package pipeline

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/fnndsc/surfresults/internal/config"
	"github.com/fnndsc/surfresults/internal/display"
	"github.com/fnndsc/surfresults/internal/logging"
)

// ErrInterrupted is returned by Run when its context was cancelled before
// every subject had been attempted.
var ErrInterrupted = errors.New("run interrupted")

// Run is the top-level batch entry point. It maps cfg.InputDir onto
// cfg.OutputDir and feeds the pairs to a fixed pool of workers, each running
// proc on one subject at a time. Every subject is attempted even when
// others fail; the returned error joins one *SubjectError per failed
// subject.
//
// When ctx is cancelled no further subjects are started, in-flight subjects
// finish or are abandoned by proc, and the returned error matches
// ErrInterrupted.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, proc SubjectProcessor) (RunStats, error) {
	start := time.Now()
	workers := cfg.EffectiveWorkers(runtime.NumCPU())

	jobs := make(chan DirPair)
	results := make(chan SubjectResult)

	// Producer: the mapper is single-pass and not safe for concurrent use,
	// so one goroutine drains it into the queue.
	var mapErrs []error
	go func() {
		defer close(jobs)
		for pair, err := range MapDirs(cfg.InputDir, cfg.OutputDir) {
			if err != nil {
				log.Error("Mapping: %v", err)
				mapErrs = append(mapErrs, err)
				continue
			}
			select {
			case jobs <- pair:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pair := range jobs {
				if ctx.Err() != nil {
					results <- SubjectResult{Pair: pair, Outcome: Cancelled, Err: ctx.Err()}
					continue
				}
				results <- proc.Process(ctx, pair)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var stats RunStats
	for r := range results {
		stats.add(r)
	}
	stats.sortResults()
	stats.Elapsed = time.Since(start)

	logSummary(log, &stats)

	// jobs is closed and drained once results is, so mapErrs is final.
	errs := append(mapErrs, stats.errs()...)
	if ctx.Err() != nil {
		return stats, errors.Join(append([]error{ErrInterrupted}, errs...)...)
	}
	return stats, errors.Join(errs...)
}

func logSummary(log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d processed, %d skipped, %d failed", stats.Processed, stats.Skipped, stats.Failed)
	if stats.Cancelled > 0 {
		log.Warn("  %d subject(s) cancelled", stats.Cancelled)
	}
	log.Info("Summary report:")
	log.Info("  Total subjects: %d", stats.Total)
	log.Info("  Output written: %s", display.FormatBytes(stats.OutputBytes))
	log.Info("  Elapsed: %s", display.FormatDuration(stats.Elapsed))
	for _, r := range stats.Results {
		if r.Outcome == Failed {
			log.Error("  failed: %s", r.Pair.Rel)
		}
	}
}
