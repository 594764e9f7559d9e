package pipeline

import (
	"errors"
	"sort"
	"time"
)

// Outcome is the terminal state of one subject.
type Outcome int

const (
	Processed Outcome = iota
	Skipped
	Failed
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Processed:
		return "processed"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// SubjectResult is what one Processor run reports back to the scheduler.
type SubjectResult struct {
	Pair    DirPair
	Outcome Outcome
	Err     error // set for Failed and Cancelled
	Elapsed time.Duration
	Bytes   int64 // total size of the output files written

	Summary SubjectSummary // valid when Outcome == Processed
}

// SubjectError ties a fatal subject error to the subject it came from.
type SubjectError struct {
	Pair DirPair
	Err  error
}

func (e *SubjectError) Error() string {
	return e.Pair.Rel + ": " + e.Err.Error()
}

func (e *SubjectError) Unwrap() error { return e.Err }

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Total       int
	Processed   int
	Skipped     int
	Failed      int
	Cancelled   int
	OutputBytes int64
	Elapsed     time.Duration

	// Results holds every subject result, ordered by relative path.
	Results []SubjectResult
}

func (s *RunStats) add(r SubjectResult) {
	s.Total++
	switch r.Outcome {
	case Processed:
		s.Processed++
		s.OutputBytes += r.Bytes
	case Skipped:
		s.Skipped++
	case Failed:
		s.Failed++
	case Cancelled:
		s.Cancelled++
	}
	s.Results = append(s.Results, r)
}

func (s *RunStats) sortResults() {
	sort.Slice(s.Results, func(i, j int) bool {
		return s.Results[i].Pair.Rel < s.Results[j].Pair.Rel
	})
}

// errs returns one SubjectError per failed subject, in result order.
func (s *RunStats) errs() []error {
	var errs []error
	for _, r := range s.Results {
		if r.Outcome == Failed {
			errs = append(errs, &SubjectError{Pair: r.Pair, Err: r.Err})
		}
	}
	return errs
}

// Err joins the errors of every failed subject, or returns nil.
func (s *RunStats) Err() error {
	return errors.Join(s.errs()...)
}
