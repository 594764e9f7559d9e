package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnndsc/surfresults/internal/stage"
)

var _ stage.Observer = (*Recorder)(nil)

func textfile(t *testing.T, r *Recorder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "surfresults.prom")
	require.NoError(t, r.WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestObserveSubject(t *testing.T) {
	r := NewRecorder("run-1")
	r.ObserveSubject("processed", 3*time.Second)
	r.ObserveSubject("processed", 5*time.Second)
	r.ObserveSubject("skipped", 0)

	text := textfile(t, r)
	assert.Contains(t, text, `surfresults_subjects_total{outcome="processed",run_id="run-1"} 2`)
	assert.Contains(t, text, `surfresults_subjects_total{outcome="skipped",run_id="run-1"} 1`)
	assert.Contains(t, text, `surfresults_subject_duration_seconds_count{run_id="run-1"} 2`)
	assert.Contains(t, text, `surfresults_subject_duration_seconds_sum{run_id="run-1"} 8`)
}

func TestObserveStage(t *testing.T) {
	r := NewRecorder("run-1")
	r.ObserveStage("cortical_thickness", 2*time.Second, nil)
	r.ObserveStage("surface_angles", time.Second, errors.New("exit status 1"))

	text := textfile(t, r)
	assert.Contains(t, text, `surfresults_stage_duration_seconds_count{run_id="run-1",tool="cortical_thickness"} 1`)
	assert.Contains(t, text, `surfresults_stage_duration_seconds_count{run_id="run-1",tool="surface_angles"} 1`)
	assert.Contains(t, text, `surfresults_stage_failures_total{run_id="run-1",tool="surface_angles"} 1`)
	assert.NotContains(t, text, `surfresults_stage_failures_total{run_id="run-1",tool="cortical_thickness"}`)
}

func TestObserveRun(t *testing.T) {
	r := NewRecorder("abc")
	r.ObserveRun(90 * time.Second)

	text := textfile(t, r)
	assert.Contains(t, text, "# TYPE surfresults_run_duration_seconds gauge")
	assert.Contains(t, text, `surfresults_run_duration_seconds{run_id="abc"} 90`)
	assert.Contains(t, text, "surfresults_last_run_timestamp_seconds")
}

func TestGatherer(t *testing.T) {
	r := NewRecorder("abc")
	r.ObserveSubject("failed", time.Second)

	mfs, err := r.Gatherer().Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "surfresults_subjects_total")
	assert.Contains(t, names, "surfresults_run_duration_seconds")
}
