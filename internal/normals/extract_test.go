package normals

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/fnndsc/surfresults/internal/stage"
	"github.com/fnndsc/surfresults/internal/surfmath"
)

// fakeTool writes a canned normals file per mesh and records the
// temporary paths it was asked to write.
type fakeTool struct {
	mu      sync.Mutex
	content map[string]string // mesh -> file body
	fail    map[string]error  // mesh -> error returned after writing
	paths   []string
}

func (f *fakeTool) Run(_ context.Context, c stage.Command) error {
	if len(c.Args) != 3 || c.Args[0] != "-normals" {
		return errors.New("unexpected argv")
	}
	mesh, out := c.Args[1], c.Args[2]
	f.mu.Lock()
	f.paths = append(f.paths, out)
	f.mu.Unlock()

	if err := os.WriteFile(out, []byte(f.content[mesh]), 0o644); err != nil {
		return err
	}
	return f.fail[mesh]
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary files left behind")
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	tool := &fakeTool{content: map[string]string{"lh_inner.obj": "0 0 1\n1 0 0\n"}}
	x := &Extractor{Runner: tool, Tool: "depth_potential", Dir: dir}

	got, err := x.Extract(context.Background(), "lh_inner.obj")
	require.NoError(t, err)
	assert.Equal(t, []r3.Vec{{Z: 1}, {X: 1}}, got)

	require.Len(t, tool.paths, 1)
	assert.Equal(t, dir, filepath.Dir(tool.paths[0]))
	assertNoTempFiles(t, dir)
}

func TestExtract_ToolFailureRemovesTemp(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("exit status 1")
	tool := &fakeTool{
		content: map[string]string{"m.obj": "partial"},
		fail:    map[string]error{"m.obj": boom},
	}
	x := &Extractor{Runner: tool, Tool: "depth_potential", Dir: dir}

	_, err := x.Extract(context.Background(), "m.obj")
	assert.ErrorIs(t, err, boom)
	assertNoTempFiles(t, dir)
}

func TestExtract_ParseFailureRemovesTemp(t *testing.T) {
	dir := t.TempDir()
	tool := &fakeTool{content: map[string]string{"m.obj": "0 0 1\n0 nan-ish 1\n"}}
	x := &Extractor{Runner: tool, Tool: "depth_potential", Dir: dir}

	_, err := x.Extract(context.Background(), "m.obj")
	var pe *surfmath.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assertNoTempFiles(t, dir)
}

func TestExtractPair(t *testing.T) {
	dir := t.TempDir()
	tool := &fakeTool{content: map[string]string{
		"inner.obj": "0 0 1\n",
		"outer.obj": "0 1 0\n",
	}}
	x := &Extractor{Runner: tool, Tool: "depth_potential", Dir: dir}

	in, out, err := x.ExtractPair(context.Background(), "inner.obj", "outer.obj")
	require.NoError(t, err)
	assert.Equal(t, []r3.Vec{{Z: 1}}, in)
	assert.Equal(t, []r3.Vec{{Y: 1}}, out)

	require.Len(t, tool.paths, 2)
	assert.NotEqual(t, tool.paths[0], tool.paths[1], "temporary names must be unique")
	assertNoTempFiles(t, dir)
}

func TestExtractPair_Failure(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("tool crashed")
	tool := &fakeTool{
		content: map[string]string{"inner.obj": "0 0 1\n"},
		fail:    map[string]error{"outer.obj": boom},
	}
	x := &Extractor{Runner: tool, Tool: "depth_potential", Dir: dir}

	in, out, err := x.ExtractPair(context.Background(), "inner.obj", "outer.obj")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, in)
	assert.Nil(t, out)
	assertNoTempFiles(t, dir)
}
