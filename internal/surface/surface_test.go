package surface

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnndsc/surfresults/internal/config"
)

const suffix = "_81920.obj"

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("obj"), 0o644))
}

func TestMatchRole(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"inner_81920.obj", RoleInner},
		{"outer_81920.obj", RoleOuter},
		{"sub01_white_inner_left_81920.obj", RoleInner},
		{"sub01_gray_outer_81920.obj", RoleOuter},
		{"mid_81920.obj", ""},
		{"inner_327680.obj", ""},
		{"inner_81920.obj.bak", ""},
		{"_81920.obj", ""},
		{"inner_outer_81920.obj", RoleInner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchRole(tt.name, suffix))
		})
	}
}

func TestLocate_BothPresent(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "inner_81920.obj")
	touch(t, dir, "outer_81920.obj")
	touch(t, dir, "notes.txt")

	p, err := Locate(dir, suffix)
	require.NoError(t, err)
	assert.True(t, p.Complete())
	assert.Equal(t, filepath.Join(dir, "inner_81920.obj"), p.Inner)
	assert.Equal(t, filepath.Join(dir, "outer_81920.obj"), p.Outer)
	assert.Empty(t, p.Missing())
}

func TestLocate_MissingOuter(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "inner_81920.obj")

	p, err := Locate(dir, suffix)
	require.NoError(t, err)
	assert.False(t, p.Complete())
	assert.Equal(t, []string{RoleOuter}, p.Missing())
}

func TestLocate_LexicographicTieBreak(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b_inner_81920.obj")
	touch(t, dir, "a_inner_81920.obj")
	touch(t, dir, "z_outer_81920.obj")
	touch(t, dir, "c_outer_81920.obj")

	p, err := Locate(dir, suffix)
	require.NoError(t, err)
	assert.Equal(t, "a_inner_81920.obj", filepath.Base(p.Inner))
	assert.Equal(t, "c_outer_81920.obj", filepath.Base(p.Outer))
	assert.Equal(t, 2, p.InnerMatches)
	assert.Equal(t, 2, p.OuterMatches)
}

func TestLocate_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "inner_81920.obj"), 0o755))
	touch(t, dir, "outer_81920.obj")

	p, err := Locate(dir, suffix)
	require.NoError(t, err)
	assert.Empty(t, p.Inner)
}

func TestLocate_MissingDir(t *testing.T) {
	_, err := Locate(filepath.Join(t.TempDir(), "nope"), suffix)
	assert.Error(t, err)
}

func TestOutputSet(t *testing.T) {
	dir := t.TempDir()
	set := NewOutputSet(dir, config.DefaultConfig().Outputs)

	assert.Equal(t, filepath.Join(dir, "mid_81920.obj"), set.Mid)
	assert.Equal(t, filepath.Join(dir, "tlink.txt"), set.Thickness)
	assert.Len(t, set.Paths(), 7)

	// Only some files exist: Remove must tolerate the rest.
	require.NoError(t, os.WriteFile(set.Thickness, []byte("1.0\n"), 0o644))
	require.NoError(t, os.WriteFile(set.Mid, []byte("obj"), 0o644))
	assert.Equal(t, int64(7), set.Size())

	require.NoError(t, set.Remove())
	for _, p := range set.Paths() {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "%s should be gone", p)
	}
}
