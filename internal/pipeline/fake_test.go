package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fnndsc/surfresults/internal/config"
	"github.com/fnndsc/surfresults/internal/logging"
	"github.com/fnndsc/surfresults/internal/stage"
)

// fakeTools stands in for the five geometry binaries. Each tool writes a
// small, deterministic output file; the surface angles of subject "subjNN"
// start with NN+1 so that cross-subject mixing is visible.
type fakeTools struct {
	mu    sync.Mutex
	calls []stage.Command

	// failTool makes the named tool fail for subjects whose path contains
	// failSubject.
	failTool    string
	failSubject string

	// surfaceAngles overrides the surface angle file content.
	surfaceAngles string

	// block, when set, makes cortical_thickness signal started and wait
	// for the context.
	block   bool
	started chan struct{}
}

func (f *fakeTools) Run(ctx context.Context, c stage.Command) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	a := c.Args
	if f.failTool == c.Tool() && strings.Contains(strings.Join(a, " "), f.failSubject) {
		return &stage.ToolError{Tool: c.Tool(), Args: a, ExitCode: 2, Stderr: "bad mesh", Err: fmt.Errorf("exit status 2")}
	}

	switch c.Tool() {
	case "cortical_thickness":
		if err := os.WriteFile(a[3], []byte("1.000000\n2.500000\n4.000000\n"), 0o644); err != nil {
			return err
		}
		if f.block {
			f.started <- struct{}{}
			<-ctx.Done()
			return fmt.Errorf("cortical_thickness interrupted: %w", ctx.Err())
		}
		return nil
	case "average_objects":
		return os.WriteFile(a[0], []byte("P mid mesh\n"), 0o644)
	case "adapt_object_mesh":
		b, err := os.ReadFile(a[0])
		if err != nil {
			return err
		}
		return os.WriteFile(a[1], append(b, "adapted\n"...), 0o644)
	case "surface_angles":
		if _, err := os.Stat(a[1]); err != nil {
			return err
		}
		body := f.surfaceAngles
		if body == "" {
			var n int
			fmt.Sscanf(filepath.Base(filepath.Dir(a[3])), "subj%d", &n)
			body = fmt.Sprintf("%d\n2\n4\n", n+1)
		}
		return os.WriteFile(a[3], []byte(body), 0o644)
	case "depth_potential":
		body := "0 0 1\n0 0 1\n1 0 0\n"
		if strings.Contains(filepath.Base(a[1]), "outer") {
			body = "0 0 1\n0 1 0\n-1 0 0\n"
		}
		return os.WriteFile(a[2], []byte(body), 0o644)
	}
	return fmt.Errorf("unknown tool %q", c.Name)
}

func (f *fakeTools) count(tool string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Tool() == tool {
			n++
		}
	}
	return n
}

// --- Helpers ---

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

// mkSubject creates dir/name with the requested surfaces.
func mkSubject(t *testing.T, root, name string, inner, outer bool) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if inner {
		touch(t, dir, "lh_inner_81920.obj")
	}
	if outer {
		touch(t, dir, "lh_outer_81920.obj")
	}
	return dir
}

func testConfig(t *testing.T, workers int) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.InputDir = t.TempDir()
	cfg.OutputDir = t.TempDir()
	cfg.Workers = workers
	cfg.ColorMode = config.ColorNever
	return &cfg
}

func newProcessor(t *testing.T, cfg *config.Config, tools *fakeTools) *Processor {
	return &Processor{Cfg: cfg, Runner: tools, Log: logging.Discard(), TempDir: t.TempDir()}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
