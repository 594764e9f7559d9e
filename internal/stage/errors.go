package stage

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrToolNotFound is matched (via errors.Is) by a ToolError whose binary
// could not be launched because it is not on PATH.
var ErrToolNotFound = errors.New("tool not found")

// stderrTailLines is how many trailing stderr lines a ToolError keeps.
const stderrTailLines = 20

// ToolError describes a failed tool invocation.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int    // -1 when the process never ran or was killed by a signal
	Stderr   string // last lines of standard error
	Err      error
}

func (e *ToolError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrToolNotFound) see through launch failures.
func (e *ToolError) Is(target error) bool {
	return target == ErrToolNotFound && errors.Is(e.Err, exec.ErrNotFound)
}

// newToolError classifies a Run error into a ToolError.
func newToolError(c Command, stderr string, err error) *ToolError {
	te := &ToolError{
		Tool:     c.Tool(),
		Args:     c.Args,
		ExitCode: -1,
		Stderr:   tail(stderr, stderrTailLines),
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		te.ExitCode = exitErr.ExitCode()
	}
	return te
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
