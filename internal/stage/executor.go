package stage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Runner executes a single stage command. A non-nil error is fatal for the
// subject that issued the command.
type Runner interface {
	Run(ctx context.Context, c Command) error
}

// Observer receives the outcome of every executed command.
type Observer interface {
	ObserveStage(tool string, elapsed time.Duration, err error)
}

// Exec runs commands as child processes.
type Exec struct {
	// Grace is how long a tool gets to exit after the context is cancelled
	// before it is killed. Zero kills immediately.
	Grace time.Duration

	// Tee, when set, also receives the tools' standard error (verbose mode).
	Tee io.Writer

	// Observer, when set, is told about every command.
	Observer Observer
}

// Run executes c and waits for it. Standard output is discarded. On
// cancellation the tool is sent an interrupt, then killed after Grace; the
// returned error then wraps the context error.
func (e *Exec) Run(ctx context.Context, c Command) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s not started: %w", c.Tool(), err)
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdout = nil // os/exec connects nil to the null device
	var stderrBuf bytes.Buffer
	if e.Tee != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, e.Tee)
	} else {
		cmd.Stderr = &stderrBuf
	}
	if e.Grace > 0 {
		cmd.Cancel = func() error {
			return cmd.Process.Signal(os.Interrupt)
		}
		cmd.WaitDelay = e.Grace
	}

	start := time.Now()
	err := cmd.Run()
	if e.Observer != nil {
		e.Observer.ObserveStage(c.Tool(), time.Since(start), err)
	}
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s interrupted: %w", c.Tool(), ctxErr)
	}
	return newToolError(c, stderrBuf.String(), err)
}
