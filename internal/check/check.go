// Package check provides tool diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for the five geometry binaries.
package check

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/fnndsc/surfresults/internal/config"
)

// ErrToolNotFound is wrapped by every error CheckDeps returns for a
// binary that does not resolve.
var ErrToolNotFound = errors.New("not found on PATH")

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Error(string, ...interface{})
}

// Tool is one resolved (or unresolved) binary.
type Tool struct {
	Name string // as configured
	Path string // resolved path; "" when not found
	Err  error
}

// Resolve looks up every configured tool, in invocation order.
func Resolve(cfg *config.Config) []Tool {
	names := cfg.Tools.Names()
	tools := make([]Tool, 0, len(names))
	for _, name := range names {
		path, err := exec.LookPath(name)
		if err != nil {
			err = fmt.Errorf("%s: %w", name, ErrToolNotFound)
		}
		tools = append(tools, Tool{Name: name, Path: path, Err: err})
	}
	return tools
}

// RunCheck runs the interactive --check flow: prints where each tool
// resolves to and reports whether all of them were found.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== Tool Check ===")
	ok := true
	for _, t := range Resolve(cfg) {
		if t.Err != nil {
			log.Error("%s not found", t.Name)
			ok = false
			continue
		}
		log.Success("%s: %s", t.Name, t.Path)
	}
	if ok {
		log.Success("All tools available")
	}
	return ok
}

// CheckDeps is the pre-pipeline validation: it verifies that every
// configured tool resolves. All missing tools are reported together.
func CheckDeps(cfg *config.Config) error {
	var errs []error
	for _, t := range Resolve(cfg) {
		if t.Err != nil {
			errs = append(errs, t.Err)
		}
	}
	return errors.Join(errs...)
}
