// Command surfresults computes cortical thickness and surface angle metrics
// for every subject directory under an input root.
//
// It parses flags, validates configuration and paths, and either runs the
// tool check (--check) or the batch pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fnndsc/surfresults/internal/check"
	"github.com/fnndsc/surfresults/internal/config"
	"github.com/fnndsc/surfresults/internal/display"
	"github.com/fnndsc/surfresults/internal/logging"
	"github.com/fnndsc/surfresults/internal/metrics"
	"github.com/fnndsc/surfresults/internal/pipeline"
	"github.com/fnndsc/surfresults/internal/stage"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr.
	cfg := config.DefaultConfig()
	code := exitOK
	cmd := newRootCmd(&cfg, &code, stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "surfresults: %v\n", err)
		return exitFailure
	}
	return code
}

func newRootCmd(cfg *config.Config, code *int, stdout, stderr io.Writer) *cobra.Command {
	var binding *config.Binding
	cmd := &cobra.Command{
		Use:   "surfresults [flags] <inputdir> <outputdir>",
		Short: "Compute cortical thickness and surface angle metrics",
		Long: `surfresults finds the inner and outer surface meshes in every subject
directory under <inputdir>, runs the MNI geometry tools on them, and writes
thickness, surface angle and thickness-scaled angle files to the mirrored
directory under <outputdir>.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := binding.Apply(args); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			*code = execute(cmd.Context(), cfg, stdout, stderr)
			return nil
		},
	}
	cmd.SetVersionTemplate("surfresults {{.Version}}\n")
	binding = config.BindFlags(cmd.Flags(), cfg)
	return cmd
}

// execute runs everything after flag parsing and returns the exit code.
func execute(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) int {
	log, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "surfresults: %v\n", err)
		return exitFailure
	}
	defer log.Close()

	// Phase 2: Logger available. All output goes through log from here on.
	display.PrintBanner(stderr)

	if cfg.CheckOnly {
		if !check.RunCheck(cfg, log) {
			return exitFailure
		}
		return exitOK
	}

	// Resolve and validate paths: input must exist, output is created if
	// needed, and output must not be inside input.
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		log.Error("Input not found: %s", cfg.InputDir)
		return exitFailure
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %s", cfg.OutputDir)
		return exitFailure
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputDir)
		return exitFailure
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose an output path outside: %s", cfg.InputDir)
		return exitFailure
	}
	cfg.InputDir, cfg.OutputDir = inputAbs, outputAbs

	// Fail fast if any geometry tool is missing.
	if err := check.CheckDeps(cfg); err != nil {
		log.Error("%v", err)
		return exitFailure
	}

	runID := uuid.NewString()
	log.Info("=== surfresults v%s (%s) ===", version, commit)
	log.Info("Run: %s", runID)
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", cfg.OutputDir)
	log.Info("Using %d threads.", cfg.EffectiveWorkers(runtime.NumCPU()))
	if cfg.Numeric == config.NumericLenient {
		log.Warn("Lenient numeric mode: out-of-domain values become NaN")
	}

	// Phase 3: Signal handling. The first SIGINT/SIGTERM cancels the run;
	// running tools get cfg.StopGrace to exit. A second signal exits now.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping running tools…")
		cancel()
		<-sigCh
		log.Error("Second interrupt, exiting now")
		os.Exit(exitInterrupted)
	}()

	// Phase 4: Run the batch.
	rec := metrics.NewRecorder(runID)
	runner := &stage.Exec{Grace: cfg.StopGrace, Observer: rec}
	if cfg.Verbose {
		runner.Tee = stderr
	}
	proc := &pipeline.Processor{Cfg: cfg, Runner: runner, Log: log}

	stats, runErr := pipeline.Run(ctx, cfg, log, proc)

	for _, r := range stats.Results {
		rec.ObserveSubject(r.Outcome.String(), r.Elapsed)
	}
	rec.ObserveRun(stats.Elapsed)
	if cfg.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn("Cannot write metrics: %v", err)
		} else {
			log.Info("Metrics written to %s", cfg.MetricsFile)
		}
	}
	if cfg.Summary {
		pipeline.PrintSummary(stdout, log, stats.Results)
	}

	switch {
	case errors.Is(runErr, pipeline.ErrInterrupted):
		log.Warn("Interrupted")
		return exitInterrupted
	case runErr != nil:
		return exitFailure
	}
	return exitOK
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
