package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/fnndsc/surfresults/internal/config"
	"github.com/fnndsc/surfresults/internal/display"
	"github.com/fnndsc/surfresults/internal/logging"
	"github.com/fnndsc/surfresults/internal/normals"
	"github.com/fnndsc/surfresults/internal/planner"
	"github.com/fnndsc/surfresults/internal/stage"
	"github.com/fnndsc/surfresults/internal/surface"
	"github.com/fnndsc/surfresults/internal/surfmath"
)

// SubjectProcessor processes one subject start to finish.
type SubjectProcessor interface {
	Process(ctx context.Context, pair DirPair) SubjectResult
}

// Processor is the production SubjectProcessor.
type Processor struct {
	Cfg    *config.Config
	Runner stage.Runner
	Log    *logging.Logger

	// TempDir holds the normal extractor's temporary files; "" uses the
	// system default.
	TempDir string
}

// Process runs locate, the four geometry stages, and the three
// post-processing steps for one subject. A missing surface skips the
// subject. Any later error ends it; the subject's output files are then
// removed so that no partial set is left behind.
func (p *Processor) Process(ctx context.Context, pair DirPair) SubjectResult {
	start := time.Now()
	res := SubjectResult{Pair: pair}
	log := p.Log

	// --- Locate ---
	loc, err := surface.Locate(pair.In, p.Cfg.MeshSuffix)
	if err != nil {
		res.Outcome = Failed
		res.Err = err
		log.Error("%s: %v", pair.Rel, err)
		return res
	}
	if !loc.Complete() {
		res.Outcome = Skipped
		log.Warn("Skip %s: no %s surface matching *%s",
			pair.Rel, strings.Join(loc.Missing(), " or "), p.Cfg.MeshSuffix)
		return res
	}
	if loc.InnerMatches > 1 || loc.OuterMatches > 1 {
		log.Debug("%s: %d inner and %d outer candidates; using first by name",
			pair.Rel, loc.InnerMatches, loc.OuterMatches)
	}

	plan := planner.BuildPlan(p.Cfg, loc, pair.Out)
	log.Info("Processing %s", pair.Rel)

	sum, err := p.execute(ctx, pair, plan)
	res.Elapsed = time.Since(start)
	if err != nil {
		if rmErr := plan.Outputs.Remove(); rmErr != nil {
			log.Warn("%s: cleanup: %v", pair.Rel, rmErr)
		}
		res.Err = err
		if ctx.Err() != nil {
			res.Outcome = Cancelled
			log.Warn("%s: cancelled", pair.Rel)
		} else {
			res.Outcome = Failed
			log.Error("%s: %v", pair.Rel, err)
			logStderr(log, pair, err)
		}
		return res
	}

	res.Outcome = Processed
	res.Summary = sum
	res.Bytes = plan.Outputs.Size()
	log.Success("%s: done in %s (%d vertices, %s written)",
		pair.Rel, display.FormatDuration(res.Elapsed), sum.Vertices, display.FormatBytes(res.Bytes))
	return res
}

// execute runs the plan's stages in order, then derives and writes the
// angle and scaled outputs.
func (p *Processor) execute(ctx context.Context, pair DirPair, plan *planner.SubjectPlan) (SubjectSummary, error) {
	for _, c := range plan.Stages {
		p.Log.Debug("%s: %s", pair.Rel, c)
		if err := p.Runner.Run(ctx, c); err != nil {
			return SubjectSummary{}, err
		}
	}
	out := plan.Outputs

	// --- Inverted surface angles ---
	raw, err := surfmath.ReadValues(out.SurfaceAngles)
	if err != nil {
		return SubjectSummary{}, err
	}
	rad, err := surfmath.InvertAngles(raw, plan.Numeric)
	if err != nil {
		return SubjectSummary{}, fmt.Errorf("rad angles: %w", err)
	}
	p.warnNaN(pair, "rad angles", rad)
	if err := surfmath.WriteValues(out.RadAngles, rad); err != nil {
		return SubjectSummary{}, err
	}

	// --- Angles between inner and outer normals ---
	x := &normals.Extractor{Runner: p.Runner, Tool: plan.NormalsTool, Dir: p.TempDir}
	innerN, outerN, err := x.ExtractPair(ctx, plan.Inner, plan.Outer)
	if err != nil {
		return SubjectSummary{}, err
	}
	between, err := surfmath.AnglesBetween(innerN, outerN)
	if err != nil {
		return SubjectSummary{}, err
	}
	if err := surfmath.WriteValues(out.NormAngles, between); err != nil {
		return SubjectSummary{}, err
	}

	// --- Thickness-scaled angles ---
	thick, err := surfmath.ReadValues(out.Thickness)
	if err != nil {
		return SubjectSummary{}, err
	}
	norm, err := surfmath.Normalize(thick, plan.Numeric)
	if err != nil {
		return SubjectSummary{}, fmt.Errorf("thickness: %w", err)
	}
	p.warnNaN(pair, "normalized thickness", norm)

	scaledRad, err := surfmath.Scale(rad, norm)
	if err != nil {
		return SubjectSummary{}, fmt.Errorf("scaled rad angles: %w", err)
	}
	if err := surfmath.WriteValues(out.ScaledRadAngles, scaledRad); err != nil {
		return SubjectSummary{}, err
	}
	scaledBetween, err := surfmath.Scale32(between, norm)
	if err != nil {
		return SubjectSummary{}, fmt.Errorf("scaled angles between normals: %w", err)
	}
	if err := surfmath.WriteValues(out.ScaledNormAngles, scaledBetween); err != nil {
		return SubjectSummary{}, err
	}

	return summarize(thick, rad, between), nil
}

func (p *Processor) warnNaN(pair DirPair, what string, vals []float64) {
	if floats.HasNaN(vals) {
		p.Log.Warn("%s: %s contain NaN (numeric policy %s)", pair.Rel, what, p.Cfg.Numeric)
	}
}

// logStderr prints the captured standard error of a failed tool.
func logStderr(log *logging.Logger, pair DirPair, err error) {
	var te *stage.ToolError
	if !errors.As(err, &te) || te.Stderr == "" {
		return
	}
	log.Error("%s: last %s output:", pair.Rel, te.Tool)
	for _, l := range strings.Split(te.Stderr, "\n") {
		log.Error("  %s", l)
	}
}
