package planner

import (
	"github.com/fnndsc/surfresults/internal/config"
	"github.com/fnndsc/surfresults/internal/stage"
	"github.com/fnndsc/surfresults/internal/surface"
	"github.com/fnndsc/surfresults/internal/surfmath"
)

// BuildPlan produces the SubjectPlan for a located surface pair whose
// outputs go to outDir. pair must be complete.
//
// Stages:
//  1. cortical_thickness -tlink inner outer -> thickness
//  2. average_objects inner outer -> mid
//  3. adapt_object_mesh mid (in place)
//  4. surface_angles inner mid outer -> surface angles
func BuildPlan(cfg *config.Config, pair surface.Pair, outDir string) *SubjectPlan {
	out := surface.NewOutputSet(outDir, cfg.Outputs)
	t := cfg.Tools

	return &SubjectPlan{
		Inner:   pair.Inner,
		Outer:   pair.Outer,
		OutDir:  outDir,
		Outputs: out,
		Stages: []stage.Command{
			stage.CorticalThickness(t.CorticalThickness, pair.Inner, pair.Outer, out.Thickness),
			stage.AverageObjects(t.AverageObjects, out.Mid, pair.Inner, pair.Outer),
			stage.AdaptObjectMesh(t.AdaptObjectMesh, out.Mid, cfg.AdaptArgs),
			stage.SurfaceAngles(t.SurfaceAngles, pair.Inner, out.Mid, pair.Outer, out.SurfaceAngles),
		},
		NormalsTool: t.DepthPotential,
		Numeric:     NumericMode(cfg.Numeric),
	}
}

// NumericMode maps the configured policy onto surfmath's mode.
func NumericMode(p config.NumericPolicy) surfmath.Mode {
	if p == config.NumericLenient {
		return surfmath.Lenient
	}
	return surfmath.Strict
}
