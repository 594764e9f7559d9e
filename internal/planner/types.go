package planner

import (
	"github.com/fnndsc/surfresults/internal/stage"
	"github.com/fnndsc/surfresults/internal/surface"
	"github.com/fnndsc/surfresults/internal/surfmath"
)

// SubjectPlan holds every decision needed to process one subject. It is
// produced by BuildPlan and consumed by the pipeline.
type SubjectPlan struct {
	// Inputs.
	Inner string
	Outer string

	// Outputs.
	OutDir  string
	Outputs surface.OutputSet

	// Geometry stages, in mandatory order: thickness, average, adapt,
	// angles. Each consumes files written by the ones before it.
	Stages []stage.Command

	// Post-processing.
	NormalsTool string
	Numeric     surfmath.Mode
}
