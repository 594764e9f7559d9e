package surfmath

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mode selects the handling of out-of-domain input.
type Mode int

const (
	Strict  Mode = iota // return an error
	Lenient             // substitute NaN and continue
)

// InvertAngles returns acos(1/a) for every element of a. The inverse
// cosine is defined only for |a| >= 1; in Strict mode the first element
// outside that range (including 0 and NaN) yields a *DomainError.
func InvertAngles(a []float64, mode Mode) ([]float64, error) {
	out := make([]float64, len(a))
	for i, v := range a {
		r := 1.0 / v
		if math.IsNaN(r) || r < -1 || r > 1 {
			if mode == Strict {
				return nil, &DomainError{Index: i, Value: v}
			}
			out[i] = math.NaN()
			continue
		}
		out[i] = math.Acos(r)
	}
	return out, nil
}

// AngleBetween returns the angle between unit vectors u and v. Normals are
// single precision, so the dot product and the angle are computed and
// rounded in float32. The dot product is clipped to [-1, 1] first: for
// (anti)parallel unit vectors rounding routinely pushes it a few ulps past
// ±1, where acos is NaN.
func AngleBetween(u, v r3.Vec) float64 {
	d := clip(float64(dot32(u, v)), -1, 1)
	return float64(float32(math.Acos(d)))
}

// dot32 is r3.Dot evaluated in single precision. The explicit conversions
// keep each product rounded on its own and prevent fused multiply-add.
func dot32(u, v r3.Vec) float32 {
	x := float32(float32(u.X) * float32(v.X))
	y := float32(float32(u.Y) * float32(v.Y))
	z := float32(float32(u.Z) * float32(v.Z))
	return x + y + z
}

// AnglesBetween applies AngleBetween to each pair of corresponding vectors.
func AnglesBetween(inner, outer []r3.Vec) ([]float64, error) {
	if len(inner) != len(outer) {
		return nil, fmt.Errorf("normals: %d inner vs %d outer: %w", len(inner), len(outer), ErrLengthMismatch)
	}
	out := make([]float64, len(inner))
	for i := range inner {
		out[i] = AngleBetween(inner[i], outer[i])
	}
	return out, nil
}

func clip(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
