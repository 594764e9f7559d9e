package surfmath

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Normalize rescales t linearly to [0, 1] as (x - min) / (max - min),
// in single precision like the thickness file it comes from. The minimum
// maps to exactly 0 and the maximum to exactly 1. A constant array has no
// range: Strict mode returns ErrDegenerateRange, Lenient mode returns all
// NaN (0/0).
func Normalize(t []float64, mode Mode) ([]float64, error) {
	out := make([]float64, len(t))
	if len(t) == 0 {
		return out, nil
	}
	lo, hi := float32(floats.Min(t)), float32(floats.Max(t))
	span := hi - lo
	if span == 0 {
		if mode == Strict {
			return nil, fmt.Errorf("normalize %d values (all %g): %w", len(t), lo, ErrDegenerateRange)
		}
		for i := range out {
			out[i] = math.NaN()
		}
		return out, nil
	}

	for i, v := range t {
		out[i] = float64(float32(float32(v)-lo) / span)
	}
	return out, nil
}

// Scale returns the element-wise product of a and w.
func Scale(a, w []float64) ([]float64, error) {
	if len(a) != len(w) {
		return nil, fmt.Errorf("scale %d values by %d weights: %w", len(a), len(w), ErrLengthMismatch)
	}
	out := make([]float64, len(a))
	floats.MulTo(out, a, w)
	return out, nil
}

// Scale32 is Scale for two single-precision arrays: each product is
// rounded to float32. The product of two float32 values is exact in
// float64, so rounding it once matches float32 multiplication.
func Scale32(a, w []float64) ([]float64, error) {
	out, err := Scale(a, w)
	if err != nil {
		return nil, err
	}
	for i, v := range out {
		out[i] = float64(float32(v))
	}
	return out, nil
}
