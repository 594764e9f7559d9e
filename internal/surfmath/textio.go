package surfmath

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Values are parsed with 32-bit precision, matching the single-precision
// text the geometry tools emit; they are then held as float64.
const parseBits = 32

// ReadValues reads one number per line from path.
func ReadValues(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vals, err := ParseValues(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vals, nil
}

// ParseValues parses whitespace-delimited numbers. Blank lines and lines
// starting with '#' are skipped.
func ParseValues(r io.Reader) ([]float64, error) {
	var vals []float64
	err := eachLine(r, func(n int, fields []string, line string) error {
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, parseBits)
			if err != nil {
				return &ParseError{Line: n, Text: line, Err: err}
			}
			vals = append(vals, v)
		}
		return nil
	})
	return vals, err
}

// ParseVectors parses one 3-vector per line ("x y z").
func ParseVectors(r io.Reader) ([]r3.Vec, error) {
	var vecs []r3.Vec
	err := eachLine(r, func(n int, fields []string, line string) error {
		if len(fields) != 3 {
			return &ParseError{Line: n, Text: line, Err: fmt.Errorf("want 3 components, got %d", len(fields))}
		}
		var c [3]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, parseBits)
			if err != nil {
				return &ParseError{Line: n, Text: line, Err: err}
			}
			c[i] = v
		}
		vecs = append(vecs, r3.Vec{X: c[0], Y: c[1], Z: c[2]})
		return nil
	})
	return vecs, err
}

func eachLine(r io.Reader, fn func(n int, fields []string, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if err := fn(n, strings.Fields(trimmed), line); err != nil {
			return err
		}
	}
	return sc.Err()
}

// WriteValues writes vals to path, one per line in fixed 6-decimal
// notation. The file is written in full or not at all: data goes to a
// sibling temp file that is renamed over path on success.
func WriteValues(path string, vals []float64) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".surfresults-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := FormatValues(tmp, vals); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// FormatValues writes vals to w, one per line, as %f. Non-finite values are
// written as nan, inf and -inf.
func FormatValues(w io.Writer, vals []float64) error {
	bw := bufio.NewWriter(w)
	for _, v := range vals {
		var s string
		switch {
		case math.IsNaN(v):
			s = "nan"
		case math.IsInf(v, 1):
			s = "inf"
		case math.IsInf(v, -1):
			s = "-inf"
		default:
			s = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if _, err := bw.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
