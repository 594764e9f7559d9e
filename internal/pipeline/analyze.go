package pipeline

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/stat"

	"github.com/fnndsc/surfresults/internal/display"
	"github.com/fnndsc/surfresults/internal/logging"
	"github.com/fnndsc/surfresults/internal/term"
)

// SubjectSummary holds per-subject means for the summary table. NaN values
// (lenient mode) are left out of the means.
type SubjectSummary struct {
	Vertices      int
	MeanThickness float64
	MeanRadAngle  float64
	MeanNormAngle float64
}

func summarize(thick, rad, between []float64) SubjectSummary {
	return SubjectSummary{
		Vertices:      len(thick),
		MeanThickness: finiteMean(thick),
		MeanRadAngle:  finiteMean(rad),
		MeanNormAngle: finiteMean(between),
	}
}

func finiteMean(vals []float64) float64 {
	kept := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return math.NaN()
	}
	return stat.Mean(kept, nil)
}

// iqrBounds holds the IQR-based thresholds for outlier classification.
type iqrBounds struct {
	q1, q3    float64
	outlierLo float64 // Q1 - 1.5*IQR
	outlierHi float64 // Q3 + 1.5*IQR
	extremeLo float64 // Q1 - 3.0*IQR
	extremeHi float64 // Q3 + 3.0*IQR
	valid     bool
}

func computeStats(vals []float64) iqrBounds {
	sorted := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) < 4 {
		return iqrBounds{}
	}
	sort.Float64s(sorted)

	q1 := stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	iqr := q3 - q1

	return iqrBounds{
		q1:        q1,
		q3:        q3,
		outlierLo: q1 - 1.5*iqr,
		outlierHi: q3 + 1.5*iqr,
		extremeLo: q1 - 3.0*iqr,
		extremeHi: q3 + 3.0*iqr,
		valid:     iqr > 0,
	}
}

// classify returns "" (normal), "outlier", or "extreme" for a value.
func (b *iqrBounds) classify(v float64) string {
	if !b.valid || math.IsNaN(v) {
		return ""
	}
	if v < b.extremeLo || v > b.extremeHi {
		return "extreme"
	}
	if v < b.outlierLo || v > b.outlierHi {
		return "outlier"
	}
	return ""
}

// PrintSummary writes a table of the processed subjects to w, flagging
// subjects whose mean thickness or mean inter-normal angle is an IQR
// outlier across the batch, then logs the outlier counts.
func PrintSummary(w io.Writer, log *logging.Logger, results []SubjectResult) {
	var rows []SubjectResult
	var thick, between []float64
	for _, r := range results {
		if r.Outcome != Processed {
			continue
		}
		rows = append(rows, r)
		thick = append(thick, r.Summary.MeanThickness)
		between = append(between, r.Summary.MeanNormAngle)
	}
	if len(rows) == 0 {
		log.Warn("No processed subjects to summarize")
		return
	}

	tStats := computeStats(thick)
	nStats := computeStats(between)

	printSummaryTable(w, rows, tStats, nStats)
	printSummaryCounts(log, rows, tStats, nStats)
}

func printSummaryTable(w io.Writer, rows []SubjectResult, tStats, nStats iqrBounds) {
	const (
		vertW  = len("Vertices")
		thickW = len("Thickness")
		radW   = len("Rad angle")
		normW  = len("Normal angle")
	)
	nameW := len("Subject")
	timeW := len("Time")
	for _, r := range rows {
		nameW = max(nameW, utf8.RuneCountInString(r.Pair.Rel))
		timeW = max(timeW, len(display.FormatDuration(r.Elapsed)))
	}
	nameW = min(nameW, 50)

	header := fmt.Sprintf("  %-*s  %*s  %*s  %*s  %*s  %*s",
		nameW, "Subject",
		vertW, "Vertices",
		thickW, "Thickness",
		radW, "Rad angle",
		normW, "Normal angle",
		timeW, "Time",
	)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, "  "+strings.Repeat("─", len(header)-2))

	for _, r := range rows {
		name := truncateLeft(r.Pair.Rel, nameW)
		s := r.Summary
		tClass := tStats.classify(s.MeanThickness)
		nClass := nStats.classify(s.MeanNormAngle)

		fmt.Fprintf(w, "  %-*s  %*d  %s  %*.4f  %s  %*s  %s\n",
			nameW, name,
			vertW, s.Vertices,
			colorPad(fmt.Sprintf("%.4f", s.MeanThickness), thickW, tClass),
			radW, s.MeanRadAngle,
			colorPad(fmt.Sprintf("%.4f", s.MeanNormAngle), normW, nClass),
			timeW, display.FormatDuration(r.Elapsed),
			formatFlag(worstFlag(tClass, nClass)),
		)
	}
	fmt.Fprintln(w)
}

func printSummaryCounts(log *logging.Logger, rows []SubjectResult, tStats, nStats iqrBounds) {
	var outliers, extremes int
	for _, r := range rows {
		switch worstFlag(tStats.classify(r.Summary.MeanThickness), nStats.classify(r.Summary.MeanNormAngle)) {
		case "extreme":
			extremes++
		case "outlier":
			outliers++
		}
	}

	log.Info("Summarized %d subjects", len(rows))
	if tStats.valid {
		log.Info("  Mean thickness IQR: %.4f – %.4f (outlier < %.4f or > %.4f)",
			tStats.q1, tStats.q3, tStats.outlierLo, tStats.outlierHi)
	}
	if nStats.valid {
		log.Info("  Mean normal angle IQR: %s – %s",
			display.FormatRadians(nStats.q1), display.FormatRadians(nStats.q3))
	}
	if outliers > 0 {
		log.Outlier("  %d outlier(s) flagged [*]", outliers)
	}
	if extremes > 0 {
		log.Error("  %d extreme outlier(s) flagged [!]", extremes)
	}
	if outliers == 0 && extremes == 0 {
		log.Success("  No outliers detected")
	}
}

func worstFlag(classes ...string) string {
	worst := ""
	for _, c := range classes {
		if c == "extreme" {
			return "extreme"
		}
		if c == "outlier" {
			worst = "outlier"
		}
	}
	return worst
}

func formatFlag(flag string) string {
	switch flag {
	case "extreme":
		return term.Red + "[!]" + term.NC
	case "outlier":
		return term.Orange + "[*]" + term.NC
	default:
		return ""
	}
}

// colorPad right-aligns a plain string to width, then wraps it in ANSI
// color, so escape bytes do not count toward the column width.
// truncateLeft shortens s to width runes, keeping the tail and marking
// the cut with an ellipsis.
func truncateLeft(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return "…" + string(r[len(r)-width+1:])
}

func colorPad(s string, width int, class string) string {
	padded := fmt.Sprintf("%*s", width, s)
	switch class {
	case "extreme":
		return term.Red + padded + term.NC
	case "outlier":
		return term.Orange + padded + term.NC
	default:
		return padded
	}
}
