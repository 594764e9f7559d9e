// Package pipeline orchestrates subject discovery, per-subject processing,
// and batch summary reporting.
//
// Types:
//   - DirPair: one subject's input directory and mirrored output directory
//   - Processor: runs the full stage sequence for one subject
//   - SubjectResult, RunStats: per-subject outcome and batch totals
//
// Functions:
//   - MapDirs(inRoot, outRoot): lazy walk yielding one DirPair per
//     directory that directly holds files
//   - Run(ctx, cfg, log, proc): bounded worker pool over MapDirs
//   - PrintSummary: per-subject metric table with IQR outlier flags
package pipeline
