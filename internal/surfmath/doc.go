// Package surfmath derives the angle and thickness metrics from the raw
// per-vertex arrays produced by the geometry tools, and reads and writes
// those arrays as whitespace-delimited text.
//
// All functions work on one array at a time and never modify their inputs.
// Out-of-domain input is reported as an error in Strict mode and becomes
// NaN in Lenient mode.
package surfmath
