// Package config holds runtime configuration: defaults, CLI flag binding,
// the optional YAML config file, and validation. Output file names and tool
// names default to the values used by the pl-cortical_thickness plugin.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// --- Enum types for validated string fields ---

// NumericPolicy selects how out-of-domain numeric input is handled.
type NumericPolicy string

const (
	NumericStrict  NumericPolicy = "strict"  // Domain errors are fatal for the subject (default).
	NumericLenient NumericPolicy = "lenient" // Domain errors produce NaN and the subject continues.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Outputs names the seven files written into every subject output directory.
type Outputs struct {
	Mid                        string `yaml:"mid"`
	TlinkThickness             string `yaml:"tlink_thickness"`
	SurfaceAngles              string `yaml:"surface_angles"`
	RadAngles                  string `yaml:"rad_angles"`
	AnglesBetweenNormals       string `yaml:"angles_between_normals"`
	ScaledRadAngles            string `yaml:"scaled_rad_angles"`
	ScaledAnglesBetweenNormals string `yaml:"scaled_angles_between_normals"`
}

// Names returns the output file names in pipeline order.
func (o Outputs) Names() []string {
	return []string{
		o.Mid,
		o.TlinkThickness,
		o.SurfaceAngles,
		o.RadAngles,
		o.AnglesBetweenNormals,
		o.ScaledRadAngles,
		o.ScaledAnglesBetweenNormals,
	}
}

// Tools names the external geometry binaries. Each may be a bare name
// (resolved on PATH) or an absolute path.
type Tools struct {
	CorticalThickness string `yaml:"cortical_thickness"`
	AverageObjects    string `yaml:"average_objects"`
	AdaptObjectMesh   string `yaml:"adapt_object_mesh"`
	SurfaceAngles     string `yaml:"surface_angles"`
	DepthPotential    string `yaml:"depth_potential"`
}

// Names returns the tool names in invocation order.
func (t Tools) Names() []string {
	return []string{
		t.CorticalThickness,
		t.AverageObjects,
		t.AdaptObjectMesh,
		t.SurfaceAngles,
		t.DepthPotential,
	}
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then by [BindFlags] and [LoadFile], before being passed (by pointer) to
// packages that need it.
type Config struct {
	// Paths (set from positional args).
	InputDir  string
	OutputDir string

	// Output file names, relative to each subject output directory.
	Outputs Outputs

	// Input matching.
	MeshSuffix string // Default: "_81920.obj".

	// External tools.
	Tools      Tools
	AdaptArgs  []string      // Fixed: "0 10 0 0" (adapt_object_mesh parameters).
	StopGrace  time.Duration // Default: 5s. Interrupt-to-kill delay for in-flight tools.
	Workers    int           // Default: 0 (number of CPUs visible to the process).
	Numeric    NumericPolicy // Default: "strict".
	ConfigFile string        // Optional YAML file (--config).

	// Reporting.
	MetricsFile string // Optional Prometheus textfile path.
	Summary     bool   // Print per-subject summary table after the run.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults matching the
// pl-cortical_thickness plugin.
func DefaultConfig() Config {
	return Config{
		Outputs: Outputs{
			Mid:                        "mid_81920.obj",
			TlinkThickness:             "tlink.txt",
			SurfaceAngles:              "surface_angles.txt",
			RadAngles:                  "rad_angles.txt",
			AnglesBetweenNormals:       "angles_between_normals.txt",
			ScaledRadAngles:            "scaled_rad_angles.txt",
			ScaledAnglesBetweenNormals: "scaled_angles_between_normals.txt",
		},
		MeshSuffix: "_81920.obj",
		Tools: Tools{
			CorticalThickness: "cortical_thickness",
			AverageObjects:    "average_objects",
			AdaptObjectMesh:   "adapt_object_mesh",
			SurfaceAngles:     "surface_angles",
			DepthPotential:    "depth_potential",
		},
		AdaptArgs: []string{"0", "10", "0", "0"},
		StopGrace: 5 * time.Second,
		Workers:   0,
		Numeric:   NumericStrict,
		ColorMode: ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields, output names and tool names. When not in
// CheckOnly mode, it also requires that both directory paths are non-empty.
func (c *Config) Validate() error {
	switch c.Numeric {
	case NumericStrict, NumericLenient:
		// valid
	default:
		return errors.New("invalid numeric policy (use 'strict' or 'lenient')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative (got %d)", c.Workers)
	}
	if c.StopGrace < 0 {
		return fmt.Errorf("stop grace must not be negative (got %s)", c.StopGrace)
	}
	if !strings.HasSuffix(c.MeshSuffix, ".obj") {
		return fmt.Errorf("mesh suffix %q must end in .obj", c.MeshSuffix)
	}
	if err := validateOutputs(c.Outputs); err != nil {
		return err
	}
	for _, name := range c.Tools.Names() {
		if strings.TrimSpace(name) == "" {
			return errors.New("tool names must not be empty")
		}
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" || c.OutputDir == "" {
		return errors.New("need exactly inputdir and outputdir")
	}
	return nil
}

// validateOutputs requires seven distinct, plain file names. A separator in
// a name would let one subject write outside its own output directory.
func validateOutputs(o Outputs) error {
	seen := make(map[string]bool, 7)
	for _, name := range o.Names() {
		if name == "" {
			return errors.New("output file names must not be empty")
		}
		if name != filepath.Base(name) || name == "." || name == ".." {
			return fmt.Errorf("output file name %q must not contain a path", name)
		}
		if seen[name] {
			return fmt.Errorf("output file name %q is used twice", name)
		}
		seen[name] = true
	}
	return nil
}

// EffectiveWorkers resolves the worker count; zero means ncpu.
func (c *Config) EffectiveWorkers(ncpu int) int {
	if c.Workers > 0 {
		return c.Workers
	}
	if ncpu < 1 {
		return 1
	}
	return ncpu
}

// ValidatePaths ensures the resolved output directory is not inside (or equal
// to) the resolved input directory. This prevents the directory mapper from
// discovering its own output. Both arguments must be absolute,
// symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}
