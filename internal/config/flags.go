package config

// This file binds CLI flags onto a Config. Flags are grouped into output
// names, processing, reporting, display and utility. Negated flags
// (--no-color) and the config file are applied after parsing so that
// explicitly set flags always win.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Binding ties a parsed flag set to the Config it populates.
type Binding struct {
	fs  *pflag.FlagSet
	cfg *Config

	forceColor bool
	noColor    bool
}

// BindFlags registers every flag on fs, writing into cfg. Defaults are
// taken from cfg, so call it on a Config from [DefaultConfig].
func BindFlags(fs *pflag.FlagSet, cfg *Config) *Binding {
	b := &Binding{fs: fs, cfg: cfg}
	defineOutputFlags(fs, cfg)
	defineProcessingFlags(fs, cfg)
	defineReportingFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, b)
	defineUtilityFlags(fs, cfg)
	return b
}

// defineOutputFlags registers the seven output file name flags. The
// --surface_angles spelling is kept for compatibility with existing invocations.
func defineOutputFlags(fs *pflag.FlagSet, cfg *Config) {
	o := &cfg.Outputs
	fs.StringVar(&o.Mid, "mid", o.Mid, "mid surface output file name")
	fs.StringVar(&o.TlinkThickness, "tlink-thickness", o.TlinkThickness, "thickness output file name")
	fs.StringVar(&o.SurfaceAngles, "surface_angles", o.SurfaceAngles, "surface angles output file name")
	fs.StringVar(&o.RadAngles, "rad-angles", o.RadAngles, "angles (inverted function of surface_angles) output file name")
	fs.StringVar(&o.AnglesBetweenNormals, "angles-between-normals", o.AnglesBetweenNormals, "angles between normals output file name")
	fs.StringVar(&o.ScaledRadAngles, "scaled-rad-angles", o.ScaledRadAngles, "rad angles multiplied by tlink thickness output file name")
	fs.StringVar(&o.ScaledAnglesBetweenNormals, "scaled-angles-between-normals", o.ScaledAnglesBetweenNormals, "scaled angles between normals output file name")
}

// defineProcessingFlags registers --suffix, -j/--workers, --numeric, --stop-grace.
func defineProcessingFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.MeshSuffix, "suffix", cfg.MeshSuffix, "mesh resolution suffix of input surfaces")
	fs.IntVarP(&cfg.Workers, "workers", "j", cfg.Workers, "parallel subjects (0 = number of CPUs)")
	fs.Var(&numericValue{&cfg.Numeric}, "numeric", "numeric domain error policy: strict | lenient")
	fs.DurationVar(&cfg.StopGrace, "stop-grace", cfg.StopGrace, "time running tools get to exit after an interrupt")
}

// defineReportingFlags registers --metrics-file and --summary.
func defineReportingFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus text metrics to this file")
	fs.BoolVar(&cfg.Summary, "summary", cfg.Summary, "print a per-subject summary table")
}

// defineDisplayFlags registers --color, --no-color, -v/--verbose, -l/--log.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config, b *Binding) {
	fs.BoolVar(&b.forceColor, "color", false, "force colored logs")
	fs.BoolVar(&b.noColor, "no-color", false, "disable colored logs")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "verbose output")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "append logs to file")
}

// defineUtilityFlags registers --config, -c/--check and -V/--version. The
// version flag is read by cobra, which prints and exits before args are
// validated.
func defineUtilityFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML config file")
	fs.BoolVarP(&cfg.CheckOnly, "check", "c", cfg.CheckOnly, "check that the geometry tools are available and exit")
	fs.BoolP("version", "V", false, "print version and exit")
}

// Apply finishes configuration after the flag set has been parsed: it
// merges the config file (if any) under the explicit flags, resolves the
// color flags, and sets the positional directories.
func (b *Binding) Apply(args []string) error {
	if b.cfg.ConfigFile != "" {
		fc, err := LoadFile(b.cfg.ConfigFile)
		if err != nil {
			return err
		}
		if err := fc.mergeInto(b.cfg, b.fs.Changed); err != nil {
			return err
		}
	}

	if b.noColor {
		b.cfg.ColorMode = ColorNever
	} else if b.forceColor {
		b.cfg.ColorMode = ColorAlways
	}

	return parsePositionalArgs(args, b.cfg)
}

// parsePositionalArgs sets InputDir and OutputDir from the two positional
// args when not in CheckOnly mode.
func parsePositionalArgs(args []string, cfg *Config) error {
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("need exactly inputdir and outputdir (got %d args)", len(args))
	}
	cfg.InputDir = NormalizeDirArg(args[0])
	cfg.OutputDir = NormalizeDirArg(args[1])
	return nil
}

// pflag.Value adapter so the NumericPolicy enum can be used with fs.Var.

type numericValue struct{ p *NumericPolicy }

func (n *numericValue) String() string { return string(*n.p) }
func (n *numericValue) Type() string   { return "policy" }
func (n *numericValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "strict":
		*n.p = NumericStrict
	case "lenient":
		*n.p = NumericLenient
	default:
		return fmt.Errorf("invalid numeric policy %q (use 'strict' or 'lenient')", s)
	}
	return nil
}
