package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML form of a Config. Every field is optional;
// pointer fields distinguish "unset" from a zero value.
//
//	outputs:
//	  mid: mid_81920.obj
//	tools:
//	  depth_potential: /opt/minc/bin/depth_potential
//	workers: 8
//	numeric: lenient
type FileConfig struct {
	Outputs     Outputs  `yaml:"outputs"`
	Tools       Tools    `yaml:"tools"`
	MeshSuffix  string   `yaml:"mesh_suffix"`
	AdaptArgs   []string `yaml:"adapt_args"`
	Workers     *int     `yaml:"workers"`
	Numeric     string   `yaml:"numeric"`
	StopGrace   string   `yaml:"stop_grace"`
	MetricsFile string   `yaml:"metrics_file"`
	Summary     *bool    `yaml:"summary"`
	Verbose     *bool    `yaml:"verbose"`
	Color       string   `yaml:"color"`
	LogFile     string   `yaml:"log"`
}

// LoadFile reads and strictly decodes a YAML config file. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// mergeInto copies every set file value into cfg unless the corresponding
// flag was given explicitly (changed reports that).
func (fc *FileConfig) mergeInto(cfg *Config, changed func(string) bool) error {
	setString := func(flag string, dst *string, v string) {
		if v != "" && (flag == "" || !changed(flag)) {
			*dst = v
		}
	}

	setString("mid", &cfg.Outputs.Mid, fc.Outputs.Mid)
	setString("tlink-thickness", &cfg.Outputs.TlinkThickness, fc.Outputs.TlinkThickness)
	setString("surface_angles", &cfg.Outputs.SurfaceAngles, fc.Outputs.SurfaceAngles)
	setString("rad-angles", &cfg.Outputs.RadAngles, fc.Outputs.RadAngles)
	setString("angles-between-normals", &cfg.Outputs.AnglesBetweenNormals, fc.Outputs.AnglesBetweenNormals)
	setString("scaled-rad-angles", &cfg.Outputs.ScaledRadAngles, fc.Outputs.ScaledRadAngles)
	setString("scaled-angles-between-normals", &cfg.Outputs.ScaledAnglesBetweenNormals, fc.Outputs.ScaledAnglesBetweenNormals)

	// Tools and adapt parameters are file-only settings.
	setString("", &cfg.Tools.CorticalThickness, fc.Tools.CorticalThickness)
	setString("", &cfg.Tools.AverageObjects, fc.Tools.AverageObjects)
	setString("", &cfg.Tools.AdaptObjectMesh, fc.Tools.AdaptObjectMesh)
	setString("", &cfg.Tools.SurfaceAngles, fc.Tools.SurfaceAngles)
	setString("", &cfg.Tools.DepthPotential, fc.Tools.DepthPotential)
	if len(fc.AdaptArgs) > 0 {
		cfg.AdaptArgs = append([]string(nil), fc.AdaptArgs...)
	}

	setString("suffix", &cfg.MeshSuffix, fc.MeshSuffix)
	setString("metrics-file", &cfg.MetricsFile, fc.MetricsFile)
	setString("log", &cfg.LogFile, fc.LogFile)

	if fc.Workers != nil && !changed("workers") {
		cfg.Workers = *fc.Workers
	}
	if fc.Summary != nil && !changed("summary") {
		cfg.Summary = *fc.Summary
	}
	if fc.Verbose != nil && !changed("verbose") {
		cfg.Verbose = *fc.Verbose
	}
	if fc.Numeric != "" && !changed("numeric") {
		if err := (&numericValue{&cfg.Numeric}).Set(fc.Numeric); err != nil {
			return err
		}
	}
	if fc.StopGrace != "" && !changed("stop-grace") {
		d, err := time.ParseDuration(fc.StopGrace)
		if err != nil {
			return fmt.Errorf("invalid stop_grace %q: %w", fc.StopGrace, err)
		}
		cfg.StopGrace = d
	}
	if fc.Color != "" && !changed("color") && !changed("no-color") {
		switch ColorMode(fc.Color) {
		case ColorAuto, ColorAlways, ColorNever:
			cfg.ColorMode = ColorMode(fc.Color)
		default:
			return fmt.Errorf("invalid color %q (use 'auto', 'always' or 'never')", fc.Color)
		}
	}
	return nil
}
