package surface

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fnndsc/surfresults/internal/config"
)

// OutputSet holds the absolute paths of the seven files one subject run
// writes, all inside the subject's output directory.
type OutputSet struct {
	Mid              string
	Thickness        string
	SurfaceAngles    string
	RadAngles        string
	NormAngles       string
	ScaledRadAngles  string
	ScaledNormAngles string
}

// NewOutputSet joins the configured output names onto dir.
func NewOutputSet(dir string, o config.Outputs) OutputSet {
	return OutputSet{
		Mid:              filepath.Join(dir, o.Mid),
		Thickness:        filepath.Join(dir, o.TlinkThickness),
		SurfaceAngles:    filepath.Join(dir, o.SurfaceAngles),
		RadAngles:        filepath.Join(dir, o.RadAngles),
		NormAngles:       filepath.Join(dir, o.AnglesBetweenNormals),
		ScaledRadAngles:  filepath.Join(dir, o.ScaledRadAngles),
		ScaledNormAngles: filepath.Join(dir, o.ScaledAnglesBetweenNormals),
	}
}

// Paths lists the output files in the order the pipeline writes them.
func (s OutputSet) Paths() []string {
	return []string{
		s.Thickness,
		s.Mid,
		s.SurfaceAngles,
		s.RadAngles,
		s.NormAngles,
		s.ScaledRadAngles,
		s.ScaledNormAngles,
	}
}

// Remove deletes every file of the set that exists. Files that were never
// written are not an error.
func (s OutputSet) Remove() error {
	var errs []error
	for _, p := range s.Paths() {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the total size in bytes of the files in the set that exist.
func (s OutputSet) Size() int64 {
	var total int64
	for _, p := range s.Paths() {
		if fi, err := os.Stat(p); err == nil {
			total += fi.Size()
		}
	}
	return total
}
