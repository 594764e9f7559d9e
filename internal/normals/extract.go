package normals

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/fnndsc/surfresults/internal/stage"
	"github.com/fnndsc/surfresults/internal/surfmath"
)

// Extractor runs the normal-computation tool through Runner.
type Extractor struct {
	Runner stage.Runner
	Tool   string // depth_potential binary
	Dir    string // directory for temporary files; "" uses os.TempDir()
}

// Extract returns the unit normal of every vertex of mesh. The temporary
// file the tool writes is removed before Extract returns, whatever the
// outcome.
func (x *Extractor) Extract(ctx context.Context, mesh string) ([]r3.Vec, error) {
	tmp := x.tempPath()
	defer os.Remove(tmp)

	if err := x.Runner.Run(ctx, stage.DepthPotentialNormals(x.Tool, mesh, tmp)); err != nil {
		return nil, err
	}

	f, err := os.Open(tmp)
	if err != nil {
		return nil, fmt.Errorf("normals of %s: %w", filepath.Base(mesh), err)
	}
	defer f.Close()

	vecs, err := surfmath.ParseVectors(f)
	if err != nil {
		return nil, fmt.Errorf("normals of %s: %w", filepath.Base(mesh), err)
	}
	return vecs, nil
}

// ExtractPair extracts the normals of inner and outer concurrently. If one
// extraction fails the other is cancelled.
func (x *Extractor) ExtractPair(ctx context.Context, inner, outer string) (in, out []r3.Vec, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in, err = x.Extract(gctx, inner)
		return err
	})
	g.Go(func() error {
		var err error
		out, err = x.Extract(gctx, outer)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return in, out, nil
}

func (x *Extractor) tempPath() string {
	dir := x.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "normals-"+uuid.NewString()+".txt")
}
