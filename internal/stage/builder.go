package stage

import "strings"

// Command is one external tool invocation.
type Command struct {
	Name string   // binary name or path
	Args []string // positional arguments
}

// Tool returns the base name of the binary, used as a label in logs and metrics.
func (c Command) Tool() string {
	name := c.Name
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// String renders the command line for logging.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// CorticalThickness computes the tlink thickness between inner and outer
// into out.
func CorticalThickness(bin, inner, outer, out string) Command {
	return Command{Name: bin, Args: []string{"-tlink", inner, outer, out}}
}

// AverageObjects writes the mid surface, the vertex-wise average of inner
// and outer, to out.
func AverageObjects(bin, out, inner, outer string) Command {
	return Command{Name: bin, Args: []string{out, inner, outer}}
}

// AdaptObjectMesh resamples mesh in place with the given parameters.
func AdaptObjectMesh(bin, mesh string, params []string) Command {
	args := make([]string, 0, 2+len(params))
	args = append(args, mesh, mesh)
	args = append(args, params...)
	return Command{Name: bin, Args: args}
}

// SurfaceAngles measures the angles of inner, mid and outer into out.
func SurfaceAngles(bin, inner, mid, outer, out string) Command {
	return Command{Name: bin, Args: []string{inner, mid, outer, out}}
}

// DepthPotentialNormals writes the per-vertex unit normals of mesh to out.
func DepthPotentialNormals(bin, mesh, out string) Command {
	return Command{Name: bin, Args: []string{"-normals", mesh, out}}
}
