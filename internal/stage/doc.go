// Package stage builds and executes the external geometry tool commands
// (cortical_thickness, average_objects, adapt_object_mesh, surface_angles,
// depth_potential).
//
// Every command has a fixed positional argument vector. Standard output is
// discarded; standard error is captured so a failing tool can be reported
// with its last lines. There are no retries: the tools are deterministic,
// so a non-zero exit means bad input or a missing binary.
package stage
