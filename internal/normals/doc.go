// Package normals extracts per-vertex unit normals from a surface mesh by
// running depth_potential into a private temporary file and parsing it.
package normals
