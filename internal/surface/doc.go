// Package surface locates the inner/outer surface meshes of a subject and
// names the files a subject run writes.
//
// Matching is by file name only: a mesh is an inner (outer) surface when
// its name ends with the configured resolution suffix and the part before
// the suffix contains "inner" ("outer"). Mesh contents are never read.
//
// When several files match a role, the lexicographically first one wins,
// so repeated runs over the same directory always pick the same pair.
package surface
