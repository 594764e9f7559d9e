package surface

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Role keywords that must appear in a surface file name.
const (
	RoleInner = "inner"
	RoleOuter = "outer"
)

// Pair is the result of locating surfaces in one directory. Inner or Outer
// is empty when no file matched that role.
type Pair struct {
	Inner string
	Outer string

	// Number of files that matched each role; more than one means the
	// tie-break picked the first by name.
	InnerMatches int
	OuterMatches int
}

// Complete reports whether both roles were found.
func (p Pair) Complete() bool {
	return p.Inner != "" && p.Outer != ""
}

// Missing names the roles that were not found, for log messages.
func (p Pair) Missing() []string {
	var m []string
	if p.Inner == "" {
		m = append(m, RoleInner)
	}
	if p.Outer == "" {
		m = append(m, RoleOuter)
	}
	return m
}

// Locate scans dir (non-recursively) for the inner and outer surface
// meshes ending in suffix. os.ReadDir returns entries sorted by name, so the
// first match per role is the lexicographically smallest.
func Locate(dir, suffix string) (Pair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Pair{}, fmt.Errorf("read %s: %w", dir, err)
	}

	var p Pair
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch MatchRole(e.Name(), suffix) {
		case RoleInner:
			p.InnerMatches++
			if p.Inner == "" {
				p.Inner = filepath.Join(dir, e.Name())
			}
		case RoleOuter:
			p.OuterMatches++
			if p.Outer == "" {
				p.Outer = filepath.Join(dir, e.Name())
			}
		}
	}
	return p, nil
}

// MatchRole returns RoleInner, RoleOuter or "" for a file name. Each file
// fills at most one role: a name containing both keywords is inner.
func MatchRole(name, suffix string) string {
	if !strings.HasSuffix(name, suffix) {
		return ""
	}
	stem := strings.TrimSuffix(name, suffix)
	switch {
	case strings.Contains(stem, RoleInner):
		return RoleInner
	case strings.Contains(stem, RoleOuter):
		return RoleOuter
	default:
		return ""
	}
}
