package pipeline

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// DirPair is one subject: an input directory and the output directory that
// mirrors it under the output root.
type DirPair struct {
	In  string
	Out string
	Rel string // In relative to the input root; "." for the root itself
}

// MapDirs walks inRoot and yields a DirPair for every directory (inRoot
// included) that directly contains at least one non-directory entry. The
// output directory is created just before the pair is yielded. Directories
// are visited in lexical order; the sequence is lazy and stops when the
// consumer stops.
//
// A directory that cannot be read is yielded as an error and its subtree is
// skipped; the walk then continues.
func MapDirs(inRoot, outRoot string) iter.Seq2[DirPair, error] {
	return func(yield func(DirPair, error) bool) {
		_ = filepath.WalkDir(inRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(DirPair{}, err) {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() {
				return nil
			}

			hasFiles, err := holdsFiles(path)
			if err != nil {
				if !yield(DirPair{}, err) {
					return filepath.SkipAll
				}
				return filepath.SkipDir
			}
			if !hasFiles {
				return nil
			}

			rel, err := filepath.Rel(inRoot, path)
			if err != nil {
				return err
			}
			pair := DirPair{In: path, Out: filepath.Join(outRoot, rel), Rel: rel}
			if err := os.MkdirAll(pair.Out, 0o755); err != nil {
				err = fmt.Errorf("create output directory for %s: %w", rel, err)
				if !yield(DirPair{}, err) {
					return filepath.SkipAll
				}
				return nil
			}
			if !yield(pair, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func holdsFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if !e.IsDir() {
			return true, nil
		}
	}
	return false, nil
}
