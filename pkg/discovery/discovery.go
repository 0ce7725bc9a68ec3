// Package discovery finds class output and source directories below a project root.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/LambdaTest/covdiff/pkg/global"
	"github.com/bmatcuk/doublestar/v4"
)

// ClassRoots returns the class output directories below root.
func ClassRoots(root string) ([]string, error) {
	return Find(root, global.ClassDirPatterns)
}

// SourceRoots returns the source directories below root.
func SourceRoots(root string) ([]string, error) {
	return Find(root, global.SourceDirPatterns)
}

// Find returns the directories below root matching any of the doublestar
// patterns, sorted and without duplicates.
func Find(root string, patterns []string) ([]string, error) {
	if _, err := os.ReadDir(root); err != nil {
		return nil, err
	}
	fsys := os.DirFS(root)
	unique := make(map[string]struct{})
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			info, err := fs.Stat(fsys, m)
			if err != nil || !info.IsDir() {
				continue
			}
			unique[filepath.Join(root, filepath.FromSlash(m))] = struct{}{}
		}
	}
	dirs := make([]string, 0, len(unique))
	for d := range unique {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs, nil
}
