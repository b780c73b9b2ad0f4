// Package fsutil provides file system utility functions.
package fsutil

import (
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// FindCourseDirs returns the names of every direct subdirectory of root
// that contains the given root markup file (e.g. "course.xml"). The result
// is sorted so that directory enumeration order never depends on the
// underlying filesystem.
func FindCourseDirs(fsys afero.Fs, root string, rootFile string) ([]string, error) {
	if rootFile == "" {
		panic("rootFile must not be empty")
	}

	entries, err := afero.ReadDir(fsys, root)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		ok, err := afero.Exists(fsys, filepath.Join(root, entry.Name(), rootFile))
		if err != nil {
			return nil, err
		}
		if ok {
			dirs = append(dirs, entry.Name())
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}
