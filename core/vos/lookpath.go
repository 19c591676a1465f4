package vos

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

func findExecutable(fsys VFS, file string) error {
	d, err := fsys.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); m.IsRegular() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named by
// the PATH environment variable of the process.
func LookPath(v VOS, file string) (string, error) {
	return LookPathIn(v, v.Getenv(EnvPath), file)
}

// LookPathIn searches the colon separated directories of pathList in order and
// returns the first regular file named file that has an execute bit set. If
// file contains a slash, it is tried directly and pathList is not consulted.
func LookPathIn(fsys VFS, pathList, file string) (string, error) {
	if file == "" {
		return "", ErrNotFound
	}
	if strings.Contains(file, "/") {
		if err := findExecutable(fsys, file); err != nil {
			return "", err
		}
		return file, nil
	}
	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(fsys, path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// Executables lists the unique names of executables found in pathList, sorted.
// Unreadable directories are skipped.
func Executables(fsys VFS, pathList string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			dir = "."
		}
		entries, err := afero.ReadDir(fsys, dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if seen[name] {
				continue
			}
			if findExecutable(fsys, filepath.Join(dir, name)) == nil {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out
}
