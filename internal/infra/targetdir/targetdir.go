// Package targetdir locates the directory that holds persisted results.
package targetdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AppDir is the directory created under the resolved root.
const AppDir = "microbench"

// ErrNotFound is returned when no results directory can be determined.
var ErrNotFound = errors.New("targetdir: no results directory")

// Resolve returns the results directory, <root>/microbench. The root is
// explicit when non-empty, else the nearest ancestor of the running
// executable named "target", else the user cache directory.
func Resolve(explicit string) (string, error) {
	root, err := resolveRoot(explicit, os.Executable, os.UserCacheDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, AppDir), nil
}

func resolveRoot(explicit string, executable, cacheDir func() (string, error)) (string, error) {
	if explicit != "" {
		return filepath.Abs(explicit)
	}

	if exe, err := executable(); err == nil {
		if dir, ok := findTarget(exe); ok {
			return dir, nil
		}
	}

	cache, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return cache, nil
}

// findTarget walks up from path looking for a directory named "target".
func findTarget(path string) (string, bool) {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	dir := filepath.Dir(path)
	for {
		if filepath.Base(dir) == "target" {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LabelDir returns the directory holding the slots of label.
func LabelDir(resultsDir, label string) string {
	return filepath.Join(resultsDir, label)
}
