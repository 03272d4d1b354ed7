package ioutils

import (
	"os"
	"path/filepath"
	"sort"
)

// EnsureDir creates a directory and all parent directories if they
// don't exist. Directories are created with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFile writes data to a file with mode 0644, truncating any
// existing content.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// FileExists reports whether a regular file exists at path.
//
// A partially-written leftover would also count as existing; the
// download pipeline avoids that case by writing through a temporary
// path and renaming on completion.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ListMP3s returns the .mp3 files directly inside dir, sorted by name.
func ListMP3s(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.mp3"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
