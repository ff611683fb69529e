// Package fileutil provides file system utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// ErrNotFound is returned (wrapped) when no file matches the requested name.
var ErrNotFound = errors.New("file not found")

// FindFileCaseInsensitiveFS searches for a file with the given name in the
// specified directory of fsys (os.DirFS, embed.FS, fstest.MapFS...).
// The search is case-insensitive, which is useful for cross-platform compatibility.
//
// Parameters:
//   - fsys: The file system to search in
//   - dir: The directory to search in ("." for the root)
//   - filename: The filename to search for (case-insensitive)
//
// Returns:
//   - string: The actual path to the file if found, slash-separated
//   - error: Error if the file is not found or if there's an I/O error
//
// Example:
//
//	name, err := FindFileCaseInsensitiveFS(os.DirFS("/path/to/dir"), ".", "Hello.BF")
//	// Will find "hello.bf", "HELLO.BF", "Hello.bf", etc.
func FindFileCaseInsensitiveFS(fsys fs.FS, dir, filename string) (string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if strings.EqualFold(entry.Name(), filename) {
			return path.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("%w: %s (searched in %s)", ErrNotFound, filename, dir)
}

// Resolve returns the path of name in fsys. An exact match wins; otherwise
// the last path element is matched case-insensitively within its directory.
func Resolve(fsys fs.FS, name string) (string, error) {
	name = path.Clean(strings.TrimPrefix(name, "/"))

	if info, err := fs.Stat(fsys, name); err == nil {
		if info.IsDir() {
			return "", fmt.Errorf("%s is a directory", name)
		}
		return name, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	return FindFileCaseInsensitiveFS(fsys, path.Dir(name), path.Base(name))
}
