package sketch

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sketchforge/internal/logfields"
)

// EntryExtension is the sketch entry file extension expected by the compiler.
const EntryExtension = ".ino"

// Markers an entry file must contain (matched case-insensitively).
const (
	setupMarker = "void setup()"
	loopMarker  = "void loop()"
)

// Locate walks root deterministically (lexicographic within each directory)
// and returns the first .ino file whose content contains both the setup and
// loop markers. First match wins.
func Locate(root string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != EntryExtension {
			return nil
		}
		content, rerr := os.ReadFile(path)
		if rerr != nil {
			return rerr
		}
		lower := strings.ToLower(string(content))
		if strings.Contains(lower, setupMarker) && strings.Contains(lower, loopMarker) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", &NotFoundError{Root: root}
	}
	return found, nil
}

// EnforceNaming renames the entry file so its base name matches its parent
// directory, the layout the compiler requires. Idempotent: matching names are
// left untouched. A rename failure is logged and the original path returned;
// it never fails the build.
func EnforceNaming(path string) string {
	parent := filepath.Dir(path)
	want := filepath.Base(parent) + EntryExtension
	if filepath.Base(path) == want {
		return path
	}
	newPath := filepath.Join(parent, want)
	if err := os.Rename(path, newPath); err != nil {
		slog.Warn("Failed to rename sketch entry file", logfields.Path(path), logfields.Error(err))
		return path
	}
	slog.Debug("Renamed sketch entry file", logfields.Path(newPath))
	return newPath
}
