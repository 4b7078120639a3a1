// Package staging manages the disposable working directories that hold one
// build attempt's source tree.
package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"sketchforge/internal/logfields"
)

// CleanupError reports a non-permission filesystem failure during staging
// teardown. Permission failures are auto-recovered once before this is raised.
type CleanupError struct {
	Path string
	Err  error
}

func (e *CleanupError) Error() string { return fmt.Sprintf("cleanup of %s failed: %v", e.Path, e.Err) }
func (e *CleanupError) Unwrap() error { return e.Err }

// Dir is a staging directory owned by exactly one build job. Owned directories
// are created fresh and removed on Cleanup; in-place directories wrap a user's
// existing sketch directory and are never deleted.
type Dir struct {
	path  string
	owned bool
}

// New creates a fresh, uniquely named staging directory under baseDir
// (os.TempDir when empty). Any pre-existing directory at the chosen path is
// destroyed first.
func New(baseDir string) (*Dir, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	path := filepath.Join(baseDir, "sketchforge-"+uuid.NewString())

	if err := forceRemoveAll(path); err != nil {
		return nil, fmt.Errorf("failed to clear staging path: %w", err)
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	slog.Debug("Created staging directory", logfields.Path(path))
	return &Dir{path: path, owned: true}, nil
}

// InPlace wraps an existing directory as a non-owned staging directory.
// Cleanup on an in-place directory is a no-op.
func InPlace(path string) *Dir { return &Dir{path: path} }

// Path returns the staging directory's filesystem path.
func (d *Dir) Path() string { return d.path }

// Owned reports whether Cleanup will delete the directory.
func (d *Dir) Owned() bool { return d.owned }

// Cleanup removes an owned staging directory. Safe to call more than once.
func (d *Dir) Cleanup() error {
	if d == nil || !d.owned || d.path == "" {
		return nil
	}
	if err := forceRemoveAll(d.path); err != nil {
		return &CleanupError{Path: d.path, Err: err}
	}
	slog.Debug("Removed staging directory", logfields.Path(d.path))
	d.path = ""
	return nil
}

// forceRemoveAll removes path recursively. Cloned trees can carry read-only
// entries (git object files); on a permission failure every entry is made
// writable and the removal retried exactly once. Other errors propagate.
func forceRemoveAll(path string) error {
	err := os.RemoveAll(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrPermission) {
		return err
	}

	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // entry already gone or unreadable; removal below decides
		}
		mode := os.FileMode(0o600)
		if d.IsDir() {
			mode = 0o700
		}
		_ = os.Chmod(p, mode)
		return nil
	})
	if walkErr != nil {
		return walkErr
	}
	return os.RemoveAll(path)
}
