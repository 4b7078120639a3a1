package sketch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"sketchforge/internal/logfields"
	"sketchforge/internal/staging"
)

// Stager materializes sketch sources into staging directories.
type Stager struct {
	gitBin  string
	baseDir string
}

// NewStager creates a stager that clones with the given git binary and places
// owned staging directories under baseDir (os.TempDir when empty).
func NewStager(gitBin, baseDir string) *Stager {
	if gitBin == "" {
		gitBin = "git"
	}
	return &Stager{gitBin: gitBin, baseDir: baseDir}
}

// Stage produces a staging directory holding the sketch's source tree.
func (s *Stager) Stage(ctx context.Context, src Source) (*staging.Dir, error) {
	switch src := src.(type) {
	case RemoteGit:
		return s.stageRemote(ctx, src)
	case LocalFile:
		return s.stageLocal(src)
	default:
		return nil, fmt.Errorf("unsupported sketch source %T", src)
	}
}

func (s *Stager) stageRemote(ctx context.Context, src RemoteGit) (*staging.Dir, error) {
	dir, err := staging.New(s.baseDir)
	if err != nil {
		return nil, err
	}

	slog.Debug("Cloning repository", logfields.URL(src.URL), logfields.Path(dir.Path()))
	// #nosec G204 -- invoking the configured VC client with controlled args
	cmd := exec.CommandContext(ctx, s.gitBin, "clone", src.URL, dir.Path())
	out, err := cmd.CombinedOutput()
	if err != nil {
		if cerr := dir.Cleanup(); cerr != nil {
			slog.Warn("Failed to clean up staging after clone failure", logfields.Error(cerr))
		}
		return nil, &CloneError{URL: src.URL, Output: string(out), Err: err}
	}

	if commit := HeadCommit(dir.Path()); commit != "" {
		slog.Info("Repository cloned", logfields.URL(src.URL), logfields.Commit(commit), logfields.Path(dir.Path()))
	} else {
		slog.Info("Repository cloned", logfields.URL(src.URL), logfields.Path(dir.Path()))
	}
	return dir, nil
}

// HeadCommit returns the abbreviated HEAD commit of a cloned staging tree, or
// empty when the tree is not a readable repository. The clone itself stays a
// subprocess concern; go-git is read-side only.
func HeadCommit(dir string) string {
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return ""
	}
	ref, err := repo.Head()
	if err != nil {
		return ""
	}
	return shortHash(ref.Hash().String())
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

func (s *Stager) stageLocal(src LocalFile) (*staging.Dir, error) {
	abs, err := filepath.Abs(src.Path)
	if err != nil {
		return nil, &StagingError{Op: "resolve", Path: src.Path, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &StagingError{Op: "stat", Path: abs, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &StagingError{Op: "stat", Path: abs, Err: fmt.Errorf("not a regular file")}
	}

	base := filepath.Base(abs)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	parent := filepath.Dir(abs)

	// Parent already satisfies the compiler's naming convention: compile the
	// user's directory in place, no copy.
	if filepath.Base(parent) == stem {
		slog.Debug("Staging sketch in place", logfields.Path(parent))
		return staging.InPlace(parent), nil
	}

	dir, err := staging.New(s.baseDir)
	if err != nil {
		return nil, err
	}
	sketchDir := filepath.Join(dir.Path(), stem)
	if err := os.MkdirAll(sketchDir, 0o750); err != nil {
		cleanupQuietly(dir)
		return nil, &StagingError{Op: "mkdir", Path: sketchDir, Err: err}
	}

	entries, err := os.ReadDir(parent)
	if err != nil {
		cleanupQuietly(dir)
		return nil, &StagingError{Op: "read", Path: parent, Err: err}
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if info, err := entry.Info(); err != nil || !info.Mode().IsRegular() {
			continue
		}
		srcPath := filepath.Join(parent, entry.Name())
		dstPath := filepath.Join(sketchDir, entry.Name())
		if err := copyFile(srcPath, dstPath); err != nil {
			cleanupQuietly(dir)
			return nil, &StagingError{Op: "copy", Path: srcPath, Err: err}
		}
	}

	copied := filepath.Join(sketchDir, base)
	want := filepath.Join(sketchDir, stem+ext)
	if copied != want {
		if err := os.Rename(copied, want); err != nil {
			cleanupQuietly(dir)
			return nil, &StagingError{Op: "rename", Path: copied, Err: err}
		}
	}
	if _, err := os.Stat(want); err != nil {
		cleanupQuietly(dir)
		return nil, &StagingError{Op: "verify", Path: want, Err: err}
	}

	slog.Debug("Staged local sketch", logfields.Path(sketchDir), logfields.Name(stem))
	return dir, nil
}

func cleanupQuietly(dir *staging.Dir) {
	if err := dir.Cleanup(); err != nil {
		slog.Warn("Failed to clean up staging after error", logfields.Error(err))
	}
}

// copyFile copies a single file preserving its permissions.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = dstFile.Close()
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode())
}
