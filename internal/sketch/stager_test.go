package sketch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeStub writes an executable shell script standing in for an external
// binary and returns its path.
func writeStub(t *testing.T, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestStageLocalInPlaceWhenNamesMatch(t *testing.T) {
	base := t.TempDir()
	sketchDir := filepath.Join(base, "Pong")
	writeFile(t, filepath.Join(sketchDir, "Pong.ino"), validSketch)

	st := NewStager("git", t.TempDir())
	dir, err := st.Stage(context.Background(), LocalFile{Path: filepath.Join(sketchDir, "Pong.ino")})
	require.NoError(t, err)
	require.Equal(t, sketchDir, dir.Path())
	require.False(t, dir.Owned(), "in-place staging must not own the user's directory")
}

func TestStageLocalCopiesOnNameMismatch(t *testing.T) {
	base := t.TempDir()
	parent := filepath.Join(base, "Foo")
	writeFile(t, filepath.Join(parent, "bar.ino"), validSketch)
	writeFile(t, filepath.Join(parent, "sprites.h"), "// sprites")
	writeFile(t, filepath.Join(parent, "notes.txt"), "todo")
	require.NoError(t, os.MkdirAll(filepath.Join(parent, "assets"), 0o750))

	st := NewStager("git", t.TempDir())
	dir, err := st.Stage(context.Background(), LocalFile{Path: filepath.Join(parent, "bar.ino")})
	require.NoError(t, err)
	defer func() { require.NoError(t, dir.Cleanup()) }()

	require.True(t, dir.Owned())
	copied := filepath.Join(dir.Path(), "bar")
	require.FileExists(t, filepath.Join(copied, "bar.ino"))
	require.FileExists(t, filepath.Join(copied, "sprites.h"))
	require.FileExists(t, filepath.Join(copied, "notes.txt"))
	// Entry name matches its new parent directory.
	require.Equal(t, filepath.Base(copied)+EntryExtension, "bar.ino")
	// Subdirectories are not copied.
	require.NoDirExists(t, filepath.Join(copied, "assets"))
}

func TestStageLocalMissingFile(t *testing.T) {
	st := NewStager("git", t.TempDir())
	_, err := st.Stage(context.Background(), LocalFile{Path: filepath.Join(t.TempDir(), "ghost.ino")})
	var se *StagingError
	require.True(t, errors.As(err, &se), "expected StagingError, got %v", err)
}

func TestStageRemoteCloneSuccess(t *testing.T) {
	git := writeStub(t, "git", `
# git clone <url> <dir>
mkdir -p "$3/Game"
printf 'void setup() {}\nvoid loop() {}\n' > "$3/Game/Game.ino"
`)

	st := NewStager(git, t.TempDir())
	dir, err := st.Stage(context.Background(), RemoteGit{URL: "https://example.invalid/game.git"})
	require.NoError(t, err)
	defer func() { require.NoError(t, dir.Cleanup()) }()

	require.True(t, dir.Owned())
	require.FileExists(t, filepath.Join(dir.Path(), "Game", "Game.ino"))
}

func TestStageRemoteCloneFailure(t *testing.T) {
	git := writeStub(t, "git", `
echo "fatal: repository not found" >&2
exit 128
`)

	st := NewStager(git, t.TempDir())
	_, err := st.Stage(context.Background(), RemoteGit{URL: "https://example.invalid/ghost.git"})

	var ce *CloneError
	require.True(t, errors.As(err, &ce), "expected CloneError, got %v", err)
	require.Equal(t, "https://example.invalid/ghost.git", ce.URL)
	require.Contains(t, ce.Output, "repository not found")
}

func TestHeadCommitOnNonRepository(t *testing.T) {
	require.Empty(t, HeadCommit(t.TempDir()))
}
