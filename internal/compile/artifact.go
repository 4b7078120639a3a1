package compile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sketchforge/internal/sketch"
)

// ArtifactNotFoundError reports a successful compile that produced no
// locatable binary in the build directory.
type ArtifactNotFoundError struct {
	BuildDir string
}

func (e *ArtifactNotFoundError) Error() string {
	return fmt.Sprintf("no .hex artifact found in build directory %s", e.BuildDir)
}

const artifactExtension = ".hex"

// ResolveArtifact locates the compiled binary inside buildDir. The compiler's
// conventional name <projectName>.ino.hex is preferred; otherwise the first
// *.hex file in lexicographic order is taken.
func ResolveArtifact(buildDir, projectName string) (string, error) {
	conventional := filepath.Join(buildDir, projectName+sketch.EntryExtension+artifactExtension)
	if info, err := os.Stat(conventional); err == nil && info.Mode().IsRegular() {
		return conventional, nil
	}

	entries, err := os.ReadDir(buildDir)
	if err != nil {
		return "", fmt.Errorf("failed to read build directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), artifactExtension) {
			return filepath.Join(buildDir, entry.Name()), nil
		}
	}
	return "", &ArtifactNotFoundError{BuildDir: buildDir}
}
