// Package export copies build artifacts out of their staging tree to a
// user-chosen destination.
package export

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"sketchforge/internal/logfields"
)

// Export copies the artifact to dest. When dest is an existing directory the
// file lands there under defaultName. The final path is returned. Export
// failures are reported here, independently of the build job's outcome.
func Export(artifactPath, dest, defaultName string) (string, error) {
	if dest == "" {
		dest = "."
	}
	target := dest
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		target = filepath.Join(dest, defaultName)
	}

	if err := copyFile(artifactPath, target); err != nil {
		return "", fmt.Errorf("failed to export binary to %s: %w", target, err)
	}
	slog.Info("Binary exported", logfields.Artifact(target))
	return target, nil
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
