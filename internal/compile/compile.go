// Package compile invokes the external board compiler and resolves the
// binaries it produces.
package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"sketchforge/internal/firmware"
	"sketchforge/internal/logfields"
)

// Defaults for the external compiler invocation.
const (
	DefaultBinary = "arduino-cli"
	DefaultFQBN   = "arduboy-homemade:avr:arduboy-homemade"
)

// CompileError reports a nonzero compiler exit. Both captured streams are
// carried verbatim so the caller can surface the compiler's own diagnostics.
type CompileError struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiler exited with status %d: %v", e.ExitCode, e.Err)
}
func (e *CompileError) Unwrap() error { return e.Err }

// Invoker runs the external compiler against a staged sketch tree.
type Invoker struct {
	bin  string
	fqbn string
}

// NewInvoker creates an invoker for the given compiler binary and board
// identifier, substituting the defaults for empty values.
func NewInvoker(bin, fqbn string) *Invoker {
	if bin == "" {
		bin = DefaultBinary
	}
	if fqbn == "" {
		fqbn = DefaultFQBN
	}
	return &Invoker{bin: bin, fqbn: fqbn}
}

// Compile runs the compiler with projectDir as the sketch argument, writing
// build output into buildDir (created if missing). Standard output and error
// are captured separately and returned inside CompileError on failure.
func (i *Invoker) Compile(ctx context.Context, projectDir, buildDir string, flags firmware.FlagSet) error {
	if err := os.MkdirAll(buildDir, 0o750); err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}

	args := []string{
		"compile",
		"--fqbn", i.fqbn,
		"--build-path", buildDir,
		"--build-property", flags.BuildProperty(),
		projectDir,
	}
	slog.Debug("Invoking compiler", logfields.Name(i.bin), logfields.Path(projectDir))

	// #nosec G204 -- invoking the configured compiler binary with controlled args
	cmd := exec.CommandContext(ctx, i.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			exitCode = ee.ExitCode()
		}
		return &CompileError{
			ExitCode: exitCode,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Err:      err,
		}
	}
	return nil
}
