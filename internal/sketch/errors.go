package sketch

import "fmt"

// CloneError reports a nonzero exit from the version-control client. Output
// carries the client's combined stdout/stderr verbatim for user diagnostics.
type CloneError struct {
	URL    string
	Output string
	Err    error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("failed to clone repository %s: %v", e.URL, e.Err)
}
func (e *CloneError) Unwrap() error { return e.Err }

// StagingError reports a local copy or rename failure while materializing a
// sketch source tree.
type StagingError struct {
	Op   string
	Path string
	Err  error
}

func (e *StagingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("staging %s %s failed", e.Op, e.Path)
	}
	return fmt.Sprintf("staging %s %s failed: %v", e.Op, e.Path, e.Err)
}
func (e *StagingError) Unwrap() error { return e.Err }

// NotFoundError reports that no entry file with both setup and loop markers
// was discovered under the staged tree.
type NotFoundError struct {
	Root string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no sketch entry file containing setup() and loop() found under %s", e.Root)
}
