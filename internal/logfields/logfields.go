package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyJobID      = "job_id"
	KeyJobState   = "job_state"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyName       = "name"
	KeyCommit     = "commit"
	KeyExitCode   = "exit_code"
	KeyArtifact   = "artifact"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func JobID(id string) slog.Attr       { return slog.String(KeyJobID, id) }
func JobState(s string) slog.Attr     { return slog.String(KeyJobState, s) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Commit(c string) slog.Attr       { return slog.String(KeyCommit, c) }
func ExitCode(c int) slog.Attr        { return slog.Int(KeyExitCode, c) }
func Artifact(a string) slog.Attr     { return slog.String(KeyArtifact, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
