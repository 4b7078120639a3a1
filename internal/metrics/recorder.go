// Package metrics defines observability hooks for build jobs.
package metrics

import "time"

// Recorder defines observability hooks for job and state metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. The
// NoopRecorder is the default when metrics are not configured.
type Recorder interface {
	ObserveStateDuration(state string, d time.Duration)
	ObserveJobDuration(d time.Duration)
	IncJobOutcome(outcome string) // outcome: succeeded|failed
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStateDuration(string, time.Duration) {}
func (NoopRecorder) ObserveJobDuration(time.Duration)           {}
func (NoopRecorder) IncJobOutcome(string)                       {}
