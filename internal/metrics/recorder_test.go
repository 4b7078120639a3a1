package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestNoopRecorderIsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStateDuration("staging", time.Second)
	r.ObserveJobDuration(time.Second)
	r.IncJobOutcome("succeeded")
}

func TestPrometheusRecorderRegisters(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStateDuration("compiling", 2*time.Second)
	pr.ObserveJobDuration(5 * time.Second)
	pr.IncJobOutcome("failed")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"sketchforge_job_state_duration_seconds",
		"sketchforge_job_duration_seconds",
		"sketchforge_job_outcomes_total",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered (got %v)", want, names)
		}
	}
}
