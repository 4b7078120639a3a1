package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stateDuration *prom.HistogramVec
	jobDuration   prom.Histogram
	jobOutcomes   *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stateDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "sketchforge",
			Name:      "job_state_duration_seconds",
			Help:      "Duration of individual build job states",
			Buckets:   prom.DefBuckets,
		}, []string{"state"}),
		jobDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "sketchforge",
			Name:      "job_duration_seconds",
			Help:      "Total build job duration",
			Buckets:   prom.DefBuckets,
		}),
		jobOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sketchforge",
			Name:      "job_outcomes_total",
			Help:      "Build job outcomes by terminal state",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.stateDuration, pr.jobDuration, pr.jobOutcomes)
	return pr
}

func (pr *PrometheusRecorder) ObserveStateDuration(state string, d time.Duration) {
	pr.stateDuration.WithLabelValues(state).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveJobDuration(d time.Duration) {
	pr.jobDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncJobOutcome(outcome string) {
	pr.jobOutcomes.WithLabelValues(outcome).Inc()
}
