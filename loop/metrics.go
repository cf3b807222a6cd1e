package loop

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the loop's prometheus collectors.
type Metrics struct {
	steps      prometheus.Counter
	stepErrors prometheus.Counter
	duration   prometheus.Histogram
	hostFaults *prometheus.CounterVec
}

// NewMetrics registers the loop collectors with reg. A nil reg leaves them
// unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		steps: factory.NewCounter(prometheus.CounterOpts{
			Name: "doom_steps_total",
			Help: "Total number of guest steps executed",
		}),
		stepErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "doom_step_errors_total",
			Help: "Total number of guest steps that failed",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "doom_step_duration_seconds",
			Help:    "Guest step duration in seconds",
			Buckets: []float64{.0005, .001, .002, .004, .008, .016, .033, .066, .133},
		}),
		hostFaults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "doom_host_faults_total",
			Help: "Total number of host function calls that could not complete",
		}, []string{"function"}),
	}
}

// ObserveStep records one step.
func (m *Metrics) ObserveStep(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.steps.Inc()
	m.duration.Observe(d.Seconds())
	if err != nil {
		m.stepErrors.Inc()
	}
}

// HostFault counts a host function fault. Its signature matches
// host.Config.OnFault.
func (m *Metrics) HostFault(name string, _ error) {
	if m == nil {
		return
	}
	m.hostFaults.WithLabelValues(name).Inc()
}
