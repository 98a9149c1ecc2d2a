package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks application lifecycle outcomes.
type Metrics struct {
	ApplicationsSubmitted prometheus.Counter
	DuplicatesRejected    prometheus.Counter
	StatusChanges         *prometheus.CounterVec
	Cancellations         prometheus.Counter
	OperationDuration     *prometheus.HistogramVec
}

// New registers all collectors with reg. A nil reg builds unregistered
// collectors, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ApplicationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "policfy_applications_submitted_total",
			Help: "Total number of policy applications accepted",
		}),
		DuplicatesRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "policfy_applications_duplicate_total",
			Help: "Total number of applications rejected as duplicates",
		}),
		StatusChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "policfy_application_status_changes_total",
			Help: "Total number of admin status updates, by new status",
		}, []string{"status"}),
		Cancellations: factory.NewCounter(prometheus.CounterOpts{
			Name: "policfy_applications_cancelled_total",
			Help: "Total number of applications cancelled by their owner",
		}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "policfy_application_operation_duration_seconds",
			Help:    "Duration of application lifecycle operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementSubmitted() {
	m.ApplicationsSubmitted.Inc()
}

func (m *Metrics) IncrementDuplicate() {
	m.DuplicatesRejected.Inc()
}

func (m *Metrics) IncrementStatusChange(status string) {
	m.StatusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementCancelled() {
	m.Cancellations.Inc()
}

// ObserveOperation records how long an operation took.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
