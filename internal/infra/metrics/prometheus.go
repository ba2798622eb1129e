package metrics

import (
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "booking_core"

// Recorder publishes booking counters on its own registry so tests and the ops
// server can read them without touching the global default registry.
type Recorder struct {
	registry            *prometheus.Registry
	allocationConflicts prometheus.Counter
	holdsReleased       prometheus.Counter
	transitions         *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		allocationConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_allocation_conflicts_total",
			Help:      "Slot allocations lost to a concurrent booking.",
		}),
		holdsReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expired_holds_released_total",
			Help:      "Unconfirmed slot holds released by the sweeper.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Booking state transitions by resulting status.",
		}, []string{"status"}),
	}
	r.registry.MustRegister(
		r.allocationConflicts,
		r.holdsReleased,
		r.transitions,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// AllocationConflict is counted per process; provider ids are left out of the labels
// to keep cardinality bounded.
func (r *Recorder) AllocationConflict(_ uuid.UUID) {
	r.allocationConflicts.Inc()
}

func (r *Recorder) HoldsReleased(n int) {
	if n > 0 {
		r.holdsReleased.Add(float64(n))
	}
}

func (r *Recorder) BookingTransition(status string) {
	r.transitions.WithLabelValues(status).Inc()
}
