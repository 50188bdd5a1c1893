package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StorageErrorRate counts slot store errors by backend and operation.
	StorageErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodsaver_storage_error_rate_total",
		Help: "Total number of slot store errors by backend and operation",
	}, []string{"backend", "operation"})

	// SlotWriteLatency records slot serialization and write latency per slot.
	SlotWriteLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "foodsaver_slot_write_latency_seconds",
		Help:    "Slot write latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"slot"})

	// SlotCorruptions counts slots whose JSON contents failed to decode.
	SlotCorruptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodsaver_slot_corruptions_total",
		Help: "Total number of slots with undecodable contents",
	}, []string{"slot"})

	// SweepTransitions counts donations transitioned to expired by the sweep.
	SweepTransitions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodsaver_sweep_transitions_total",
		Help: "Total number of donations expired by the sweep",
	})

	// SweepRuns counts executions of the expiry sweep.
	SweepRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodsaver_sweep_runs_total",
		Help: "Total number of expiry sweep executions",
	})

	// ReportRequests counts report computations by report name.
	ReportRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodsaver_report_requests_total",
		Help: "Total number of report computations by report",
	}, []string{"report"})

	// DonationTransitions counts status transitions by target status.
	DonationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodsaver_donation_transitions_total",
		Help: "Total number of donation status transitions by target status",
	}, []string{"status"})
)

// SlotMetrics wraps slot write timing for the storage layer.
type SlotMetrics struct{}

// NewSlotMetrics returns a new SlotMetrics instance.
func NewSlotMetrics() *SlotMetrics {
	return &SlotMetrics{}
}

// ObserveWrite records the latency of a slot write.
func (m *SlotMetrics) ObserveWrite(slot string, start time.Time) {
	SlotWriteLatency.WithLabelValues(slot).Observe(time.Since(start).Seconds())
}

// TrackWrite returns a function that records write latency when called (e.g. defer).
func (m *SlotMetrics) TrackWrite(slot string) func() {
	start := time.Now()
	return func() {
		m.ObserveWrite(slot, start)
	}
}
