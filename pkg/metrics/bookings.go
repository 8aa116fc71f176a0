package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics records counters and timings for the booking pipeline.
type BookingMetrics struct {
	created       *prometheus.CounterVec
	conflicts     prometheus.Counter
	redemptions   *prometheus.CounterVec
	availability  *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
}

// NewBookingMetrics registers the booking metrics on the provided registerer.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Bookings created, by booking type.",
	}, []string{"type"})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "booking_conflicts_detected_total",
		Help: "Same-day duplicate bookings flagged during creation.",
	})
	redemptions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gift_card_redemptions_total",
		Help: "Gift card redemption attempts, by outcome.",
	}, []string{"outcome"})
	availability := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "availability_checks_total",
		Help: "Guide availability lookups, by outcome.",
	}, []string{"outcome"})
	checkDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "availability_check_duration_seconds",
		Help:    "Duration of guide availability lookups in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(created, conflicts, redemptions, availability, checkDuration)
	return &BookingMetrics{
		created:       created,
		conflicts:     conflicts,
		redemptions:   redemptions,
		availability:  availability,
		checkDuration: checkDuration,
	}
}

// IncCreated increments the created counter for the given booking type.
func (b *BookingMetrics) IncCreated(bookingType string) {
	if b == nil || b.created == nil {
		return
	}
	b.created.WithLabelValues(normalizeLabel(bookingType)).Inc()
}

// IncConflict increments the duplicate-booking counter.
func (b *BookingMetrics) IncConflict() {
	if b == nil || b.conflicts == nil {
		return
	}
	b.conflicts.Inc()
}

// IncRedemption increments the gift card redemption counter for the outcome.
func (b *BookingMetrics) IncRedemption(outcome string) {
	if b == nil || b.redemptions == nil {
		return
	}
	b.redemptions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveAvailabilityCheck records one availability lookup with its duration.
func (b *BookingMetrics) ObserveAvailabilityCheck(outcome string, duration time.Duration) {
	if b == nil || b.availability == nil {
		return
	}
	label := normalizeLabel(outcome)
	b.availability.WithLabelValues(label).Inc()
	b.checkDuration.WithLabelValues(label).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
