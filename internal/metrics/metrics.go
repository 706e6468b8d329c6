package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chargerbnb_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chargerbnb_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chargerbnb_bookings_total",
			Help: "Total number of bookings created",
		},
		[]string{"status"},
	)

	BookingConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chargerbnb_booking_conflicts_total",
			Help: "Total number of booking attempts rejected due to time-range conflicts",
		},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chargerbnb_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	ChargerModerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chargerbnb_charger_moderations_total",
			Help: "Total number of admin moderation actions on chargers",
		},
		[]string{"action"},
	)

	StatusReconciliationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chargerbnb_status_reconciliations_total",
			Help: "Total number of charger writes corrected by the status reconciler",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chargerbnb_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chargerbnb_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chargerbnb_reports_total",
			Help: "Total number of charger reports",
		},
		[]string{"status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(status string) {
	BookingsTotal.WithLabelValues(status).Inc()
}

func RecordBookingConflict() {
	BookingConflictsTotal.Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordChargerModeration(action string) {
	ChargerModerationsTotal.WithLabelValues(action).Inc()
}

func RecordStatusReconciliation() {
	StatusReconciliationsTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordReport(status string) {
	ReportsTotal.WithLabelValues(status).Inc()
}
