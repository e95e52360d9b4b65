package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names accepted by PrometheusMetrics
const (
	MetricLedgerSuccess        = "ledger.success"
	MetricLedgerFailed         = "ledger.failed"
	MetricLedgerDuration       = "ledger.duration"
	MetricTransferAmount       = "transfer.amount"
	MetricAccountCreated       = "account.created"
	MetricAccountStatusChanged = "account.status_changed"
	MetricNotification         = "notification"
	MetricNotificationQueue    = "notification.queue_depth"
	MetricCircuitBreakerState  = "circuit_breaker.state"
	MetricAuthenticationEvent  = "authentication_event"
)

type PrometheusMetrics struct {
	ledgerOperations          *prometheus.CounterVec
	ledgerDuration            *prometheus.HistogramVec
	transferAmount            prometheus.Histogram
	accountsCreated           *prometheus.CounterVec
	accountStatusChanges      *prometheus.CounterVec
	notificationsTotal        *prometheus.CounterVec
	notificationQueueDepth    prometheus.Gauge
	circuitBreakerState       *prometheus.GaugeVec
	authenticationEventsTotal *prometheus.CounterVec
}

// NewPrometheusMetrics registers the collectors with reg
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsRecorderInterface {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		ledgerOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Total number of ledger operations by outcome",
			},
			[]string{"operation", "status"},
		),
		ledgerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_milliseconds",
				Help:    "Ledger operation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"operation"},
		),
		transferAmount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "transfer_amount",
				Help:    "Transfer amount in rupees",
				Buckets: prometheus.ExponentialBuckets(1, 10, 8),
			},
		),
		accountsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accounts_created_total",
				Help: "Total number of accounts opened",
			},
			[]string{"account_type"},
		),
		accountStatusChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "account_status_changes_total",
				Help: "Total number of freeze and unfreeze operations",
			},
			[]string{"status"},
		),
		notificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Total number of notifications by outcome",
			},
			[]string{"status"},
		),
		notificationQueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "notification_queue_depth",
				Help: "Current number of notifications waiting for delivery",
			},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
		authenticationEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	operation := tags["operation"]
	status := tags["status"]

	switch name {
	case MetricLedgerSuccess:
		m.ledgerOperations.WithLabelValues(operation, "success").Inc()
	case MetricLedgerFailed:
		m.ledgerOperations.WithLabelValues(operation, "failed_"+tags["reason"]).Inc()
	case MetricAccountCreated:
		m.accountsCreated.WithLabelValues(tags["account_type"]).Inc()
	case MetricAccountStatusChanged:
		if status != "" {
			m.accountStatusChanges.WithLabelValues(status).Inc()
		}
	case MetricNotification:
		if status != "" {
			m.notificationsTotal.WithLabelValues(status).Inc()
		}
	case MetricAuthenticationEvent:
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEventsTotal.WithLabelValues(eventType).Inc()
		}
	}
}

// RecordProcessingTime observes a ledger duration. The operation is encoded
// in the name as "ledger.duration.<operation>".
func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	const prefix = MetricLedgerDuration + "."
	if len(name) > len(prefix) && name[:len(prefix)] == prefix {
		m.ledgerDuration.WithLabelValues(name[len(prefix):]).Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case MetricTransferAmount:
		m.transferAmount.Observe(value)
	case MetricNotificationQueue:
		m.notificationQueueDepth.Set(value)
	case MetricCircuitBreakerState:
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(value)
	}
}
