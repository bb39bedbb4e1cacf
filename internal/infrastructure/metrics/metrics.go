package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Settlement metrics
	FundsAdded         prometheus.Counter
	FundsAddedAmount   prometheus.Histogram
	PaymentsProcessed  prometheus.Counter
	PaymentAmount      prometheus.Histogram
	SettlementDuration *prometheus.HistogramVec
	SettlementErrors   *prometheus.CounterVec

	// Account metrics
	AccountsCreated     prometheus.Counter
	AccountsDeactivated prometheus.Counter
	PaymentsCreated     prometheus.Counter

	// Audit metrics
	AuditLogsRecorded *prometheus.CounterVec
	AuditLogsDropped  prometheus.Counter

	// Outbox metrics
	OutboxEventsPublished prometheus.Counter
	OutboxPublishFailures prometheus.Counter

	// Database metrics
	DBRetries prometheus.Counter
}

var amountBuckets = []float64{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000}

// New creates and registers all settlement metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FundsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_funds_added_total",
			Help: "Total number of deposits applied to accounts",
		}),
		FundsAddedAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gosettle_funds_added_amount",
			Help:    "Deposit amounts",
			Buckets: amountBuckets,
		}),
		PaymentsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_payments_processed_total",
			Help: "Total number of payments settled",
		}),
		PaymentAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gosettle_payment_amount",
			Help:    "Settled payment amounts",
			Buckets: amountBuckets,
		}),
		SettlementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gosettle_settlement_duration_seconds",
				Help:    "Duration of settlement operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		SettlementErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_settlement_errors_total",
				Help: "Total settlement failures by operation and error kind",
			},
			[]string{"operation", "kind"},
		),

		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountsDeactivated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_accounts_deactivated_total",
			Help: "Total number of accounts deactivated",
		}),
		PaymentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_payments_created_total",
			Help: "Total number of payments created",
		}),

		AuditLogsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosettle_audit_logs_total",
				Help: "Total audit log writes by action and outcome",
			},
			[]string{"action", "status"},
		),
		AuditLogsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_audit_logs_dropped_total",
			Help: "Audit entries dropped because the dispatch buffer was full",
		}),

		OutboxEventsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_outbox_events_published_total",
			Help: "Total outbox events published",
		}),
		OutboxPublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_outbox_publish_failures_total",
			Help: "Total outbox publish failures",
		}),

		DBRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "gosettle_db_retries_total",
			Help: "Total retried database transactions after deadlock or serialization failure",
		}),
	}
}
