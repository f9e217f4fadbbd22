package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallet_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ChargesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_charges_total",
			Help: "Total number of charge attempts",
		},
		[]string{"type", "result"},
	)

	CreditsChargedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_credits_charged_total",
			Help: "Credits removed from wallets by charges",
		},
		[]string{"type"},
	)

	RechargesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_recharges_total",
			Help: "Total number of credited recharges",
		},
		[]string{"payment_method"},
	)

	CreditsIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_credits_issued_total",
			Help: "Credits added to wallets",
		},
		[]string{"reason"},
	)

	ReconciliationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_reconciliations_total",
			Help: "Reconciliation attempts by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	WebhookSignatureFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_webhook_signature_failures_total",
			Help: "Webhooks rejected because the signature did not verify",
		},
	)

	TopUpsStartedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_topups_started_total",
			Help: "Total number of payment sessions created",
		},
	)

	ActivePolls = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wallet_active_polls",
			Help: "Number of in-process payment status polls",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCharge(chargeType, result string, amount int64) {
	ChargesTotal.WithLabelValues(chargeType, result).Inc()
	if result == "success" {
		CreditsChargedTotal.WithLabelValues(chargeType).Add(float64(amount))
	}
}

func RecordCredit(reason, paymentMethod string, amount int64) {
	if paymentMethod != "" {
		RechargesTotal.WithLabelValues(paymentMethod).Inc()
	}
	CreditsIssuedTotal.WithLabelValues(reason).Add(float64(amount))
}

func RecordReconciliation(source, outcome string) {
	ReconciliationsTotal.WithLabelValues(source, outcome).Inc()
}

func RecordSignatureFailure() {
	WebhookSignatureFailuresTotal.Inc()
}

func RecordTopUpStarted() {
	TopUpsStartedTotal.Inc()
}
