package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for monitoring
var (
	QuotesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paylink_quotes_fetched_total",
		Help: "The total number of quotes fetched by strategy and outcome",
	}, []string{"strategy", "outcome"})

	QuoteFetchTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "paylink_quote_fetch_seconds",
		Help:    "Time taken to fetch a quote from a provider",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	}, []string{"strategy"})

	PaymentsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paylink_payments_executed_total",
		Help: "The total number of payment attempts by chain and outcome",
	}, []string{"chain_id", "outcome"})

	PaymentExecutionTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "paylink_payment_execution_seconds",
		Help:    "Time from pay action to terminal state",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"chain_id"})

	ConfirmationFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paylink_confirmation_fallbacks_total",
		Help: "Receipt waits that timed out and fell back to a transaction lookup",
	}, []string{"chain_id", "result"})

	SignatureRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paylink_signature_rejections_total",
		Help: "Payment attempts declined by the user at the wallet",
	})

	ReconciliationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paylink_reconciliation_failures_total",
		Help: "Successful payments that could not be written back to the ledger",
	}, []string{"kind"})

	ProviderBreakerOpen = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "paylink_provider_breaker_open",
		Help: "Whether the circuit breaker for a quote provider is open (1) or closed (0)",
	}, []string{"provider"})

	// Ledger API metrics
	LedgerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paylink_ledger_requests_total",
		Help: "Ledger API requests by route and status code",
	}, []string{"route", "code"})

	IntentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paylink_intents_created_total",
		Help: "Intents created in the ledger by type",
	}, []string{"type"})

	IntentsPaid = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paylink_intents_paid_total",
		Help: "Intents whose status reached paid, by type",
	}, []string{"type"})
)
