package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK           = "ok"
	OutcomeInvalidURL   = "invalid_url"
	OutcomeUnavailable  = "unavailable"
	OutcomeAnalysisFail = "analysis_failed"
)

var (
	AuditsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagepulse_audits_total",
			Help: "Total number of page audits by outcome and mode",
		},
		[]string{"outcome", "mode"},
	)

	AuditScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pagepulse_audit_score",
			Help:    "Distribution of audit scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	FetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pagepulse_fetch_duration_seconds",
			Help:    "Duration of outbound page fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagepulse_webhook_events_total",
			Help: "Stripe webhook events received by type",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(AuditsTotal, AuditScore, FetchDuration, WebhookEventsTotal)
}

// Mode labels an audit as free or pro.
func Mode(enhanced bool) string {
	if enhanced {
		return "pro"
	}
	return "free"
}
