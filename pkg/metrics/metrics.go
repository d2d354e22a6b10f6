package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the questionnaire subsystem.
type Metrics struct {
	QuestionnairesCreated prometheus.Counter
	ShortIDCollisions     prometheus.Counter
	ResponsesSubmitted    *prometheus.CounterVec
	SubmissionsRejected   *prometheus.CounterVec
	StatsAccessDenied     prometheus.Counter
	StatsQueryDuration    prometheus.Histogram
}

// New registers the collectors on reg. Each registry may only be passed once.
//
// Metrics:
//   - questionnaire_created_total
//   - questionnaire_short_id_collisions_total
//   - questionnaire_responses_submitted_total{support_level}
//   - questionnaire_submissions_rejected_total{reason}
//   - questionnaire_stats_access_denied_total
//   - questionnaire_stats_query_duration_seconds
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		QuestionnairesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "questionnaire_created_total",
			Help: "Total number of questionnaires created",
		}),
		ShortIDCollisions: f.NewCounter(prometheus.CounterOpts{
			Name: "questionnaire_short_id_collisions_total",
			Help: "Total number of short ID unique-index collisions on create",
		}),
		ResponsesSubmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "questionnaire_responses_submitted_total",
			Help: "Total number of accepted questionnaire responses",
		}, []string{"support_level"}),
		SubmissionsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "questionnaire_submissions_rejected_total",
			Help: "Total number of rejected questionnaire responses",
		}, []string{"reason"}), // "not_found", "closed", "validation"
		StatsAccessDenied: f.NewCounter(prometheus.CounterOpts{
			Name: "questionnaire_stats_access_denied_total",
			Help: "Total number of stats requests with a wrong access code",
		}),
		StatsQueryDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "questionnaire_stats_query_duration_seconds",
			Help:    "Duration of the stats aggregation queries in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
