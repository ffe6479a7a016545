package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeServed   = "served"
	OutcomeNoMatch  = "no_match"
	OutcomeFound    = "identified"
	OutcomeNotFound = "not_identified"
)

// Prometheus metrics for the ingest, classification, lead and ad paths
var (
	IngestEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adscouter_ingest_events_total",
			Help: "Total number of ingest requests by outcome",
		},
		[]string{"outcome"},
	)

	ClassifiedIntentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adscouter_classified_intents_total",
			Help: "Total number of stored intent records by intent",
		},
		[]string{"intent"},
	)

	ClassifierRecordsSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "adscouter_classifier_records_skipped_total",
			Help: "Total number of stream records skipped by the classifier",
		},
	)

	StoreFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "adscouter_store_failures_total",
			Help: "Total number of intent records that could not be stored",
		},
	)

	LeadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adscouter_leads_total",
			Help: "Total number of trigger intents inspected by the lead watcher by outcome",
		},
		[]string{"outcome"},
	)

	AdsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adscouter_ads_total",
			Help: "Total number of ad requests by outcome",
		},
		[]string{"outcome"},
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adscouter_provider_request_duration_seconds",
			Help:    "Duration of classification, extraction and embedding provider calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Register registers all Prometheus metrics with the default registry
func Register() {
	prometheus.MustRegister(IngestEventsTotal)
	prometheus.MustRegister(ClassifiedIntentsTotal)
	prometheus.MustRegister(ClassifierRecordsSkippedTotal)
	prometheus.MustRegister(StoreFailuresTotal)
	prometheus.MustRegister(LeadsTotal)
	prometheus.MustRegister(AdsTotal)
	prometheus.MustRegister(ProviderRequestDuration)
}
