package resume

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	extractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recruitdesk",
		Subsystem: "resume",
		Name:      "extractions_total",
		Help:      "Resume field extractions by source and cache outcome.",
	}, []string{"source", "cache"})

	fieldsFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recruitdesk",
		Subsystem: "resume",
		Name:      "fields_found_total",
		Help:      "Extracted fields that were found, per field.",
	}, []string{"field"})

	extractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "recruitdesk",
		Subsystem: "resume",
		Name:      "extraction_duration_seconds",
		Help:      "Time spent extracting fields from resume text.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
)

// ObserveExtraction registra una extracción terminada
func ObserveExtraction(fields ExtractedResumeFields, source Source, cacheHit bool, took time.Duration) {
	cache := "miss"
	if cacheHit {
		cache = "hit"
	}
	extractions.With(prometheus.Labels{"source": string(source), "cache": cache}).Inc()
	for _, f := range fields.Found() {
		fieldsFound.WithLabelValues(f).Inc()
	}
	extractionDuration.Observe(took.Seconds())
}
