// Package metrics exposes Prometheus instrumentation for the query lane
// router pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	classificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pms",
		Subsystem: "lane_router",
		Name:      "classifications_total",
		Help:      "Total classified queries by assigned lane",
	}, []string{"lane"})

	guardHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pms",
		Subsystem: "lane_router",
		Name:      "guard_hits_total",
		Help:      "Total queries terminated by a guard, by guard name",
	}, []string{"guard"})

	cascadeMatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pms",
		Subsystem: "lane_router",
		Name:      "cascade_matches_total",
		Help:      "Total pattern cascade matches by pattern family",
	}, []string{"family"})

	entitiesExtractedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pms",
		Subsystem: "lane_router",
		Name:      "entities_extracted_total",
		Help:      "Total extracted entities by entity type",
	}, []string{"type"})

	classificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pms",
		Subsystem: "lane_router",
		Name:      "classification_duration_seconds",
		Help:      "End-to-end classification latency",
		Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025},
	})

	internalFaultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pms",
		Subsystem: "lane_router",
		Name:      "internal_faults_total",
		Help:      "Total classifications that failed closed due to an internal fault",
	})
)

// RecordClassification records one completed classification.
func RecordClassification(lane string, seconds float64) {
	classificationsTotal.WithLabelValues(lane).Inc()
	classificationDuration.Observe(seconds)
}

// RecordGuardHit records a query terminated by the named guard.
func RecordGuardHit(guard string) {
	guardHitsTotal.WithLabelValues(guard).Inc()
}

// RecordCascadeMatch records a pattern cascade match for the named family.
func RecordCascadeMatch(family string) {
	cascadeMatchesTotal.WithLabelValues(family).Inc()
}

// RecordEntityExtracted records one extracted entity of the given type.
func RecordEntityExtracted(entityType string) {
	entitiesExtractedTotal.WithLabelValues(entityType).Inc()
}

// RecordInternalFault records a classification that failed closed.
func RecordInternalFault() {
	internalFaultsTotal.Inc()
}
