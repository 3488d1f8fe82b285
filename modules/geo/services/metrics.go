package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gramseva/portal/modules/geo/domain/bulkimport"
)

var (
	geoCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geo",
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Total number of district snapshot lookups broken down by hit/miss.",
	}, []string{"result"})

	geoImportRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geo",
		Subsystem: "import",
		Name:      "runs_total",
		Help:      "Total number of bulk import runs broken down by outcome.",
	}, []string{"outcome"})

	geoImportRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geo",
		Subsystem: "import",
		Name:      "records_total",
		Help:      "Districts and villages written or matched by bulk imports.",
	}, []string{"kind"})

	geoImportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geo",
		Subsystem: "import",
		Name:      "duration_seconds",
		Help:      "Wall time of bulk import runs.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)

func recordCacheRequest(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	geoCacheRequests.WithLabelValues(result).Inc()
}

func recordImport(result bulkimport.Result, seconds float64) {
	outcome := "success"
	switch {
	case result.RowCount == 0:
		outcome = "empty"
	case !result.Success:
		outcome = "partial"
	}
	geoImportRuns.WithLabelValues(outcome).Inc()
	geoImportRecords.WithLabelValues("district_created").Add(float64(result.DistrictCount))
	geoImportRecords.WithLabelValues("district_matched").Add(float64(result.MatchedDistricts))
	geoImportRecords.WithLabelValues("village_created").Add(float64(result.VillageCount))
	geoImportRecords.WithLabelValues("village_skipped").Add(float64(result.SkippedVillages))
	geoImportDuration.Observe(seconds)
}
