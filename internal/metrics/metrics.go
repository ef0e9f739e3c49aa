// Package metrics exposes prometheus collectors for the schedule engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors
var (
	ScheduleGenerates = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "airtime_schedule_generate_total", Help: "Schedule grids generated or copied into sessions"},
	)
	ScheduleApplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "airtime_schedule_apply_total", Help: "Schedule batch applications"},
		[]string{"status"},
	)
	SpotsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "airtime_spots_deleted_total", Help: "Spots removed through batch edits"},
	)
	ScheduleApplyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "airtime_schedule_apply_duration_seconds",
			Help:    "Batch apply time",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2},
		},
	)
)

// Register registers all collectors with the default registry
func Register() {
	prometheus.MustRegister(ScheduleGenerates, ScheduleApplies, SpotsDeleted, ScheduleApplyDuration)
}

// Handler returns the HTTP handler serving the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
