package qc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buoyqc_qc_runs_total",
		Help: "Completed long-term QC pipeline runs.",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "buoyqc_qc_run_duration_seconds",
		Help:    "Wall-clock duration of long-term QC pipeline runs.",
		Buckets: prometheus.DefBuckets,
	})

	flaggedObservations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buoyqc_qc_observations_total",
		Help: "Observations processed, by parameter and coalesced flag.",
	}, []string{"parameter", "flag"})
)

// observeParameter records the coalesced flag distribution for one
// parameter.
func observeParameter(param string, qc []Flag) {
	counts := make(map[Flag]int, 4)
	for _, f := range qc {
		counts[f]++
	}
	for f, n := range counts {
		flaggedObservations.WithLabelValues(param, f.String()).Add(float64(n))
	}
}

// observeRun records one completed pipeline run.
func observeRun(d time.Duration) {
	runsTotal.Inc()
	runDuration.Observe(d.Seconds())
}
