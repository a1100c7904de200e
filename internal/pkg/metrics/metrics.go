// Package metrics exposes ingestion counters on a dedicated Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	LabelGame    = "game"
	LabelOutcome = "outcome"
	LabelStatus  = "status"
)

// Recorder is safe to use as a nil pointer; every method becomes a no-op.
type Recorder struct {
	registry  *prometheus.Registry
	outcomes  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	fetches   *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lotto_ingestion_outcomes_total",
			Help: "Ingestion runs by game and terminal outcome.",
		}, []string{LabelGame, LabelOutcome}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lotto_ingestion_duration_seconds",
			Help:    "Wall time of one ingestion run.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{LabelGame}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lotto_backfill_years_total",
			Help: "Backfilled years by game and status.",
		}, []string{LabelGame, LabelStatus}),
	}

	reg.MustRegister(r.outcomes, r.durations, r.fetches)
	return r
}

func (r *Recorder) RecordIngestion(game, outcome string, took time.Duration) {
	if r == nil {
		return
	}
	r.outcomes.WithLabelValues(game, outcome).Inc()
	r.durations.WithLabelValues(game).Observe(took.Seconds())
}

func (r *Recorder) RecordBackfillYear(game string, err error) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.fetches.WithLabelValues(game, status).Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
