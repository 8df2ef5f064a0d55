package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "csvclean",
		Subsystem: "pipeline",
		Name:      "files_total",
		Help:      "Files handled by the pipeline broken down by stage and result.",
	}, []string{"stage", "result"})

	rowErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "csvclean",
		Subsystem: "pipeline",
		Name:      "row_errors_total",
		Help:      "Data lines rejected for a column count mismatch.",
	})

	cellsChangedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "csvclean",
		Subsystem: "pipeline",
		Name:      "cells_changed_total",
		Help:      "Cell values changed by accent normalization.",
	})

	stageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "csvclean",
		Subsystem: "pipeline",
		Name:      "stage_seconds",
		Help:      "Latency distribution for pipeline stages.",
		Buckets: []float64{
			0.0005, 0.001, 0.005,
			0.01, 0.05,
			0.1, 0.5,
			1, 5,
		},
	}, []string{"stage"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "csvclean",
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Sessions currently held in memory.",
	})
)

const (
	stageLoad    = "load"
	stageProcess = "process"
	stageExport  = "export"
)

func observeResult(stage string, err error) {
	result := "ok"
	if err != nil {
		result = MapError(err).Code
	}
	filesTotal.WithLabelValues(stage, result).Inc()
}
