package inference

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "irisd",
			Subsystem: "inference",
			Name:      "predictions_total",
			Help:      "Successful predictions by predicted label",
		},
		[]string{"label"},
	)

	predictionErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "irisd",
			Subsystem: "inference",
			Name:      "errors_total",
			Help:      "Failed predictions by error kind",
		},
		[]string{"kind"},
	)

	inferenceDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "irisd",
			Subsystem: "inference",
			Name:      "duration_seconds",
			Help:      "Time spent inside the classifier",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025},
		},
	)

	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "irisd",
			Subsystem: "inference",
			Name:      "cache_hits_total",
			Help:      "Predictions answered from the result cache",
		},
	)

	modelLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "irisd",
			Subsystem: "inference",
			Name:      "model_loaded",
			Help:      "1 when the model artifact loaded at startup, else 0",
		},
	)
)

func init() {
	prometheus.MustRegister(predictionsTotal, predictionErrorsTotal, inferenceDuration, cacheHitsTotal, modelLoaded)
}

// Error kinds used as the errors_total label.
const (
	kindUnavailable = "unavailable"
	kindValidation  = "validation"
	kindInference   = "inference"
)
