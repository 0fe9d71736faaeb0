package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Validation outcomes recorded in the result label.
const (
	resultValid     = "valid"
	resultInvalid   = "invalid"
	resultMalformed = "malformed"
)

type metrics struct {
	validations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shapeval_validations_total",
				Help: "Validation requests by schema and result.",
			},
			[]string{"schema", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shapeval_validation_duration_seconds",
				Help:    "Time spent decoding and validating request bodies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"schema"},
		),
	}
	reg.MustRegister(m.validations, m.duration)
	return m
}
