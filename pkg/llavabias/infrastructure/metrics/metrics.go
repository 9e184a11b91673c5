package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	TestCasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bias_test_cases_total",
		Help: "Bias test cases run, by bias type and outcome",
	}, []string{"type", "outcome"})

	TestCaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bias_test_case_duration_seconds",
		Help:    "End-to-end duration of a bias test case (image loading included)",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"type"})

	InferenceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vision_inference_duration_seconds",
		Help:    "Duration of a single vision model call",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"model"})

	InferenceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vision_inference_errors_total",
		Help: "Failed vision model calls",
	}, []string{"model"})

	ResponseLength = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vision_response_length_chars",
		Help:    "Length of raw model responses",
		Buckets: []float64{16, 64, 256, 1024, 4096},
	}, []string{"model"})
)
