// Package metrics owns the Prometheus collectors exported on /metrics.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"callguard/internal/app/api"
)

const namespace = "callguard"

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	Predictions        *prometheus.CounterVec
	PredictionScore    prometheus.Histogram
	Transcriptions     *prometheus.CounterVec
	TranscribeDuration prometheus.Histogram
	ModelReloads       *prometheus.CounterVec
	RateLimited        prometheus.Counter
}

// New registers all collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Classifier predictions by label.",
		}, []string{"label"}),
		PredictionScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_confidence",
			Help:      "Fraud probability of each prediction.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 9),
		}),
		Transcriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_total",
			Help:      "Speech-to-text calls by outcome.",
		}, []string{"outcome"}),
		TranscribeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_duration_seconds",
			Help:      "Speech-to-text latency.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		ModelReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_reloads_total",
			Help:      "Model artifact loads by outcome.",
		}, []string{"outcome"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests, m.HTTPDuration,
		m.Predictions, m.PredictionScore,
		m.Transcriptions, m.TranscribeDuration,
		m.ModelReloads, m.RateLimited,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObservePrediction records one classifier outcome.
func (m *Metrics) ObservePrediction(fraudulent bool, confidence float64) {
	label := "legitimate"
	if fraudulent {
		label = "fraudulent"
	}
	m.Predictions.WithLabelValues(label).Inc()
	m.PredictionScore.Observe(confidence)
}

// ObserveReload records a model load attempt.
func (m *Metrics) ObserveReload(err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.ModelReloads.WithLabelValues(outcome).Inc()
}

// InstrumentTranscriber counts and times every call of next.
func (m *Metrics) InstrumentTranscriber(next api.Transcriber) api.Transcriber {
	return api.TranscriberFunc(func(ctx context.Context, audio []byte) (string, error) {
		start := time.Now()
		text, err := next.Transcribe(ctx, audio)
		m.TranscribeDuration.Observe(time.Since(start).Seconds())
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		m.Transcriptions.WithLabelValues(outcome).Inc()
		return text, err
	})
}
