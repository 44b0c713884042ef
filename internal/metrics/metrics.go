package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/menta2k/skin-analyzer/pkg/client"
	"github.com/menta2k/skin-analyzer/pkg/types"
)

var (
	predictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skin_analyzer_predictions_total",
		Help: "Total number of prediction requests by outcome",
	}, []string{"backend", "outcome"})

	latency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skin_analyzer_prediction_duration_seconds",
		Help:    "Time spent waiting for the prediction backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend"})

	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skin_analyzer_submissions_total",
		Help: "Total number of form submissions by outcome",
	}, []string{"outcome"})
)

// instrumented records outcome and latency for every prediction
type instrumented struct {
	next    client.Predictor
	backend string
}

// Instrument wraps a Predictor with Prometheus metrics
func Instrument(next client.Predictor, backend string) client.Predictor {
	return &instrumented{next: next, backend: backend}
}

func (i *instrumented) Predict(ctx context.Context, file *types.ImageFile) (*types.PredictionResult, error) {
	start := time.Now()
	result, err := i.next.Predict(ctx, file)
	latency.WithLabelValues(i.backend).Observe(time.Since(start).Seconds())
	predictions.WithLabelValues(i.backend, client.Kind(err)).Inc()
	return result, err
}

// RecordSubmission counts a form submission by the kind of its outcome
func RecordSubmission(err error) {
	submissions.WithLabelValues(client.Kind(err)).Inc()
}
