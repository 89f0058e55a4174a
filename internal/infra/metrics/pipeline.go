package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		jobsProcessedTotal,
		inferenceAttemptsTotal,
		inferenceExhaustedTotal,
		inferenceLatencyMs,
		batchJobsFetched,
	)
}

var (
	jobsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "talkbill_jobs_processed_total",
			Help: "Pipeline runs by terminal job status.",
		},
		[]string{"status"}, // t2i_completed | invoice_ready | failed
	)

	inferenceAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "talkbill_inference_attempts_total",
			Help: "Inference attempts per prompt kind, including retries.",
		},
		[]string{"kind"},
	)

	inferenceExhaustedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "talkbill_inference_exhausted_total",
			Help: "Inference invocations that failed every attempt.",
		},
		[]string{"kind"},
	)

	inferenceLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "talkbill_inference_latency_ms",
			Help:    "Per-attempt inference latency in milliseconds.",
			Buckets: []float64{25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"kind", "success"},
	)

	batchJobsFetched = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "talkbill_batch_jobs_fetched",
			Help: "Jobs fetched by the most recent batch run.",
		},
	)
)

func IncJobProcessed(status string) {
	jobsProcessedTotal.WithLabelValues(norm(status)).Inc()
}

func IncInferenceAttempt(kind string) {
	inferenceAttemptsTotal.WithLabelValues(norm(kind)).Inc()
}

func IncInferenceExhausted(kind string) {
	inferenceExhaustedTotal.WithLabelValues(norm(kind)).Inc()
}

func ObserveInferenceLatency(kind string, latencyMs int, success bool) {
	inferenceLatencyMs.WithLabelValues(norm(kind), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func SetBatchJobsFetched(n int) {
	batchJobsFetched.Set(float64(n))
}
