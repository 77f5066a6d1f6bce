package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// AnalysesTotal counts image analyses by outcome
	// (ok, degraded, parse_failure, upstream_error).
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quakesafe",
		Subsystem: "assessment",
		Name:      "analyses_total",
		Help:      "Total number of image analyses processed, labeled by result.",
	}, []string{"result"})

	// AnalysisDurationSeconds is end-to-end time per analysis request,
	// upload through persistence.
	AnalysisDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "quakesafe",
		Subsystem: "assessment",
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end time to process an image analysis request.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 60, 120},
	}, []string{"result"})

	// ChatsTotal counts chat completions by outcome (ok, parse_failure, upstream_error).
	ChatsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quakesafe",
		Subsystem: "assessment",
		Name:      "chats_total",
		Help:      "Total number of chat requests processed, labeled by result.",
	}, []string{"result"})

	// PublishErrorTotal counts failed broker publishes.
	PublishErrorTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "quakesafe",
		Subsystem: "assessment",
		Name:      "publish_error_total",
		Help:      "Total number of assessment event publish errors.",
	})
)

// Register registers service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			AnalysesTotal,
			AnalysisDurationSeconds,
			ChatsTotal,
			PublishErrorTotal,
		)
	})
}
