package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors
type Metrics struct {
	AnalysesTotal        prometheus.Counter
	AnalysisDuration     prometheus.Histogram
	OverallScore         prometheus.Gauge
	DepartmentScore      *prometheus.GaugeVec
	CriticalIssues       prometheus.Gauge
	WebhookDeliveries    *prometheus.CounterVec
	WebhookDuration      prometheus.Histogram
	InsightRequests      *prometheus.CounterVec
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
}

// New registers and returns the service collectors
func New() *Metrics {
	return &Metrics{
		AnalysesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atomic_analyzer_analyses_total",
			Help: "Total number of completed analysis runs",
		}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "atomic_analyzer_analysis_duration_seconds",
			Help:    "Duration of full analysis runs",
			Buckets: prometheus.DefBuckets,
		}),
		OverallScore: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "atomic_analyzer_overall_score",
			Help: "Overall score of the most recent analysis",
		}),
		DepartmentScore: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "atomic_analyzer_department_score",
			Help: "Department score of the most recent analysis",
		}, []string{"department"}),
		CriticalIssues: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "atomic_analyzer_critical_issues",
			Help: "Critical issues found in the most recent analysis",
		}),
		WebhookDeliveries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "atomic_analyzer_webhook_deliveries_total",
			Help: "Webhook delivery attempts by event and outcome",
		}, []string{"event", "outcome"}),
		WebhookDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "atomic_analyzer_webhook_duration_seconds",
			Help:    "Duration of webhook delivery attempts",
			Buckets: prometheus.DefBuckets,
		}),
		InsightRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "atomic_analyzer_insight_requests_total",
			Help: "Insight generation requests by outcome",
		}, []string{"outcome"}),
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "atomic_analyzer_http_requests_total",
			Help: "HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "atomic_analyzer_http_request_duration_seconds",
			Help:    "HTTP request duration by method and path",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}
