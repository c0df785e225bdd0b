package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ContentUpserts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "academy_content_upserts_total", Help: "Page content writes by content type"},
		[]string{"content_type"},
	)
	DecodeDegraded = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "academy_content_decode_degraded_total", Help: "Placement values decoded as legacy bare URLs"},
	)
	BlobOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "academy_blob_operations_total", Help: "Blob storage calls"},
		[]string{"op", "result"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "academy_http_requests_total", Help: "HTTP requests served"},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "academy_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call twice.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ContentUpserts, DecodeDegraded, BlobOperations, HTTPRequests, HTTPDuration)
	})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveBlob counts one blob storage call.
func ObserveBlob(op string, err error) {
	BlobOperations.WithLabelValues(op, result(err)).Inc()
}
