// Package metrics registra los colectores Prometheus del servicio.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	VouchersClaimed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vouchers",
		Subsystem: "assignment",
		Name:      "claimed_total",
		Help:      "Vouchers reclamados por tipo.",
	}, []string{"type"})

	ClaimsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vouchers",
		Subsystem: "assignment",
		Name:      "rejected_total",
		Help:      "Compras de vouchers rechazadas por motivo.",
	}, []string{"reason"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vouchers",
		Subsystem: "notification",
		Name:      "total",
		Help:      "Notificaciones de vouchers por resultado (sent, queued, failed).",
	}, []string{"result"})

	IngestRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vouchers",
		Subsystem: "ingest",
		Name:      "rows_total",
		Help:      "Filas procesadas en cargas masivas por origen y resultado.",
	}, []string{"source", "result"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vouchers",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Peticiones HTTP por ruta, método y clase de estado.",
	}, []string{"route", "method", "result"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vouchers",
		Subsystem: "http",
		Name:      "latency_seconds",
		Help:      "Latencia de peticiones HTTP.",
		Buckets: []float64{
			0.001, 0.005, 0.01, 0.05,
			0.1, 0.5, 1, 2, 5,
		},
	}, []string{"route", "method", "result"})
)

// ObserveHTTP registra una petición terminada.
func ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	result := "2xx"
	switch {
	case status >= 500:
		result = "5xx"
	case status >= 400:
		result = "4xx"
	case status >= 300:
		result = "3xx"
	}
	HTTPRequests.WithLabelValues(route, method, result).Inc()
	HTTPLatency.WithLabelValues(route, method, result).Observe(elapsed.Seconds())
}

// Handler expone el registro por defecto en formato Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
