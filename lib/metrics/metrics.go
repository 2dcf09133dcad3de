package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lariogistic_http_in_flight_requests",
		Help: "Peticiones HTTP en curso.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lariogistic_http_requests_total",
			Help: "Total de peticiones HTTP.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lariogistic_http_request_duration_seconds",
			Help:    "Latencia de las peticiones HTTP en segundos.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	tramiteTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lariogistic_tramite_transitions_total",
			Help: "Cambios de estado de trámites.",
		},
		[]string{"from", "to"},
	)

	authAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lariogistic_auth_attempts_total",
			Help: "Intentos de autenticación por método y resultado.",
		},
		[]string{"method", "result"},
	)

	documentUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lariogistic_document_uploads_total",
			Help: "Documentos subidos por tipo.",
		},
		[]string{"type"},
	)

	refreshTokensPurged = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lariogistic_refresh_tokens_purged_total",
		Help: "Refresh tokens eliminados por la limpieza periódica.",
	})
)

// Registry propio del servicio
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequestsTotal,
		httpRequestDuration,
		tramiteTransitions,
		authAttempts,
		documentUploads,
		refreshTokensPurged,
	)
}

// Middleware la ruta se toma del router para no explotar la cardinalidad
func Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		httpInFlight.Inc()
		defer httpInFlight.Dec()
		start := time.Now()

		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			}
		}
		route := ctx.Route().Path
		if route == "" {
			route = "desconocida"
		}
		labels := []string{ctx.Method(), route, strconv.Itoa(status)}
		httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(labels...).Inc()
		return err
	}
}

func TramiteTransition(from, to string) {
	tramiteTransitions.WithLabelValues(from, to).Inc()
}

func AuthAttempt(method string, success bool) {
	result := "error"
	if success {
		result = "ok"
	}
	authAttempts.WithLabelValues(method, result).Inc()
}

func DocumentUploaded(docType string) {
	documentUploads.WithLabelValues(docType).Inc()
}

func RefreshTokensPurged(count int64) {
	if count > 0 {
		refreshTokensPurged.Add(float64(count))
	}
}
