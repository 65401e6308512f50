package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP layer
// and the scheduling engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	slotsGenerated  prometheus.Counter
	generatorShort  prometheus.Counter
	attendanceTotal *prometheus.CounterVec
	recoveryTotal   *prometheus.CounterVec
	recoveryMissed  prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	slotsGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_slots_generated_total",
		Help: "Total lesson slots produced by the weekly generator",
	})

	generatorShort := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_generator_exhausted_total",
		Help: "Generator runs that hit the iteration cap before the requested count",
	})

	attendanceTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_operations_total",
		Help: "Attendance ledger operations by action",
	}, []string{"action"})

	recoveryTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "absence_recoveries_total",
		Help: "Absence recoveries by strategy",
	}, []string{"strategy"})

	recoveryMissed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "absence_recovery_exhausted_total",
		Help: "Auto recoveries that found no valid slot within the scan window",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, slotsGenerated, generatorShort, attendanceTotal, recoveryTotal, recoveryMissed, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		slotsGenerated:  slotsGenerated,
		generatorShort:  generatorShort,
		attendanceTotal: attendanceTotal,
		recoveryTotal:   recoveryTotal,
		recoveryMissed:  recoveryMissed,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveGeneration records a generator run.
func (s *MetricsService) ObserveGeneration(requested, produced int) {
	s.slotsGenerated.Add(float64(produced))
	if produced < requested {
		s.generatorShort.Inc()
	}
}

// ObserveAttendance records one ledger operation.
func (s *MetricsService) ObserveAttendance(action string) {
	s.attendanceTotal.WithLabelValues(action).Inc()
}

// ObserveRecovery records one recovery decision.
func (s *MetricsService) ObserveRecovery(strategy string, exhausted bool) {
	s.recoveryTotal.WithLabelValues(strategy).Inc()
	if exhausted {
		s.recoveryMissed.Inc()
	}
}
