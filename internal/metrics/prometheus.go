package metrics

import (
	"strconv"
	"time"

	"review-dashboard/internal/usecase"

	"github.com/prometheus/client_golang/prometheus"
)

// Refresh собирает метрики обновлений дашборда и реализует usecase.RefreshObserver.
type Refresh struct {
	total       *prometheus.CounterVec
	lastSuccess prometheus.Gauge
	duration    prometheus.Histogram
}

// NewRefresh создает коллекторы и регистрирует их в reg.
func NewRefresh(reg prometheus.Registerer) *Refresh {
	r := &Refresh{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_refresh_total",
				Help: "Number of dashboard refreshes by result",
			},
			[]string{"result"},
		),
		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dashboard_last_success_timestamp_seconds",
				Help: "Unix time of the last successful dashboard refresh",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dashboard_refresh_duration_seconds",
				Help:    "Duration of dashboard refreshes in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
		),
	}
	reg.MustRegister(r.total, r.lastSuccess, r.duration)
	return r
}

// ObserveRefresh учитывает один результат обновления.
func (r *Refresh) ObserveRefresh(result string, duration time.Duration, at time.Time) {
	r.total.WithLabelValues(result).Inc()
	if result == usecase.ResultSkipped {
		return
	}
	r.duration.Observe(duration.Seconds())
	if result == usecase.ResultSuccess {
		r.lastSuccess.Set(float64(at.Unix()))
	}
}

// HTTP собирает метрики входящих запросов.
type HTTP struct {
	requests *prometheus.CounterVec
}

// NewHTTP создает счетчик запросов и регистрирует его в reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	h := &HTTP{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_http_requests_total",
				Help: "Number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
	}
	reg.MustRegister(h.requests)
	return h
}

// ObserveRequest учитывает один обработанный запрос.
func (h *HTTP) ObserveRequest(route, method string, status int) {
	h.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}
