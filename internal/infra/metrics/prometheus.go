package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus implements the business metrics port and HTTP instrumentation
// on a private registry.
type Prometheus struct {
	registry *prometheus.Registry

	admissions  *prometheus.CounterVec
	transitions *prometheus.CounterVec
	webhooks    *prometheus.CounterVec
	outbox      prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func New() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_admissions_total",
			Help: "Admission decisions by outcome and capacity level.",
		}, []string{"outcome", "level"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_transitions_total",
			Help: "Booking state changes by target status and cause.",
		}, []string{"to", "reason"}),
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_webhooks_total",
			Help: "Processed payment webhooks by result.",
		}, []string{"result"}),
		outbox: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "outbox_events_published_total",
			Help: "Outbox events delivered to the broker.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.admissions, p.transitions, p.webhooks, p.outbox,
		p.httpRequests, p.httpDuration,
	)
	return p
}

func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) AdmissionDecided(outcome, level string) {
	p.admissions.WithLabelValues(outcome, level).Inc()
}

func (p *Prometheus) BookingTransitioned(to, reason string) {
	p.transitions.WithLabelValues(to, reason).Inc()
}

func (p *Prometheus) WebhookProcessed(result string) {
	p.webhooks.WithLabelValues(result).Inc()
}

func (p *Prometheus) OutboxPublished(n int) {
	p.outbox.Add(float64(n))
}

func (p *Prometheus) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Discard drops every observation. Used when metrics are disabled.
type Discard struct{}

func (Discard) AdmissionDecided(string, string)    {}
func (Discard) BookingTransitioned(string, string) {}
func (Discard) WebhookProcessed(string)            {}
func (Discard) OutboxPublished(int)                {}
