package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const PrometheusNamespace = "cpakstore"

// Prometheus implements every hook interface on top of Prometheus collectors.
type Prometheus struct {
	packages   *prometheus.HistogramVec
	categories *prometheus.HistogramVec
	probes     *prometheus.CounterVec
	cache      *prometheus.CounterVec
	requests   *prometheus.HistogramVec
	httpErrors *prometheus.CounterVec
}

// NewPrometheus creates the collectors and registers them with reg.
// It panics if any collector is already registered, like prometheus.MustRegister.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		packages: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: PrometheusNamespace,
				Subsystem: "resolve",
				Name:      "package_seconds",
				Help:      "Histogram for single package resolutions.",
			},
			[]string{"result"},
		),
		categories: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: PrometheusNamespace,
				Subsystem: "resolve",
				Name:      "category_seconds",
				Help:      "Histogram for whole category listings.",
			},
			[]string{"result"},
		),
		probes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: PrometheusNamespace,
				Subsystem: "resolve",
				Name:      "probes_total",
				Help:      "Existence probes by asset kind and outcome.",
			},
			[]string{"asset", "found"},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: PrometheusNamespace,
				Subsystem: "cache",
				Name:      "events_total",
				Help:      "Document cache events.",
			},
			[]string{"key_type", "event"},
		),
		requests: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: PrometheusNamespace,
				Subsystem: "http",
				Name:      "request_seconds",
				Help:      "Histogram for outgoing HTTP requests.",
			},
			[]string{"method", "host", "code"},
		),
		httpErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: PrometheusNamespace,
				Subsystem: "http",
				Name:      "errors_total",
				Help:      "Outgoing HTTP requests that failed before a response.",
			},
			[]string{"method", "host"},
		),
	}
	reg.MustRegister(p.packages, p.categories, p.probes, p.cache, p.requests, p.httpErrors)
	return p
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *Prometheus) OnPackageResolved(_ context.Context, _ string, d time.Duration, err error) {
	p.packages.WithLabelValues(result(err)).Observe(d.Seconds())
}

func (p *Prometheus) OnCategoryListed(_ context.Context, _ string, _ int, d time.Duration, err error) {
	p.categories.WithLabelValues(result(err)).Observe(d.Seconds())
}

func (p *Prometheus) OnProbe(_ context.Context, asset string, found bool) {
	p.probes.WithLabelValues(asset, strconv.FormatBool(found)).Inc()
}

func (p *Prometheus) OnCacheHit(_ context.Context, kind string) {
	p.cache.WithLabelValues(kind, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, kind string) {
	p.cache.WithLabelValues(kind, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, kind string, _ int) {
	p.cache.WithLabelValues(kind, "set").Inc()
}

// OnRequest is a no-op; requests are observed once their response arrives.
func (p *Prometheus) OnRequest(context.Context, string, string, string) {}

func (p *Prometheus) OnResponse(_ context.Context, method, host, _ string, code int, d time.Duration) {
	p.requests.WithLabelValues(method, host, strconv.Itoa(code)).Observe(d.Seconds())
}

func (p *Prometheus) OnError(_ context.Context, method, host, _ string, _ error) {
	p.httpErrors.WithLabelValues(method, host).Inc()
}

var (
	_ ResolveHooks = (*Prometheus)(nil)
	_ CacheHooks   = (*Prometheus)(nil)
	_ HTTPHooks    = (*Prometheus)(nil)
)
