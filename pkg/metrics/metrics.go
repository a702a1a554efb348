package metrics

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// manager pins the namespace/subsystem every tracker metric is created
// under, plus the registry the /metrics endpoint exports.
type manager struct {
	namespace string
	subsystem string
	registry  *prometheus.Registry
}

var current = &manager{
	namespace: "swgwatch",
	subsystem: "core",
	registry:  prometheus.NewRegistry(),
}

// SetupMetricsManager points all subsequently created metrics at registry
// under ns/subsystem. Call once at core setup, before any New*Vec.
// Registration errors are ignored throughout this package so tests can
// build several cores against the same registry.
func SetupMetricsManager(ns, subsystem string, registry *prometheus.Registry) {
	current = &manager{
		namespace: sanitize(ns),
		subsystem: sanitize(subsystem),
		registry:  registry,
	}
	registry.Register(collectors.NewGoCollector())
}

func NewCounterVec(name string, labels []string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: current.namespace,
			Subsystem: current.subsystem,
			Name:      sanitize(name),
			Help:      fmt.Sprintf("%s count of %s/%s", name, current.namespace, current.subsystem),
		},
		labels,
	)
	vec.WithLabelValues(zeroLabels(labels)...).Add(0)

	current.registry.Register(vec)
	return vec
}

func NewHistogramVec(name string, labels []string) *prometheus.HistogramVec {
	vec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: current.namespace,
			Subsystem: current.subsystem,
			Name:      sanitize(name),
			Help:      fmt.Sprintf("%s duration of %s/%s", name, current.namespace, current.subsystem),
		},
		labels,
	)
	vec.WithLabelValues(zeroLabels(labels)...).Observe(0)

	current.registry.Register(vec)
	return vec
}

func NewGaugeVec(name string, labels []string) *prometheus.GaugeVec {
	vec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: current.namespace,
			Subsystem: current.subsystem,
			Name:      sanitize(name),
			Help:      fmt.Sprintf("%s gauge of %s/%s", name, current.namespace, current.subsystem),
		},
		labels,
	)
	vec.WithLabelValues(zeroLabels(labels)...).Add(0)

	current.registry.Register(vec)
	return vec
}

// DefaultExportHandler serves the configured registry as a gin handler.
func DefaultExportHandler() gin.HandlerFunc {
	h := promhttp.InstrumentMetricHandler(
		current.registry, promhttp.HandlerFor(current.registry, promhttp.HandlerOpts{}),
	)
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// zeroLabels seeds every vec with an all-empty label set so series show
// up in the export before the first real observation.
func zeroLabels(labels []string) []string {
	return make([]string, len(labels))
}

// sanitize rewrites names into the prometheus identifier charset.
func sanitize(in string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(in)
}
