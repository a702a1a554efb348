package core

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/swgwatch/swgwatch/pkg/metrics"
)

type Metrics struct {
	apiResponseTime *prometheus.HistogramVec
	apiErrorCounter *prometheus.CounterVec

	syncDuration    *prometheus.HistogramVec
	syncResources   *prometheus.CounterVec
	syncSkipped     *prometheus.CounterVec
	enrichRequests  *prometheus.CounterVec
	enrichDuration  *prometheus.HistogramVec
	salesExtracted  *prometheus.CounterVec
	spawnedResource *prometheus.GaugeVec
}

func NewMetrics(ns, system string) *Metrics {
	// setup metric
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime: metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter: metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		syncDuration:    metrics.NewHistogramVec("sync_duration", []string{"dataset"}),
		syncResources:   metrics.NewCounterVec("sync_resources", []string{"dataset", "outcome"}),
		syncSkipped:     metrics.NewCounterVec("sync_skipped", []string{"dataset", "reason"}),
		enrichRequests:  metrics.NewCounterVec("enrich_requests", []string{"outcome"}),
		enrichDuration:  metrics.NewHistogramVec("enrich_duration", nil),
		salesExtracted:  metrics.NewCounterVec("sales_extracted", []string{"outcome"}),
		spawnedResource: metrics.NewGaugeVec("spawned_resources", nil),
	}

	return m
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

func (m *Metrics) SyncTimer(dataset string) *prometheus.Timer {
	return prometheus.NewTimer(m.syncDuration.WithLabelValues(dataset))
}

// SyncResourceAdd records reconciliation outcomes, one of inserted,
// updated, despawned or skipped.
func (m *Metrics) SyncResourceAdd(dataset, outcome string, n int64) {
	m.syncResources.WithLabelValues(dataset, outcome).Add(float64(n))
}

func (m *Metrics) SyncSkippedInc(dataset, reason string) {
	m.syncSkipped.WithLabelValues(dataset, reason).Inc()
}

func (m *Metrics) EnrichRequestInc(outcome string) {
	m.enrichRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) EnrichTimer() *prometheus.Timer {
	return prometheus.NewTimer(m.enrichDuration.WithLabelValues())
}

func (m *Metrics) SalesExtractedInc(outcome string) {
	m.salesExtracted.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetSpawnedResources(n int64) {
	m.spawnedResource.WithLabelValues().Set(float64(n))
}
