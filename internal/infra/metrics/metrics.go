// Package metrics holds the prometheus collectors shared by the API client,
// the refresh job and the notification broadcaster. A nil *Metrics is valid
// and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpRetries    *prometheus.CounterVec
	refreshCycles  *prometheus.CounterVec
	playersIndexed prometheus.Gauge
	playersDropped *prometheus.CounterVec
	refreshSeconds prometheus.Histogram
	notifications  *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vrml_http_requests_total",
			Help: "Requests sent to the league API by endpoint template and status code.",
		}, []string{"endpoint", "status"}),
		httpRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vrml_http_retries_total",
			Help: "Retried league API attempts by reason.",
		}, []string{"reason"}),
		refreshCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vrmlbot_refresh_cycles_total",
			Help: "Player index refresh cycles by result.",
		}, []string{"result"}),
		playersIndexed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vrmlbot_refresh_players_indexed",
			Help: "Discord identities in the last published player index.",
		}),
		playersDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vrmlbot_refresh_players_dropped_total",
			Help: "Players skipped during a refresh cycle by reason.",
		}, []string{"reason"}),
		refreshSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vrmlbot_refresh_duration_seconds",
			Help:    "Wall time of a full refresh cycle.",
			Buckets: []float64{10, 30, 60, 120, 300, 600, 1200, 2400},
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vrmlbot_notifications_total",
			Help: "Broadcast notifications by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.httpRequests, m.httpRetries, m.refreshCycles, m.playersIndexed,
			m.playersDropped, m.refreshSeconds, m.notifications,
		)
	}
	return m
}

// HTTPRequest counts one attempt. status 0 means the request never got a response.
func (m *Metrics) HTTPRequest(endpoint string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

func (m *Metrics) HTTPRetry(reason string) {
	if m == nil {
		return
	}
	m.httpRetries.WithLabelValues(reason).Inc()
}

func (m *Metrics) RefreshCycle(result string, took time.Duration, indexed int) {
	if m == nil {
		return
	}
	m.refreshCycles.WithLabelValues(result).Inc()
	m.refreshSeconds.Observe(took.Seconds())
	if result == "ok" {
		m.playersIndexed.Set(float64(indexed))
	}
}

func (m *Metrics) PlayerDropped(reason string) {
	if m == nil {
		return
	}
	m.playersDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) Notification(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}
