package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// hubMetrics holds the Prometheus collectors for hub-wide counts,
// refreshed on a ticker (grounded on the teacher's metrics.go
// RunMetrics(ctx, room, interval) ticker shape, upgraded from log-line
// snapshots to real collectors exposed via the admin API's /metrics route).
type hubMetrics struct {
	sockets prometheus.Gauge
	nicks   prometheus.Gauge
	users   prometheus.Gauge
	ops     prometheus.Gauge
	bots    prometheus.Gauge
	dropped prometheus.Counter
}

func newHubMetrics(reg prometheus.Registerer) *hubMetrics {
	m := &hubMetrics{
		sockets: prometheus.NewGauge(prometheus.GaugeOpts{Name: "dchub_sockets", Help: "open sockets"}),
		nicks:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "dchub_nicks", Help: "validated nicks"}),
		users:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "dchub_users", Help: "logged-in users"}),
		ops:     prometheus.NewGauge(prometheus.GaugeOpts{Name: "dchub_ops", Help: "operators online"}),
		bots:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "dchub_bots", Help: "registered bots"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{Name: "dchub_frames_dropped_total", Help: "frames dropped by the rate/validation gate"}),
	}
	reg.MustRegister(m.sockets, m.nicks, m.users, m.ops, m.bots, m.dropped)
	return m
}

// RunMetrics refreshes the gauges every interval until ctx is cancelled.
func RunMetrics(ctx context.Context, h *Hub, interval time.Duration) {
	if h.metrics == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.metrics.sockets.Set(float64(len(h.dir.sockets)))
			h.metrics.nicks.Set(float64(len(h.dir.nicks)))
			h.metrics.users.Set(float64(len(h.dir.users)))
			h.metrics.ops.Set(float64(len(h.dir.ops)))
			h.metrics.bots.Set(float64(len(h.dir.bots)))
		}
	}
}
