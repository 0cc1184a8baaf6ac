package hub

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_connections",
		Help: "Currently open WebSocket connections",
	})

	metricAdmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "realtime_admissions_total",
		Help: "Total connections admitted",
	})

	metricEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "realtime_evictions_total",
		Help: "Connections terminated by the heartbeat monitor",
	})

	metricBroadcasts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_broadcasts_total",
		Help: "Broadcast operations by target",
	}, []string{"target"})

	metricDroppedSends = promauto.NewCounter(prometheus.CounterOpts{
		Name: "realtime_dropped_sends_total",
		Help: "Envelopes dropped due to a closed client or full send buffer",
	})

	metricFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_frames_total",
		Help: "Inbound frames by type (unknown types counted as other)",
	}, []string{"type"})
)
