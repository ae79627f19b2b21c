package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "qa_ws_connections",
		Help: "Currently connected websocket clients",
	})

	metricBroadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qa_broadcasts_total",
		Help: "Total room broadcasts delivered to at least one client",
	})

	metricDroppedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qa_ws_dropped_messages_total",
		Help: "Messages dropped because a client send buffer was full",
	})
)
