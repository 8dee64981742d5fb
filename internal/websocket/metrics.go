package websocket

import "github.com/prometheus/client_golang/prometheus"

var (
	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "barn_chat_ws_connections",
			Help: "Current number of active websocket connections.",
		},
	)
	wsRooms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "barn_chat_ws_rooms",
			Help: "Current number of non-empty chat rooms.",
		},
	)
	wsMessagesDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "barn_chat_ws_messages_delivered_total",
			Help: "Total outbound events queued to clients.",
		},
	)
	wsDeliveryFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "barn_chat_ws_delivery_failures_total",
			Help: "Outbound events rejected by a full client buffer.",
		},
	)
	wsInboundEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barn_chat_ws_inbound_events_total",
			Help: "Inbound client events dispatched, by event name.",
		},
		[]string{"event"},
	)
)

func init() {
	prometheus.MustRegister(wsConnections, wsRooms, wsMessagesDelivered, wsDeliveryFailures, wsInboundEvents)
}

func incConnections() {
	wsConnections.Inc()
}

func decConnections() {
	wsConnections.Dec()
}

func setRooms(count int) {
	wsRooms.Set(float64(count))
}

func addDelivered(count int) {
	wsMessagesDelivered.Add(float64(count))
}

func incDeliveryFailures() {
	wsDeliveryFailures.Inc()
}

func incInbound(event string) {
	wsInboundEvents.WithLabelValues(event).Inc()
}
