package monitoring

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gramytu_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	wsConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gramytu_ws_connections",
			Help: "Open chat WebSocket connections",
		},
	)

	chatMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gramytu_chat_messages_total",
			Help: "Chat messages persisted, by transport",
		},
		[]string{"transport"},
	)

	eventsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gramytu_events_created_total",
			Help: "Events created",
		},
	)
)

func RequestMetrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		httpRequests.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func ConnectionOpened() { wsConnections.Inc() }
func ConnectionClosed() { wsConnections.Dec() }

// MessagePersisted counts a chat message; transport is "ws" or "http".
func MessagePersisted(transport string) {
	chatMessages.WithLabelValues(transport).Inc()
}

func EventCreated() { eventsCreated.Inc() }
