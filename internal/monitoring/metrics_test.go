package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestMetrics())
	r.GET("/api/events/:event_id", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/events/:event_id", "200"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events/7", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/events/:event_id", "200"))
	assert.Equal(t, before+1, after)
}

func TestCounters(t *testing.T) {
	ConnectionOpened()
	ConnectionOpened()
	ConnectionClosed()
	assert.GreaterOrEqual(t, testutil.ToFloat64(wsConnections), 1.0)

	before := testutil.ToFloat64(chatMessages.WithLabelValues("ws"))
	MessagePersisted("ws")
	assert.Equal(t, before+1, testutil.ToFloat64(chatMessages.WithLabelValues("ws")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	EventCreated()

	r := gin.New()
	r.GET("/metrics", Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gramytu_events_created_total")
}
