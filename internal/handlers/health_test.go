package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JakubEth/gramytu/internal/auth"
	"github.com/JakubEth/gramytu/internal/router"
	"github.com/JakubEth/gramytu/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(r, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", field(t, body, "checks")["database"])
	assert.NotContains(t, field(t, body, "checks"), "redis")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testutil.SetupDB(t)
	require.NoError(t, auth.InitJWT("test-secret", time.Hour))

	r := router.NewRouter(router.Options{EnableMetrics: true})

	doJSON(r, http.MethodGet, "/api/health", "", nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `gramytu_http_requests_total{method="GET",route="/api/health",status="200"}`))

	rec = doJSON(newTestRouter(t), http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
