package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JakubEth/gramytu/internal/auth"
	"github.com/JakubEth/gramytu/internal/chat"
	"github.com/JakubEth/gramytu/internal/handlers"
	"github.com/JakubEth/gramytu/internal/models"
	"github.com/JakubEth/gramytu/internal/router"
	"github.com/JakubEth/gramytu/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	testutil.SetupDB(t)
	require.NoError(t, auth.InitJWT("test-secret", time.Hour))

	return router.NewRouter(router.Options{
		Dependencies: handlers.Dependencies{Hub: chat.NewHub(chat.GormStore{})},
	})
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()

	token, err := auth.GenerateJWT(user.ID, user.Username)
	require.NoError(t, err)

	return token
}

func doJSON(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload bytes.Buffer

	if body != nil {
		if raw, ok := body.(string); ok {
			payload.WriteString(raw)
		} else if err := json.NewEncoder(&payload).Encode(body); err != nil {
			panic(err)
		}
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())

	return body
}

func field(t *testing.T, body map[string]interface{}, key string) map[string]interface{} {
	t.Helper()

	value, ok := body[key].(map[string]interface{})
	require.True(t, ok, "missing object %q in %v", key, body)

	return value
}

func list(t *testing.T, body map[string]interface{}, key string) []interface{} {
	t.Helper()

	value, ok := body[key].([]interface{})
	require.True(t, ok, "missing array %q in %v", key, body)

	return value
}
