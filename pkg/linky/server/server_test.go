package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/linky/pkg/linky/cache"
	"github.com/mikepea/linky/pkg/linky/config"
	"github.com/mikepea/linky/pkg/linky/database"
	"github.com/mikepea/linky/pkg/linky/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, origins string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	cfg := &config.Config{AllowedOrigins: origins}
	return New(cfg, store.New(db), cache.New(nil, 0))
}

func TestHealth(t *testing.T) {
	r := setupTestServer(t, "*")

	for _, path := range []string{"/health", "/api/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), `"status":"ok"`, path)
	}
}

func TestRoutesRegistered(t *testing.T) {
	r := setupTestServer(t, "*")

	want := map[string]bool{}
	for _, key := range []string{
		"GET /api/links",
		"POST /api/process-link",
		"POST /api/vote",
		"DELETE /api/vote/:link_id",
		"GET /api/export",
		"POST /api/import",
		"GET /metrics",
		"GET /swagger/*any",
	} {
		want[key] = false
	}
	for _, route := range r.Routes() {
		key := route.Method + " " + route.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for key, found := range want {
		assert.True(t, found, "route %s not registered", key)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := setupTestServer(t, "*")

	// one request so the histogram has a sample
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/links", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "linky_http_request_duration_seconds")
}

func TestCORSAllowAll(t *testing.T) {
	r := setupTestServer(t, "*")

	req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	req.Header.Set("Origin", "http://frontend.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRestricted(t *testing.T) {
	r := setupTestServer(t, "http://allowed.example")

	req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	req.Header.Set("Origin", "http://allowed.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://allowed.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/links", nil)
	req.Header.Set("Origin", "http://other.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
