package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/metrics", Handler())
	r.GET("/api/things/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	return r
}

func TestMiddlewareRecordsRoute(t *testing.T) {
	r := setupTestRouter()

	req, _ := http.NewRequest("GET", "/api/things/7", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(HTTPRequestDuration, "linky_http_request_duration_seconds"), 1)
}

func TestHandlerExposesCounters(t *testing.T) {
	r := setupTestRouter()
	VotesAdded.WithLabelValues("like").Inc()

	req, _ := http.NewRequest("GET", "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, strings.Contains(resp.Body.String(), `linky_votes_added_total{vote_type="like"}`))
}
