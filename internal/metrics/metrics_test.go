package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordReview(t *testing.T) {
	created := testutil.ToFloat64(reviewsWritten.WithLabelValues("created"))
	updated := testutil.ToFloat64(reviewsWritten.WithLabelValues("updated"))
	RecordReview(true)
	RecordReview(false)
	RecordReview(false)
	assert.Equal(t, created+1, testutil.ToFloat64(reviewsWritten.WithLabelValues("created")))
	assert.Equal(t, updated+2, testutil.ToFloat64(reviewsWritten.WithLabelValues("updated")))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", Handler())

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/items/:id", "204"))
	for _, path := range []string{"/items/1", "/items/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Equal(t, before+2, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/items/:id", "204")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `drops_http_requests_total{method="GET",path="/items/:id",status="204"}`)
}
