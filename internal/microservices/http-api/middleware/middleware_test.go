package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"mediahub/internal/metrics"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger(), Metrics())
	r.GET("/media/:id", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	return r
}

func TestRequestID_Generated(t *testing.T) {
	r := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/media/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestID_Propagated(t *testing.T) {
	r := newTestEngine()
	incoming := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/media/1", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))
}

func TestRequestID_RejectsGarbage(t *testing.T) {
	r := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/media/1", nil)
	req.Header.Set(RequestIDHeader, "not-an-id\r\n")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEqual(t, "not-an-id\r\n", w.Header().Get(RequestIDHeader))
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	r := newTestEngine()
	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/media/:id", "200")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/media/1", "/media/2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
