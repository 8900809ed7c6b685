package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/posts/createPost", http.MethodPost, 201, 10*time.Millisecond)
	m.ObserveRequest("/api/posts/createPost", http.MethodPost, 201, 20*time.Millisecond)
	m.ObserveRequest("/api/posts/createPost", http.MethodPost, 400, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/posts/createPost", "POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/posts/createPost", "POST", "400")))
}

func TestObserveResolve(t *testing.T) {
	m := New()
	m.ObserveResolve("ratePost", nil)
	m.ObserveResolve("ratePost", errors.New("bad"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("ratePost", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("ratePost", "error")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("/", http.MethodGet, 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "postboard_http_requests_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
