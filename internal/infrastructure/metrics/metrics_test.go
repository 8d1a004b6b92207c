package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Store(t *testing.T) {
	m := New()

	m.MutationApplied("person.add")
	m.MutationApplied("person.add")
	m.MutationDenied("person.delete")
	m.PersistFailed()
	m.SetTreeSize(7, 9)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("person.add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.denied.WithLabelValues("person.delete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistFailures))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.people))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.edges))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.PersistFailed()
	m.ObserveRequest(http.MethodGet, "/api/tree", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "famitree_persist_failures_total 1")
	assert.Contains(t, string(body), `famitree_http_request_duration_seconds_count{method="GET",route="/api/tree",status="200"} 1`)
}
