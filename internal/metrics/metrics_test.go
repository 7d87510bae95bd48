package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSubmission(t *testing.T) {
	before := testutil.ToFloat64(SubmissionsTotal.WithLabelValues(OutcomeInvalid))
	RecordSubmission(OutcomeInvalid)
	assert.Equal(t, before+1, testutil.ToFloat64(SubmissionsTotal.WithLabelValues(OutcomeInvalid)))
}

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/view/:id", "404"))
	RecordRequest("GET", "/view/:id", http.StatusNotFound, 15*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/view/:id", "404")))
}

func TestRecordPool(t *testing.T) {
	RecordPool(2, 3, 10)
	assert.Equal(t, float64(10), testutil.ToFloat64(PoolConnections.WithLabelValues("max")))
}

func TestHandler(t *testing.T) {
	RecordSignature("it")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "recepcion_signatures_stored_total")
}
