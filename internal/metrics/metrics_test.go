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

func TestRecordLogSubmission(t *testing.T) {
	m := NewManager()
	pm := m.GetPrometheusMetrics()

	pm.RecordLogSubmission("frontend", "info", "api", OutcomeSuccess, 10*time.Millisecond)
	pm.RecordLogSubmission("frontend", "info", "api", OutcomeSuccess, 20*time.Millisecond)
	pm.RecordLogSubmission("backend", "error", "db", OutcomeTransportError, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(pm.LogSubmissionsTotal.WithLabelValues("frontend", "info", "api", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.LogSubmissionsTotal.WithLabelValues("backend", "error", "db", OutcomeTransportError)))
}

func TestManagersAreIndependent(t *testing.T) {
	// each manager owns a registry, so creating two must not panic on duplicate registration
	a := NewManager()
	b := NewManager()

	a.GetPrometheusMetrics().RecordEvaluationRequest("register", "201")
	assert.Equal(t, 1.0, testutil.ToFloat64(a.GetPrometheusMetrics().EvaluationRequestsTotal.WithLabelValues("register", "201")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.GetPrometheusMetrics().EvaluationRequestsTotal.WithLabelValues("register", "201")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewManager()
	m.UpdateSystemMetrics()
	m.GetPrometheusMetrics().UpdateComponentHealth("evaluation_service", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "evallogger_goroutines")
	assert.Contains(t, rec.Body.String(), `evallogger_component_health{component="evaluation_service"} 1`)
}
