package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginFailure()
	c.RecordLoginFailure()
	c.RecordLockout()
	c.RecordTokenIssued("PASSWORD_RECOVERY")
	c.RecordTokenConsumed("PASSWORD_RECOVERY")
	c.RecordTokenRejected("expired")
	c.RecordTokensSwept(3)
	c.RecordTokensSwept(0)
	c.RecordActivation(true)
	c.RecordActivation(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.loginFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lockouts))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.tokensIssued.WithLabelValues("PASSWORD_RECOVERY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.tokensConsumed.WithLabelValues("PASSWORD_RECOVERY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.tokensRejected.WithLabelValues("expired")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.tokensSwept))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.activations.WithLabelValues("granted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.activations.WithLabelValues("rejected")))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLockout()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "academy_account_lockouts_total 1")
}

func TestNop_SatisfiesRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordLockout()
	r.RecordTokensSwept(10)
}
