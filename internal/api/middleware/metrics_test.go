package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonix/SLN-BookingService/pkg/metrics"
)

func TestMetrics_ObservesRequest(t *testing.T) {
	m := metrics.New("test-service")

	r := mux.NewRouter()
	r.Use(Metrics(m))
	r.HandleFunc("/appointments/{appointmentId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/appointments/42", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	count, err := testutil.GatherAndCount(prometheus.DefaultGatherer,
		"http_requests_total", "http_request_duration_seconds")
	require.NoError(t, err)
	// Счетчик и гистограмма зарегистрированы и получили наблюдение
	assert.Equal(t, 2, count)
}
