package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/projects/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/projects/{id}", "404"))
	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/projects/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/projects/{id}", "404"))
	assert.Equal(t, 3.0, after-before)
}

func TestBusinessCounters(t *testing.T) {
	before := testutil.ToFloat64(formSubmissionsTotal.WithLabelValues("waitlist"))
	RecordFormSubmission("waitlist")
	assert.Equal(t, 1.0, testutil.ToFloat64(formSubmissionsTotal.WithLabelValues("waitlist"))-before)

	RecordNotification("email", false)
	assert.GreaterOrEqual(t, testutil.ToFloat64(notificationsTotal.WithLabelValues("email", "failure")), 1.0)

	SetStorageBackend("memory")
	SetStorageBackend("gorm/mysql")
	assert.Equal(t, 1, testutil.CollectAndCount(storageBackend))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordWaitlistDuplicate()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "waitlist_duplicates_total"))
}
