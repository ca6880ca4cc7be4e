package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notekit/pkg/metrics"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	t.Parallel()

	m := metrics.New("test")
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/notes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes/"+id, nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	}

	expected := `
# HELP test_http_requests_total Total number of HTTP requests.
# TYPE test_http_requests_total counter
test_http_requests_total{method="GET",route="/notes/{id}",status="404"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "test_http_requests_total"))

	expectedErrors := `
# HELP test_http_request_errors_total Total number of HTTP error responses.
# TYPE test_http_request_errors_total counter
test_http_request_errors_total{method="GET",route="/notes/{id}",status_class="client_error"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expectedErrors), "test_http_request_errors_total"))
}

func TestObservePolicyDenial(t *testing.T) {
	t.Parallel()

	m := metrics.New("test")
	m.ObservePolicyDenial("NotesLimitReached")
	m.ObservePolicyDenial("NotesLimitReached")
	m.ObservePolicyDenial("")

	expected := `
# HELP test_policy_denials_total Total number of requests denied by subscription or role policy.
# TYPE test_policy_denials_total counter
test_policy_denials_total{reason="NotesLimitReached"} 2
test_policy_denials_total{reason="unknown"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "test_policy_denials_total"))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m := metrics.New("test")
	m.ObservePolicyDenial("LastOwner")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `test_policy_denials_total{reason="LastOwner"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
