package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/substances/{query}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues("GET", "/substances/{query}", "404"))

	for _, q := range []string{"keta", "lsd", "qwxyz"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/substances/"+q, nil))
	}

	after := testutil.ToFloat64(HTTPRequestTotals.WithLabelValues("GET", "/substances/{query}", "404"))
	if after-before != 3 {
		t.Errorf("Expected 3 requests counted under the route pattern, got %v", after-before)
	}
	if inFlight := testutil.ToFloat64(HTTPRequestInFlight); inFlight != 0 {
		t.Errorf("Expected no in-flight requests, got %v", inFlight)
	}
}
