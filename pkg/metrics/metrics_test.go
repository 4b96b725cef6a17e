package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/product/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	before := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/product/{slug}", "200"))

	for _, path := range []string{"/product/shirt", "/product/mug", "/product/chair"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	after := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/product/{slug}", "200"))
	assert.Equal(t, float64(3), after-before, "every slug lands on the one pattern series")
	assert.Zero(t, testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/product/shirt", "200")),
		"raw URLs never become label values")
}

func TestMiddlewareUnmatchedRouteCollapses(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/known", func(w http.ResponseWriter, r *http.Request) {})

	before := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "unmatched", "404"))

	for _, path := range []string{"/nope-1", "/nope-2"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	after := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "unmatched", "404"))
	assert.Equal(t, float64(2), after-before, "misses share a single label value")
}
