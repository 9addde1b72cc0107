package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestSentryMiddleware_PassesThroughWithoutClient(t *testing.T) {
	var sawHub bool
	r := chi.NewRouter()
	r.Use(SentryMiddleware)
	r.Get("/recipes/{slug}/similar", func(w http.ResponseWriter, r *http.Request) {
		sawHub = sentry.GetHubFromContext(r.Context()) != nil
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recipes/pineapple-salsa/similar", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.True(t, sawHub)
}

func TestSentryMiddleware_SkipsProbes(t *testing.T) {
	var sawHub bool
	handler := SentryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawHub = sentry.GetHubFromContext(r.Context()) != nil
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.False(t, sawHub)
}

func TestHTTPStatusToSpanStatus(t *testing.T) {
	assert.Equal(t, sentry.SpanStatusOK, httpStatusToSpanStatus(http.StatusCreated))
	assert.Equal(t, sentry.SpanStatusInvalidArgument, httpStatusToSpanStatus(http.StatusBadRequest))
	assert.Equal(t, sentry.SpanStatusUnauthenticated, httpStatusToSpanStatus(http.StatusUnauthorized))
	assert.Equal(t, sentry.SpanStatusNotFound, httpStatusToSpanStatus(http.StatusNotFound))
	assert.Equal(t, sentry.SpanStatusUnavailable, httpStatusToSpanStatus(http.StatusServiceUnavailable))
	assert.Equal(t, sentry.SpanStatusInternalError, httpStatusToSpanStatus(http.StatusBadGateway))
}
