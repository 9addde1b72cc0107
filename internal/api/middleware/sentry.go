package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cloo-solutions/greenplate/internal/telemetry"
	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
)

// SentryMiddleware opens a transaction per request, named after the matched
// route pattern once routing is done, and tags it with the user, recipe slug
// and search query. Probe endpoints are not traced.
func SentryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if telemetry.IsProbe(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		hub := sentry.GetHubFromContext(r.Context())
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
		}

		tx := telemetry.StartRequestTransaction(r.Context(), r.Method, r.URL.Path,
			r.Header.Get("sentry-trace"), r.Header.Get("baggage"))
		defer tx.Finish()

		r = r.WithContext(sentry.SetHubOnContext(tx.Context(), hub))

		scope := hub.Scope()
		scope.SetContext("request", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"query":  r.URL.RawQuery,
		})
		if requestID := GetRequestID(r.Context()); requestID != "" {
			scope.SetTag("request_id", requestID)
			tx.SetTag("request_id", requestID)
		}
		if userID := GetUserID(r.Context()); userID != 0 {
			scope.SetTag("user_id", strconv.FormatInt(userID, 10))
			tx.SetTag("user_id", strconv.FormatInt(userID, 10))
		}
		if q := r.URL.Query().Get("q"); q != "" {
			tx.SetData("search.query", q)
		}

		defer func() {
			if err := recover(); err != nil {
				tx.Status = sentry.SpanStatusInternalError
				hub.RecoverWithContext(r.Context(), err)
				panic(err)
			}
		}()

		rec := &sentryResponseRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				tx.Name = r.Method + " " + pattern
				tx.Source = sentry.SourceRoute
			}
			if slug := rctx.URLParam("slug"); slug != "" {
				tx.SetTag("recipe_slug", slug)
			}
		}

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		tx.Status = httpStatusToSpanStatus(status)
		tx.SetData("http.response.status_code", status)

		// Domain errors are captured where they happen; this catches the rest.
		if status >= 500 {
			hub.CaptureMessage(fmt.Sprintf("HTTP %d on %s", status, tx.Name))
		}
	})
}

func httpStatusToSpanStatus(status int) sentry.SpanStatus {
	switch {
	case status >= 200 && status < 300:
		return sentry.SpanStatusOK
	case status == http.StatusUnauthorized:
		return sentry.SpanStatusUnauthenticated
	case status == http.StatusNotFound:
		return sentry.SpanStatusNotFound
	case status == http.StatusConflict:
		return sentry.SpanStatusAlreadyExists
	case status == http.StatusRequestEntityTooLarge:
		return sentry.SpanStatusResourceExhausted
	case status >= 400 && status < 500:
		return sentry.SpanStatusInvalidArgument
	case status == http.StatusNotImplemented:
		return sentry.SpanStatusUnimplemented
	case status == http.StatusServiceUnavailable:
		return sentry.SpanStatusUnavailable
	case status >= 500:
		return sentry.SpanStatusInternalError
	default:
		return sentry.SpanStatusUnknown
	}
}

type sentryResponseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *sentryResponseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *sentryResponseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}
