// Package telemetry wraps Sentry tracing and error capture for the
// discovery engine. Every helper is a no-op when Sentry is not initialized.
package telemetry

import (
	"context"
	"strconv"
	"time"

	"github.com/cloo-solutions/greenplate/internal/logging"
	"github.com/getsentry/sentry-go"
)

const serviceName = "greenplate"

// probePaths are polled by orchestrators and never traced.
var probePaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

// Config holds the configuration for Sentry initialization.
type Config struct {
	DSN              string
	Environment      string
	TracesSampleRate float64
	Debug            bool
}

// Init initializes Sentry with tracing enabled and returns a flush function.
// An empty DSN or a failed init leaves telemetry disabled.
func Init(cfg Config) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.TracesSampleRate == 0 {
		cfg.TracesSampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		EnableTracing:    true,
		TracesSampleRate: cfg.TracesSampleRate,
		Debug:            cfg.Debug,
		ServerName:       serviceName,
		TracesSampler: sentry.TracesSampler(func(ctx sentry.SamplingContext) float64 {
			return sampleRate(ctx.Span, cfg.TracesSampleRate)
		}),
	})
	if err != nil {
		logging.Warn().Err(err).Msg("sentry: failed to initialize, continuing without tracing")
		return func() {}, nil
	}

	logging.Info().
		Str("environment", cfg.Environment).
		Float64("sample_rate", cfg.TracesSampleRate).
		Msg("sentry: tracing initialized")
	return func() { sentry.Flush(5 * time.Second) }, nil
}

// sampleRate drops probe requests and makes child spans follow their parent.
func sampleRate(span *sentry.Span, rate float64) float64 {
	if span == nil {
		return rate
	}
	if path, ok := span.Data["http.path"].(string); ok && probePaths[path] {
		return 0
	}
	var emptySpanID sentry.SpanID
	if span.ParentSpanID != emptySpanID {
		if span.Sampled.Bool() {
			return 1
		}
		return 0
	}
	return rate
}

// IsProbe reports whether path is a health, readiness or metrics probe.
func IsProbe(path string) bool {
	return probePaths[path]
}

// SpanAttributes tags a service span with the request it serves.
type SpanAttributes struct {
	UserID    int64
	Slug      string
	Route     string
	Operation string
}

// Span wraps sentry.Span so callers never nil-check.
type Span struct {
	inner *sentry.Span
}

func (s *Span) End() {
	if s.inner != nil {
		s.inner.Finish()
	}
}

// SetError marks the span as failed and captures err on the span's hub.
func (s *Span) SetError(err error) {
	if s.inner == nil {
		return
	}
	s.inner.Status = sentry.SpanStatusInternalError
	if hub := sentry.GetHubFromContext(s.inner.Context()); hub != nil {
		hub.CaptureException(err)
	}
}

func setAttributes(span *sentry.Span, attrs SpanAttributes) {
	if attrs.UserID > 0 {
		span.SetTag("user_id", strconv.FormatInt(attrs.UserID, 10))
	}
	if attrs.Slug != "" {
		span.SetTag("recipe_slug", attrs.Slug)
	}
	if attrs.Route != "" {
		span.SetTag("search_route", attrs.Route)
	}
	if attrs.Operation != "" {
		span.SetData("operation", attrs.Operation)
	}
}

// StartSpan opens a child of the span in ctx, or a new transaction when
// there is none.
func StartSpan(ctx context.Context, name string, attrs SpanAttributes) (context.Context, *Span) {
	var span *sentry.Span
	if parent := sentry.SpanFromContext(ctx); parent != nil {
		span = parent.StartChild(name)
	} else {
		span = sentry.StartSpan(ctx, name, sentry.WithTransactionName(name))
	}
	setAttributes(span, attrs)
	return span.Context(), &Span{inner: span}
}

// StartRequestTransaction opens the root transaction for one HTTP request,
// continuing an incoming trace when the headers carry one.
func StartRequestTransaction(ctx context.Context, method, path, sentryTrace, baggage string) *sentry.Span {
	options := []sentry.SpanOption{
		sentry.WithOpName("http.server"),
		sentry.WithTransactionSource(sentry.SourceURL),
		// Set before sampling so the sampler can see the path.
		func(s *sentry.Span) { s.SetData("http.path", path) },
	}
	if sentryTrace != "" {
		options = append(options, sentry.ContinueFromHeaders(sentryTrace, baggage))
	}
	return sentry.StartTransaction(ctx, method+" "+path, options...)
}

// CaptureError captures err on the hub in ctx, or the global hub.
func CaptureError(ctx context.Context, err error) {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}

// AddBreadcrumb records an info breadcrumb on the current scope.
func AddBreadcrumb(ctx context.Context, category, message string) {
	breadcrumb := &sentry.Breadcrumb{
		Type:      "default",
		Category:  category,
		Message:   message,
		Level:     sentry.LevelInfo,
		Timestamp: time.Now(),
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.AddBreadcrumb(breadcrumb, nil)
		return
	}
	sentry.AddBreadcrumb(breadcrumb)
}
