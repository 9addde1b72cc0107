package service

import (
	"context"

	"github.com/cloo-solutions/greenplate/internal/domain"
	"github.com/cloo-solutions/greenplate/internal/logging"
	"github.com/cloo-solutions/greenplate/internal/metrics"
	"github.com/cloo-solutions/greenplate/internal/telemetry"
)

// reportInvariant records a data-quality problem. It never fails the request.
func reportInvariant(ctx context.Context, kind string, err error, recipeID int64) {
	metrics.InvariantViolations.WithLabelValues(kind).Inc()
	logging.Ctx(ctx).Warn().
		Err(err).
		Str("kind", kind).
		Int64("recipe_id", recipeID).
		Msg("similarity invariant violated")
	telemetry.CaptureError(ctx, err)
}

// storeError wraps a repository failure and counts it.
func storeError(op string, err error) error {
	wrapped := domain.StoreUnavailable(op, err)
	if domain.IsStoreUnavailable(wrapped) {
		metrics.StoreErrors.WithLabelValues(op).Inc()
	}
	return wrapped
}
