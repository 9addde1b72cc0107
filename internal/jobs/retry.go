package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/cloo-solutions/greenplate/internal/logging"
)

const (
	// MaxRetries is the maximum number of attempts per run
	MaxRetries = 3
)

// RetryingProcessor re-runs a failing processor with linear backoff before
// giving up until the next tick.
type RetryingProcessor struct {
	processor JobProcessor
	attempts  int
	backoff   time.Duration
}

// NewRetryingProcessor creates a new RetryingProcessor instance
func NewRetryingProcessor(processor JobProcessor, backoff time.Duration) *RetryingProcessor {
	return &RetryingProcessor{
		processor: processor,
		attempts:  MaxRetries,
		backoff:   backoff,
	}
}

// ProcessJobs implements the JobProcessor interface
func (p *RetryingProcessor) ProcessJobs(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		if err = p.processor.ProcessJobs(ctx); err == nil {
			return nil
		}
		if attempt == p.attempts {
			break
		}

		logging.Warn().Err(err).Int("attempt", attempt).Msg("job failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * p.backoff):
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", p.attempts, err)
}
