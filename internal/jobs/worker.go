package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/cloo-solutions/greenplate/internal/logging"
	"github.com/cloo-solutions/greenplate/internal/metrics"
)

// JobProcessor is one unit of periodic background work.
type JobProcessor interface {
	ProcessJobs(ctx context.Context) error
}

// Worker runs a JobProcessor on a fixed interval until stopped. Stopping
// cancels the context handed to an in-flight run.
type Worker struct {
	name       string
	processor  JobProcessor
	interval   time.Duration
	runOnStart bool

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewWorker(processor JobProcessor, interval time.Duration) *Worker {
	return &Worker{
		name:      "worker",
		processor: processor,
		interval:  interval,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Named sets the name used in log lines and metric labels.
func (w *Worker) Named(name string) *Worker {
	w.name = name
	return w
}

// RunOnStart processes once before waiting for the first tick.
func (w *Worker) RunOnStart() *Worker {
	w.runOnStart = true
	return w
}

// Start blocks until ctx is done or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	defer close(w.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	log := logging.Logger().With().Str("worker", w.name).Logger()
	log.Info().Dur("interval", w.interval).Msg("worker started")

	if w.runOnStart {
		w.run(ctx)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker stopped")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *Worker) run(ctx context.Context) {
	start := time.Now()
	err := w.processor.ProcessJobs(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		metrics.JobRuns.WithLabelValues(w.name, "error").Inc()
		logging.Error().Err(err).Str("worker", w.name).Msg("job run failed")
		return
	}
	metrics.JobRuns.WithLabelValues(w.name, "ok").Inc()
	metrics.JobLastSuccess.WithLabelValues(w.name).SetToCurrentTime()
	logging.Debug().Str("worker", w.name).Dur("took", time.Since(start)).Msg("job run finished")
}

// Stop cancels the worker and waits for Start to return. It is safe to call
// more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}
