package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cloo-solutions/greenplate/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockJobProcessor is a mock implementation of JobProcessor
type MockJobProcessor struct {
	mock.Mock
}

func (m *MockJobProcessor) ProcessJobs(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// TestWorker_StartStop tests the worker start and stop functionality
func TestWorker_StartStop(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker(mockProcessor, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	time.Sleep(250 * time.Millisecond)

	worker.Stop()
	wg.Wait()

	mockProcessor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

// TestWorker_ContextCancellation tests worker stops on context cancellation
func TestWorker_ContextCancellation(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker(mockProcessor, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	time.Sleep(150 * time.Millisecond)

	cancel()
	wg.Wait()

	mockProcessor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

func TestWorker_RunOnStart(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(errors.New("boom"))

	worker := NewWorker(mockProcessor, time.Hour).Named("histogram").RunOnStart()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(context.Background())
	}()

	assert.Eventually(t, func() bool {
		return len(mockProcessor.Calls) > 0
	}, time.Second, 10*time.Millisecond)

	worker.Stop()
	wg.Wait()

	mockProcessor.AssertNumberOfCalls(t, "ProcessJobs", 1)
}

func TestRetryingProcessor_SucceedsAfterFailure(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(errors.New("store down")).Once()
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil).Once()

	err := NewRetryingProcessor(mockProcessor, time.Millisecond).ProcessJobs(context.Background())

	assert.NoError(t, err)
	mockProcessor.AssertNumberOfCalls(t, "ProcessJobs", 2)
}

func TestRetryingProcessor_GivesUp(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(errors.New("store down"))

	err := NewRetryingProcessor(mockProcessor, time.Millisecond).ProcessJobs(context.Background())

	assert.ErrorContains(t, err, "giving up after 3 attempts")
	assert.ErrorContains(t, err, "store down")
	mockProcessor.AssertNumberOfCalls(t, "ProcessJobs", MaxRetries)
}

func TestRetryingProcessor_StopsOnCancel(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(errors.New("store down"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewRetryingProcessor(mockProcessor, time.Hour).ProcessJobs(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	mockProcessor.AssertNumberOfCalls(t, "ProcessJobs", 1)
}

type blockingProcessor struct {
	started chan struct{}
}

func (p *blockingProcessor) ProcessJobs(ctx context.Context) error {
	close(p.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestWorker_StopCancelsInFlightRun(t *testing.T) {
	processor := &blockingProcessor{started: make(chan struct{})}
	worker := NewWorker(processor, time.Hour).Named("blocking").RunOnStart()

	done := make(chan struct{})
	go func() {
		worker.Start(context.Background())
		close(done)
	}()

	<-processor.started
	worker.Stop()
	worker.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Zero(t, testutil.ToFloat64(metrics.JobRuns.WithLabelValues("blocking", "error")))
}

func TestWorker_RecordsSuccess(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil)
	before := testutil.ToFloat64(metrics.JobRuns.WithLabelValues("recorded", "ok"))

	worker := NewWorker(mockProcessor, time.Hour).Named("recorded").RunOnStart()
	go worker.Start(context.Background())

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.JobRuns.WithLabelValues("recorded", "ok")) == before+1
	}, time.Second, 10*time.Millisecond)
	worker.Stop()

	assert.Greater(t, testutil.ToFloat64(metrics.JobLastSuccess.WithLabelValues("recorded")), 0.0)
}
