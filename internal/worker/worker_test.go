package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/engine"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/queue"
)

type stubEvaluator struct {
	result *engine.Result
	err    error
}

func (s *stubEvaluator) Evaluate(ctx context.Context, source string) (*engine.Result, error) {
	return s.result, s.err
}

func startWorker(t *testing.T, ev Evaluator) *queue.Manager {
	t.Helper()
	m := queue.NewManager(4)
	logger := zerolog.Nop()
	w := NewWorker(0, ev, m, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Start(ctx)
	return m
}

func newJob() *queue.Job {
	return &queue.Job{
		ID:     "job-1",
		UserID: "alice",
		Source: "public class Main {}",
		Result: make(chan *engine.Result, 1),
		Err:    make(chan error, 1),
		Ctx:    context.Background(),
	}
}

func TestWorkerDeliversResult(t *testing.T) {
	want := &engine.Result{Status: engine.StatusSuccess, Output: "Hello!"}
	m := startWorker(t, &stubEvaluator{result: want})

	job := newJob()
	m.Submit(job)

	select {
	case got := <-job.Result:
		assert.Equal(t, want, got)
	case err := <-job.Err:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker never answered")
	}
}

func TestWorkerDeliversOperationalError(t *testing.T) {
	wantErr := errors.New("toolchain broken")
	m := startWorker(t, &stubEvaluator{err: wantErr})

	job := newJob()
	m.Submit(job)

	select {
	case <-job.Result:
		t.Fatal("expected error, got result")
	case err := <-job.Err:
		assert.ErrorIs(t, err, wantErr)
	case <-time.After(2 * time.Second):
		t.Fatal("worker never answered")
	}
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	m := queue.NewManager(1)
	logger := zerolog.Nop()
	w := NewWorker(0, &stubEvaluator{result: &engine.Result{Status: engine.StatusSuccess}}, m, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
