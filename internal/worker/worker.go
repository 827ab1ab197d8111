package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/engine"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/metrics"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/queue"
)

// Evaluator is what a worker needs from the execution engine. Tests stub it.
type Evaluator interface {
	Evaluate(ctx context.Context, source string) (*engine.Result, error)
}

type Worker struct {
	id        int
	evaluator Evaluator
	manager   *queue.Manager
	logger    *zerolog.Logger
}

func NewWorker(id int, ev Evaluator, manager *queue.Manager, logger *zerolog.Logger) *Worker {
	return &Worker{
		id:        id,
		evaluator: ev,
		manager:   manager,
		logger:    logger,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.logger.Info().Int("worker_id", w.id).Msg("worker started")
	for {
		select {
		case job := <-w.manager.NextJob():
			metrics.ActiveWorkers.Inc()
			w.processJob(job)
			metrics.ActiveWorkers.Dec()
			w.manager.UpdateQueueMetric()
		case <-ctx.Done():
			w.logger.Info().Int("worker_id", w.id).Msg("worker stopping")
			return
		}
	}
}

func (w *Worker) processJob(job *queue.Job) {
	w.logger.Info().
		Int("worker_id", w.id).
		Str("job_id", job.ID).
		Str("user_id", job.UserID).
		Msg("evaluating submission")

	startTime := time.Now()
	result, err := w.evaluator.Evaluate(job.Ctx, job.Source)
	duration := time.Since(startTime).Milliseconds()

	if err != nil {
		metrics.EvaluationsTotal.WithLabelValues("operational_error").Inc()
		w.logger.Error().
			Int("worker_id", w.id).
			Str("job_id", job.ID).
			Err(err).
			Msg("evaluation failed")
		job.Err <- err
		return
	}

	metrics.EvaluationsTotal.WithLabelValues(string(result.Status)).Inc()
	metrics.EvaluationDuration.WithLabelValues("total").Observe(float64(duration))

	job.Result <- result
}
