package queue

import (
	"context"

	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/engine"
	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/metrics"
)

// Job is one queued submission. The worker answers on exactly one of Result
// or Err.
type Job struct {
	ID     string
	UserID string
	Source string
	Result chan *engine.Result
	Err    chan error
	Ctx    context.Context
}

type Manager struct {
	jobQueue chan *Job
}

func NewManager(capacity int) *Manager {
	return &Manager{
		jobQueue: make(chan *Job, capacity),
	}
}

// Submit enqueues a job, blocking when the queue is full. Backpressure is
// intentional: the rate limiter in front of the handler bounds how long the
// block can last.
func (m *Manager) Submit(job *Job) {
	m.jobQueue <- job
	metrics.QueueDepth.Set(float64(len(m.jobQueue)))
}

func (m *Manager) NextJob() <-chan *Job {
	return m.jobQueue
}

func (m *Manager) UpdateQueueMetric() {
	metrics.QueueDepth.Set(float64(len(m.jobQueue)))
}
