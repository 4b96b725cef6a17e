// Package queue provides background job processing for ecomstore.
//
// Jobs are serialised to JSON envelopes and pushed through a Driver
// (in-process channel for dev/tests, Redis in production). The payment
// outbox replay rides on this: a failed order write after a settled
// transaction dispatches a RecordOrderJob that retries idempotently.
//
//	queue.Register("jobs.RecordOrder", func() queue.Job { return &jobs.RecordOrderJob{} })
//	queue.Dispatch(&jobs.RecordOrderJob{TransactionID: txID})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/ecomstore/pkg/logger"
	"github.com/shashiranjanraj/ecomstore/pkg/metrics"
)

// Job is the interface every queued job must satisfy.
type Job interface {
	// Name identifies the job type for serialisation.
	Name() string
	// Handle executes the job. Return a non-nil error to signal failure.
	Handle(ctx context.Context) error
}

// FailedJob holds information about a job that exhausted its retries.
type FailedJob struct {
	JobName  string
	Payload  []byte
	Err      error
	FailedAt time.Time
	Attempts int
}

// Driver is the queue storage backend.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// Manager is the central queue hub.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
}

var defaultManager = &Manager{
	registry: map[string]func() Job{},
	maxRetry: 3,
	driver:   NewMemoryDriver(),
}

// SetDriver swaps the underlying queue driver (e.g. Redis).
func SetDriver(d Driver) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.driver = d
}

// SetMaxRetry sets how many times a failing job is retried.
func SetMaxRetry(n int) { defaultManager.maxRetry = n }

// Register makes a job type available for deserialisation by name.
// Call once at boot for every job type.
func Register(name string, factory func() Job) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.registry[name] = factory
}

type jobEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch pushes job onto the queue immediately.
func Dispatch(job Job) error {
	return defaultManager.push(job)
}

func (m *Manager) push(job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job %s: %w", job.Name(), err)
	}

	env, err := json.Marshal(jobEnvelope{Type: job.Name(), Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()

	return d.Push(env)
}

// StartWorkers launches n concurrent workers processing jobs until ctx is
// cancelled.
func StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		go defaultManager.work(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

func (m *Manager) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			m.mu.RLock()
			d := m.driver
			m.mu.RUnlock()

			raw, err := d.Pop(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				time.Sleep(500 * time.Millisecond)
				continue
			}
			if raw == nil {
				continue
			}

			m.process(ctx, raw)
		}
	}
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	var env jobEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()

	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	m.runWithRetry(ctx, job, env.Payload)
}

func (m *Manager) runWithRetry(ctx context.Context, job Job, payload []byte) {
	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		if err := job.Handle(ctx); err != nil {
			lastErr = err
			logger.Warn("queue: job failed, retrying",
				"type", job.Name(), "attempt", attempt, "error", err)
			time.Sleep(time.Duration(attempt) * time.Second) // backoff
			continue
		}
		metrics.QueueJobsProcessed.WithLabelValues("success").Inc()
		logger.Info("queue: job processed", "type", job.Name())
		return
	}

	metrics.QueueJobsProcessed.WithLabelValues("failed").Inc()

	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		JobName: job.Name(), Payload: payload, Err: lastErr,
		FailedAt: time.Now(), Attempts: m.maxRetry,
	})
	m.mu.Unlock()

	logger.Error("queue: job exhausted retries", "type", job.Name(), "error", lastErr)
}

// FailedJobs returns a snapshot of all failed jobs.
func FailedJobs() []FailedJob {
	defaultManager.mu.RLock()
	defer defaultManager.mu.RUnlock()
	out := make([]FailedJob, len(defaultManager.failed))
	copy(out, defaultManager.failed)
	return out
}
