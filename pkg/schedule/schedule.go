// Package schedule runs registered tasks on fixed intervals.
//
//	schedule.Every(5*time.Minute).Name("outbox.sweep").Run(sweep)
//	schedule.Start(ctx)
package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/ecomstore/pkg/logger"
)

// Task is the function signature for a scheduled task.
type Task func()

type entry struct {
	id       string
	interval time.Duration
	task     Task
	running  bool
	mu       sync.Mutex
}

// Schedule is a fluent builder for a single entry.
type Schedule struct {
	e *entry
}

var (
	regMu   sync.Mutex
	entries []*entry
)

// Every starts a builder for a task running each interval.
func Every(interval time.Duration) *Schedule {
	return &Schedule{e: &entry{interval: interval}}
}

// Name gives the entry an identifier for logging.
func (s *Schedule) Name(id string) *Schedule {
	s.e.id = id
	return s
}

// Run registers the task. Call Start to begin dispatching.
func (s *Schedule) Run(fn Task) {
	s.e.task = fn
	regMu.Lock()
	entries = append(entries, s.e)
	regMu.Unlock()
}

// Start launches one ticker goroutine per entry; all stop when ctx is
// cancelled. Overlapping runs of the same entry are skipped.
func Start(ctx context.Context) {
	regMu.Lock()
	snapshot := append([]*entry(nil), entries...)
	regMu.Unlock()

	for _, e := range snapshot {
		go e.loop(ctx)
	}

	if len(snapshot) > 0 {
		logger.Info("schedule: started", "tasks", len(snapshot))
	}
}

func (e *entry) loop(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.fire()
		}
	}
}

func (e *entry) fire() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("schedule: task panicked", "task", e.id, "error", r)
		}
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	e.task()
}

// Flush clears all registered entries. Used in tests.
func Flush() {
	regMu.Lock()
	entries = nil
	regMu.Unlock()
}
