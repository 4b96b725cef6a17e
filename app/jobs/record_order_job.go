// Package jobs holds the background job types processed by the queue
// workers. Jobs carry only their JSON payload; shared dependencies are
// injected once at boot via Init.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/ecomstore/app/models"
	"github.com/shashiranjanraj/ecomstore/app/repositories"
	"github.com/shashiranjanraj/ecomstore/pkg/logger"
	"github.com/shashiranjanraj/ecomstore/pkg/metrics"
	"github.com/shashiranjanraj/ecomstore/pkg/queue"
	"github.com/shashiranjanraj/ecomstore/pkg/workerpool"
)

// RecordOrderName is the queue registry key for RecordOrderJob.
const RecordOrderName = "jobs.RecordOrder"

var deps struct {
	orders *repositories.OrderRepository
	outbox *repositories.OutboxRepository
}

// Init wires the repositories the jobs need. Call once at boot, before
// queue workers start.
func Init(orders *repositories.OrderRepository, outbox *repositories.OutboxRepository) {
	deps.orders = orders
	deps.outbox = outbox

	queue.Register(RecordOrderName, func() queue.Job { return &RecordOrderJob{} })
}

// RecordOrderJob replays one parked settlement: it writes the order the
// checkout could not persist and marks the outbox entry recorded. The
// order write is an idempotent upsert, so running twice is harmless.
type RecordOrderJob struct {
	TransactionID string `json:"transaction_id"`
}

func (j *RecordOrderJob) Name() string { return RecordOrderName }

func (j *RecordOrderJob) Handle(ctx context.Context) error {
	entry, err := deps.outbox.FindByTransaction(ctx, j.TransactionID)
	if errors.Is(err, repositories.ErrNotFound) {
		// Entry vanished; nothing to replay.
		return nil
	}
	if err != nil {
		return fmt.Errorf("record-order: load outbox entry: %w", err)
	}
	if entry.Recorded {
		return nil
	}
	return replay(ctx, entry)
}

// replay writes the order for one outbox entry and flags it recorded.
func replay(ctx context.Context, entry *models.OutboxEntry) error {
	order := &models.Order{
		Products:  entry.Products,
		Payment:   entry.Payment,
		Buyer:     entry.Buyer,
		BuyerName: entry.BuyerName,
		Status:    models.StatusNotProcessed,
		CreatedAt: entry.CreatedAt,
	}
	if err := deps.orders.Record(ctx, order); err != nil {
		return fmt.Errorf("record-order: write order: %w", err)
	}
	if err := deps.outbox.MarkRecorded(ctx, entry.ID); err != nil {
		return fmt.Errorf("record-order: mark recorded: %w", err)
	}
	logger.Info("record-order: settlement replayed", "transaction_id", entry.TransactionID)
	return nil
}

// SweepOutbox replays up to limit pending entries and refreshes the
// pending gauge. The scheduler runs this periodically as a safety net
// behind the queue; the reconcile command runs it once.
func SweepOutbox(ctx context.Context, limit int64) (replayed int, err error) {
	pending, err := deps.outbox.Pending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("outbox sweep: list pending: %w", err)
	}
	for i := range pending {
		if err := replay(ctx, &pending[i]); err != nil {
			logger.Warn("outbox sweep: replay failed",
				"transaction_id", pending[i].TransactionID, "error", err)
			continue
		}
		replayed++
	}
	if n, err := deps.outbox.PendingCount(ctx); err == nil {
		metrics.OutboxPending.Set(float64(n))
	}
	return replayed, nil
}

// SweepOutboxConcurrent is the reconcile variant: it fans the replays
// out over a bounded worker pool and waits for all of them.
func SweepOutboxConcurrent(ctx context.Context, limit int64, workers int) (replayed int, err error) {
	pending, err := deps.outbox.Pending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("outbox sweep: list pending: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	pool := workerpool.New(workers)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for i := range pending {
		entry := &pending[i]
		wg.Add(1)
		// SubmitWait blocks when all workers are busy; every pending
		// entry must be attempted, never dropped for lack of a slot.
		if err := pool.SubmitWait(func() {
			defer wg.Done()
			if err := replay(ctx, entry); err != nil {
				logger.Warn("outbox sweep: replay failed",
					"transaction_id", entry.TransactionID, "error", err)
				return
			}
			mu.Lock()
			replayed++
			mu.Unlock()
		}); err != nil {
			wg.Done()
			logger.Error("outbox sweep: submit failed",
				"transaction_id", entry.TransactionID, "error", err)
		}
	}
	wg.Wait()
	pool.Shutdown()

	if n, err := deps.outbox.PendingCount(ctx); err == nil {
		metrics.OutboxPending.Set(float64(n))
	}
	return replayed, nil
}
