package queue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var counterHits atomic.Int64

type counterJob struct {
	Delta int64 `json:"delta"`
}

func (j *counterJob) Name() string { return "test.Counter" }
func (j *counterJob) Handle(ctx context.Context) error {
	counterHits.Add(j.Delta)
	return nil
}

func TestDispatchAndProcess(t *testing.T) {
	SetDriver(NewMemoryDriver())
	Register("test.Counter", func() Job { return &counterJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 2)

	counterHits.Store(0)
	for i := 0; i < 5; i++ {
		require.NoError(t, Dispatch(&counterJob{Delta: 2}))
	}

	require.Eventually(t, func() bool {
		return counterHits.Load() == 10
	}, 3*time.Second, 10*time.Millisecond, "all dispatched jobs run with their payload intact")
}

func TestUnregisteredJobIsSkipped(t *testing.T) {
	m := &Manager{registry: map[string]func() Job{}, maxRetry: 1, driver: NewMemoryDriver()}

	// Process directly; an unknown type must not panic or block.
	m.process(context.Background(), []byte(`{"type":"test.Ghost","payload":{}}`))
	m.process(context.Background(), []byte(`not json`))
	assert.Empty(t, m.failed)
}
