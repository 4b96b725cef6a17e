package workerpool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsTasks(t *testing.T) {
	p := New(4)

	var n atomic.Int64
	for i := 0; i < 20; i++ {
		require.NoError(t, p.SubmitWait(func() { n.Add(1) }))
	}
	p.Shutdown() // waits for in-flight tasks
	assert.Equal(t, int64(20), n.Load())
}

func TestSubmitWaitUnderSustainedLoad(t *testing.T) {
	p := New(4)

	// Far more tasks than the buffer holds, each slow enough to keep
	// every worker busy. SubmitWait must block instead of dropping.
	var done atomic.Int64
	for i := 0; i < 500; i++ {
		require.NoError(t, p.SubmitWait(func() {
			time.Sleep(2 * time.Millisecond)
			done.Add(1)
		}))
	}
	p.Shutdown()
	assert.Equal(t, int64(500), done.Load(), "every submitted task runs")
}

func TestSubmitDropsWhenFull(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	block := make(chan struct{})
	require.NoError(t, p.SubmitWait(func() { <-block }))

	// Fill the buffer, then the non-blocking path must refuse.
	var sawFull bool
	for i := 0; i < 10; i++ {
		if err := p.Submit(func() {}); err != nil {
			assert.ErrorIs(t, err, ErrPoolFull)
			sawFull = true
			break
		}
	}
	close(block)
	assert.True(t, sawFull, "Submit reports backpressure instead of blocking")
}

func TestSubmitAfterShutdown(t *testing.T) {
	p := New(1)
	p.Shutdown()

	err := p.Submit(func() {})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestPanickingTaskDoesNotKillWorker(t *testing.T) {
	p := New(1)
	defer p.Shutdown()

	require.NoError(t, p.SubmitWait(func() { panic("boom") }))

	done := make(chan struct{})
	require.NoError(t, p.Submit(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
}
