package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsEveryTask(t *testing.T) {
	p := New(4)

	var (
		ran atomic.Int64
		wg  sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		for {
			err := p.Submit(func() {
				defer wg.Done()
				ran.Add(1)
			})
			if err == nil {
				break
			}
			require.ErrorIs(t, err, ErrPoolFull)
			time.Sleep(time.Millisecond)
		}
	}
	wg.Wait()

	assert.EqualValues(t, 50, ran.Load())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSubmitReportsFullBacklog(t *testing.T) {
	p := New(1)
	block := make(chan struct{})
	t.Cleanup(func() {
		close(block)
		_ = p.Shutdown(context.Background())
	})

	var full bool
	for i := 0; i < 10; i++ {
		if err := p.Submit(func() { <-block }); err == ErrPoolFull {
			full = true
			break
		}
	}
	assert.True(t, full)
}

func TestSubmitAfterShutdown(t *testing.T) {
	p := New(2)
	require.NoError(t, p.Shutdown(context.Background()))
	require.NoError(t, p.Shutdown(context.Background()))
	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolClosed)
}

func TestPanickingTaskDoesNotKillWorker(t *testing.T) {
	p := New(1)

	require.NoError(t, p.Submit(func() { panic("boom") }))
	done := make(chan struct{})
	require.Eventually(t, func() bool { return p.Submit(func() { close(done) }) == nil },
		time.Second, time.Millisecond)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive the panic")
	}
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestShutdownHonoursContext(t *testing.T) {
	p := New(1)
	block := make(chan struct{})
	require.NoError(t, p.Submit(func() { <-block }))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)
	close(block)
}
