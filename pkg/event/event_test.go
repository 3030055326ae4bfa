package event_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/neubistro/bistro/pkg/event"
	"github.com/neubistro/bistro/pkg/workerpool"
)

func TestFireInRegistrationOrder(t *testing.T) {
	event.Flush()
	t.Cleanup(event.Flush)

	var got []string
	event.Listen("order.completed", func(_ context.Context, p interface{}) {
		got = append(got, "first:"+p.(string))
	})
	event.Listen("order.completed", func(_ context.Context, p interface{}) {
		got = append(got, "second:"+p.(string))
	})

	event.Fire(context.Background(), "order.completed", "42")

	assert.Equal(t, []string{"first:42", "second:42"}, got)
	assert.True(t, event.Has("order.completed"))
	assert.False(t, event.Has("menu.changed"))
}

func TestPanickingListenerDoesNotStopOthers(t *testing.T) {
	event.Flush()
	t.Cleanup(event.Flush)

	reached := false
	event.Listen("menu.changed", func(context.Context, interface{}) { panic("nope") })
	event.Listen("menu.changed", func(context.Context, interface{}) { reached = true })

	assert.NotPanics(t, func() {
		event.Fire(context.Background(), "menu.changed", nil)
	})
	assert.True(t, reached)
}

func TestFireWithoutListeners(t *testing.T) {
	event.Flush()
	assert.NotPanics(t, func() {
		event.Fire(context.Background(), "nothing", nil)
	})
}

func TestDispatchWithoutPoolIsSynchronous(t *testing.T) {
	event.Flush()
	t.Cleanup(event.Flush)

	var got interface{}
	event.Listen("menu.changed", func(_ context.Context, p interface{}) { got = p })

	event.Dispatch(context.Background(), "menu.changed", 3)
	assert.Equal(t, 3, got)
}

func TestDispatchOnPoolSurvivesCancelledRequest(t *testing.T) {
	event.Flush()
	pool := workerpool.New(2)
	event.SetPool(pool)
	t.Cleanup(func() {
		event.SetPool(nil)
		_ = pool.Shutdown(context.Background())
		event.Flush()
	})

	errs := make(chan error, 1)
	event.Listen("order.completed", func(ctx context.Context, _ interface{}) { errs <- ctx.Err() })

	ctx, cancel := context.WithCancel(context.Background())
	event.Dispatch(ctx, "order.completed", nil)
	cancel()

	select {
	case err := <-errs:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("listener never ran")
	}
}
