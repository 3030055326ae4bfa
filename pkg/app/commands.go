package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/neubistro/bistro/config"
	"github.com/neubistro/bistro/pkg/cache"
	"github.com/neubistro/bistro/pkg/database"
	"github.com/neubistro/bistro/pkg/event"
	"github.com/neubistro/bistro/pkg/logger"
	"github.com/neubistro/bistro/pkg/workerpool"
)

// eventWorkers is the size of the pool background listeners run on.
const eventWorkers = 4

var events *workerpool.Pool

// Boot loads configuration and opens the database. With serving set it also
// connects Redis, where a failure is logged and the cache stays disabled, and
// starts the event worker pool.
func Boot(ctx context.Context, serving bool) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Setup(config.AppEnv(), os.Stdout)

	if err := database.Connect(ctx); err != nil {
		return err
	}

	if serving {
		if err := cache.Connect(ctx); err != nil {
			logger.Warn("redis unavailable, cache disabled", "addr", config.RedisAddr(), "error", err)
		}
		events = workerpool.New(eventWorkers)
		event.SetPool(events)
	}
	return nil
}

// Shutdown closes what Boot opened. Queued event deliveries get a few
// seconds to finish.
func Shutdown() {
	if events != nil {
		event.SetPool(nil)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := events.Shutdown(ctx); err != nil {
			logger.Warn("event pool drain", "error", err)
		}
		cancel()
		events = nil
	}
	if err := cache.Close(); err != nil {
		logger.Warn("redis close", "error", err)
	}
	if err := database.Close(); err != nil {
		logger.Warn("database close", "error", err)
	}
}
