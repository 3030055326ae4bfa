package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm/logger"
)

const slowQuery = 200 * time.Millisecond

// slogWriter feeds gorm's log lines into the default slog logger.
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...interface{}) {
	slog.Warn("gorm", "detail", fmt.Sprintf(format, args...))
}

// newQueryLogger reports failed and slow queries through slog. Expected
// misses (gorm.ErrRecordNotFound) are not logged.
func newQueryLogger() logger.Interface {
	return logger.New(slogWriter{}, logger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
