// Package listeners reacts to domain events fired by the services.
package listeners

import (
	"context"

	"github.com/neubistro/bistro/app/models"
	"github.com/neubistro/bistro/app/services"
	"github.com/neubistro/bistro/pkg/cache"
	"github.com/neubistro/bistro/pkg/event"
	"github.com/neubistro/bistro/pkg/logger"
	"github.com/neubistro/bistro/pkg/metrics"
)

// Register attaches every listener. Call it once at boot.
func Register() {
	event.Listen(services.EventMenuChanged, ForgetMenuCache)
	event.Listen(services.EventOrderCompleted, RecordCompletedOrder)
}

// ForgetMenuCache retires the cached menu listing by bumping its generation.
func ForgetMenuCache(ctx context.Context, _ interface{}) {
	if err := cache.Bump(ctx, services.MenuCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("menu cache invalidation failed", "error", err)
	}
}

// RecordCompletedOrder feeds the order metrics and logs the placement.
func RecordCompletedOrder(ctx context.Context, payload interface{}) {
	o, ok := payload.(*models.Order)
	if !ok || o == nil {
		return
	}

	metrics.OrdersCompleted.Inc()
	total := o.TotalAmount.Decimal.InexactFloat64()
	metrics.OrderValue.Observe(total)

	logger.WithCtx(ctx).Info("order placed",
		"order_id", o.ID,
		"user_id", o.UserID,
		"items", len(o.Items),
		"total", o.TotalAmount.Decimal.StringFixed(2),
	)
}
