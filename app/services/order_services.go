package services

import (
	"context"
	"errors"
	"time"

	"github.com/neubistro/bistro/app/models"
	"github.com/neubistro/bistro/app/repositories"
	"github.com/neubistro/bistro/pkg/apperr"
	"github.com/neubistro/bistro/pkg/event"
	"github.com/neubistro/bistro/pkg/logger"
	"github.com/neubistro/bistro/pkg/metrics"
)

type OrderService struct {
	orders *repositories.OrderRepository
	menu   *repositories.MenuRepository
	now    func() time.Time
}

func NewOrderService(orders *repositories.OrderRepository, menu *repositories.MenuRepository) *OrderService {
	return &OrderService{
		orders: orders,
		menu:   menu,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// GetOrCreateDraft returns the user's cart with Subtotal filled in.
func (s *OrderService) GetOrCreateDraft(ctx context.Context, userID uint) (*models.Order, error) {
	o, err := s.orders.GetOrCreateDraft(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load cart", err)
	}
	sub := o.Sum()
	o.Subtotal = &sub
	return o, nil
}

// AddItem puts quantity units of menuItemID in the user's cart at the
// current catalog price. Repeat adds merge into the existing line.
func (s *OrderService) AddItem(ctx context.Context, userID, menuItemID uint, quantity int) error {
	if menuItemID == 0 || quantity <= 0 {
		return ErrInvalidInput
	}

	item, err := s.menu.FindAvailable(ctx, menuItemID)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrItemNotFound
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "find menu item", err)
	}

	// A checkout that lands between loading the draft and writing the line
	// completes that draft; the second attempt goes to the fresh one.
	for attempt := 0; attempt < 2; attempt++ {
		draft, err := s.orders.GetOrCreateDraft(ctx, userID)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "load cart", err)
		}

		err = s.orders.UpsertLineItem(ctx, draft.ID, item.ID, quantity, item.Price)
		if errors.Is(err, repositories.ErrNotDraft) {
			continue
		}
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "add line item", err)
		}

		metrics.CartItemsAdded.Add(float64(quantity))
		return nil
	}
	return ErrCartChanged
}

// RemoveItem deletes a cart line by id.
func (s *OrderService) RemoveItem(ctx context.Context, userID, lineItemID uint) error {
	if err := s.orders.DeleteLineItem(ctx, lineItemID); err != nil {
		return apperr.Wrap(apperr.KindInternal, "remove line item", err)
	}
	logger.WithCtx(ctx).Debug("cart line removed", "user_id", userID, "line_id", lineItemID)
	return nil
}

// Checkout completes the user's cart. The claim on the draft row, the read of
// the lines and the status flip share one transaction, so no line can be
// added between the total being computed and the order being completed.
func (s *OrderService) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	draft, err := s.orders.GetOrCreateDraft(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "load cart", err)
	}

	var placed *models.Order
	err = s.orders.Transaction(ctx, func(tx *repositories.OrderRepository) error {
		claimed, err := tx.ClaimDraft(ctx, draft.ID)
		if err != nil {
			return err
		}
		if !claimed {
			return ErrCartChanged
		}

		o, err := tx.FindWithItems(ctx, draft.ID)
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCartChanged
		}
		if err != nil {
			return err
		}
		if !o.IsDraft() {
			return ErrCartChanged
		}
		if len(o.Items) == 0 {
			return ErrEmptyCart
		}

		ok, err := tx.MarkCompleted(ctx, o.ID, o.Sum(), s.now())
		if err != nil {
			return err
		}
		if !ok {
			return ErrCartChanged
		}

		placed, err = tx.FindWithItems(ctx, o.ID)
		return err
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.KindInternal, "checkout", err)
	}

	event.Dispatch(ctx, EventOrderCompleted, placed)
	return placed, nil
}

// ListCompleted returns the user's past orders, newest first.
func (s *OrderService) ListCompleted(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.orders.ListCompleted(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list orders", err)
	}
	return orders, nil
}
