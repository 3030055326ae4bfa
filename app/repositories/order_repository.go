package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/neubistro/bistro/app/models"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Transaction runs fn against a repository bound to a single transaction.
// A non-nil error from fn rolls everything back.
func (r *OrderRepository) Transaction(ctx context.Context, fn func(tx *OrderRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&OrderRepository{db: tx})
	})
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_line_items.id ASC") }).
		Preload("Items.MenuItem")
}

// FindDraft returns the user's open cart with its line items.
func (r *OrderRepository) FindDraft(ctx context.Context, userID uint) (*models.Order, error) {
	var o models.Order
	err := withItems(r.db.WithContext(ctx)).
		Where("draft_owner_id = ?", userID).
		First(&o).Error
	if err != nil {
		return nil, translate("find draft", err)
	}
	return &o, nil
}

// CreateDraft inserts an empty cart for userID unless one already exists.
// The unique index on draft_owner_id turns a concurrent second insert into a
// no-op, so callers always re-read with FindDraft.
func (r *OrderRepository) CreateDraft(ctx context.Context, userID uint) error {
	owner := userID
	o := models.Order{
		UserID:       userID,
		DraftOwnerID: &owner,
		Status:       models.StatusDraft,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "draft_owner_id"}},
			DoNothing: true,
		}).
		Create(&o).Error
	return translate("create draft", err)
}

// GetOrCreateDraft returns the user's cart, creating it on first use.
func (r *OrderRepository) GetOrCreateDraft(ctx context.Context, userID uint) (*models.Order, error) {
	o, err := r.FindDraft(ctx, userID)
	if !errors.Is(err, ErrNotFound) {
		return o, err
	}
	if err := r.CreateDraft(ctx, userID); err != nil && !errors.Is(err, ErrDuplicate) {
		return nil, err
	}
	return r.FindDraft(ctx, userID)
}

// FindWithItems loads an order by id with line items and their menu items.
func (r *OrderRepository) FindWithItems(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := withItems(r.db.WithContext(ctx)).First(&o, id).Error; err != nil {
		return nil, translate("find order", err)
	}
	return &o, nil
}

// ClaimDraft bumps the order's revision if it is still a draft, taking its
// row lock until the surrounding transaction ends. Cart writes and checkout
// both claim first, so they serialise on the order row.
func (r *OrderRepository) ClaimDraft(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.StatusDraft).
		Update("revision", gorm.Expr("revision + 1"))
	return res.RowsAffected == 1, translate("claim draft", res.Error)
}

// UpsertLineItem adds qty of menuItemID to the draft in one statement. An
// existing line has its quantity incremented and keeps its original price.
// It returns ErrNotDraft if the order was completed in the meantime.
func (r *OrderRepository) UpsertLineItem(ctx context.Context, orderID, menuItemID uint, qty int, price decimal.Decimal) error {
	return r.Transaction(ctx, func(tx *OrderRepository) error {
		ok, err := tx.ClaimDraft(ctx, orderID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotDraft
		}

		line := models.OrderLineItem{
			OrderID:    orderID,
			MenuItemID: menuItemID,
			Quantity:   qty,
			Price:      price,
		}
		err = tx.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "order_id"}, {Name: "menu_item_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"quantity": gorm.Expr("order_line_items.quantity + ?", qty),
				}),
			}).
			Create(&line).Error
		return translate("upsert line item", err)
	})
}

// DeleteLineItem removes the line with the given id. Missing ids are not an
// error.
//
// TODO: restrict to lines of the caller's own draft; today any signed-in user
// can remove any line by id.
func (r *OrderRepository) DeleteLineItem(ctx context.Context, id uint) error {
	return translate("delete line item", r.db.WithContext(ctx).Delete(&models.OrderLineItem{}, id).Error)
}

// MarkCompleted moves a draft to COMPLETED, stamping total and time and
// releasing the draft slot. It reports false if the order was no longer a
// draft.
func (r *OrderRepository) MarkCompleted(ctx context.Context, id uint, total decimal.Decimal, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.StatusDraft).
		Updates(map[string]interface{}{
			"status":         models.StatusCompleted,
			"total_amount":   decimal.NewNullDecimal(total),
			"created_at":     at,
			"draft_owner_id": nil,
		})
	return res.RowsAffected == 1, translate("complete order", res.Error)
}

// ListCompleted returns the user's non-draft orders, newest first.
func (r *OrderRepository) ListCompleted(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	err := withItems(r.db.WithContext(ctx)).
		Where("user_id = ? AND status <> ?", userID, models.StatusDraft).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error
	return orders, translate("list orders", err)
}
