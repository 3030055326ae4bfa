package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/neubistro/bistro/app/models"
)

type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// ListAvailable returns every orderable item in id order.
func (r *MenuRepository) ListAvailable(ctx context.Context) ([]models.MenuItem, error) {
	items := make([]models.MenuItem, 0)
	err := r.db.WithContext(ctx).
		Where("is_available = ?", true).
		Order("id ASC").
		Find(&items).Error
	return items, translate("list menu", err)
}

// FindAvailable returns the item only if it exists and is orderable.
func (r *MenuRepository) FindAvailable(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_available = ?", id, true).
		First(&item).Error
	if err != nil {
		return nil, translate("find menu item", err)
	}
	return &item, nil
}

func (r *MenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	return translate("create menu item", r.db.WithContext(ctx).Create(item).Error)
}

// SetUnavailable hides the item. It reports whether a row matched.
func (r *MenuRepository) SetUnavailable(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ?", id).
		Update("is_available", false)
	return res.RowsAffected > 0, translate("hide menu item", res.Error)
}

// Count returns the number of rows regardless of availability.
func (r *MenuRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.MenuItem{}).Count(&n).Error
	return n, translate("count menu", err)
}

// CreateBatch inserts items in one statement.
func (r *MenuRepository) CreateBatch(ctx context.Context, items []models.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	return translate("seed menu", r.db.WithContext(ctx).Create(&items).Error)
}
