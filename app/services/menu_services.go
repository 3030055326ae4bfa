package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/neubistro/bistro/app/models"
	"github.com/neubistro/bistro/app/repositories"
	"github.com/neubistro/bistro/pkg/apperr"
	"github.com/neubistro/bistro/pkg/cache"
	"github.com/neubistro/bistro/pkg/event"
)

// MenuCacheKey names the cached list of available items. The stored key
// carries the cache generation, see cache.VersionedKey.
const MenuCacheKey = "menu:available"

// NewMenuItem is the input to MenuService.Create. Empty optional fields take
// the model defaults.
type NewMenuItem struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Category    string
	Image       string
}

type MenuService struct {
	menu     *repositories.MenuRepository
	cacheTTL time.Duration
}

func NewMenuService(menu *repositories.MenuRepository, cacheTTL time.Duration) *MenuService {
	return &MenuService{menu: menu, cacheTTL: cacheTTL}
}

// List returns the available items, served from cache when possible.
func (s *MenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	key := cache.VersionedKey(ctx, MenuCacheKey)
	items, err := cache.Remember(ctx, key, s.cacheTTL, func() ([]models.MenuItem, error) {
		return s.menu.ListAvailable(ctx)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list menu", err)
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	return items, nil
}

// Create adds an available item.
func (s *MenuService) Create(ctx context.Context, in NewMenuItem) (*models.MenuItem, error) {
	item := &models.MenuItem{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price.Round(2),
		Description: orDefault(in.Description, models.DefaultMenuDescription),
		Category:    orDefault(in.Category, models.DefaultMenuCategory),
		Image:       orDefault(in.Image, models.DefaultMenuImage),
		IsAvailable: true,
	}
	if item.Name == "" || !item.Price.IsPositive() {
		return nil, ErrInvalidInput
	}

	if err := s.menu.Create(ctx, item); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "create menu item", err)
	}

	event.Fire(ctx, EventMenuChanged, item.ID)
	return item, nil
}

// SoftDelete hides the item. An id that matches nothing is not an error.
func (s *MenuService) SoftDelete(ctx context.Context, id uint) error {
	found, err := s.menu.SetUnavailable(ctx, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "hide menu item", err)
	}
	if found {
		event.Fire(ctx, EventMenuChanged, id)
	}
	return nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
