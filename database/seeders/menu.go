package seeders

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/neubistro/bistro/app/models"
	"github.com/neubistro/bistro/app/repositories"
	"github.com/neubistro/bistro/pkg/logger"
)

func init() {
	Register("menu", SeedMenu)
}

// StarterMenu is the catalog a fresh install opens with.
func StarterMenu() []models.MenuItem {
	item := func(name, price, desc, category, image string) models.MenuItem {
		return models.MenuItem{
			Name:        name,
			Price:       decimal.RequireFromString(price),
			Description: desc,
			Category:    category,
			Image:       image,
			IsAvailable: true,
		}
	}
	return []models.MenuItem{
		item("Classic Cheeseburger", "12.99",
			"Juicy beef patty, cheddar, lettuce, tomato, house sauce.",
			"Burgers", "https://images.unsplash.com/photo-1568901346375-23c9450c58cd"),
		item("Spicy Pepperoni Pizza", "15.50",
			"Crispy crust, spicy pepperoni, mozzarella, chili flakes.",
			"Pizza", "https://images.unsplash.com/photo-1628840042765-356cda07504e"),
		item("Truffle Mushroom Pasta", "18.00",
			"Creamy truffle sauce, wild mushrooms, parmesan.",
			"Pasta", "https://images.unsplash.com/photo-1626844131082-256783844137"),
		item("Sushi Platter", "24.00",
			"Assorted nigiri and maki rolls, fresh fish.",
			"Japanese", "https://images.unsplash.com/photo-1579871494447-9811cf80d66c"),
		item("Caesar Salad", "10.50",
			"Romaine hearts, croutons, parmesan, caesar dressing.",
			"Salads", "https://images.unsplash.com/photo-1550304943-4f24f54ddde9"),
		item("Double Espresso", "3.50",
			"Rich and strong double shot coffee.",
			"Drinks", "https://images.unsplash.com/photo-1510591509098-f4fdc6d0ff04"),
	}
}

// SeedMenu inserts the starter menu into an empty catalog. A catalog with any
// rows, hidden ones included, is left alone.
func SeedMenu(ctx context.Context, db *gorm.DB) error {
	repo := repositories.NewMenuRepository(db)

	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("menu seed skipped", "existing", n)
		return nil
	}

	items := StarterMenu()
	if err := repo.CreateBatch(ctx, items); err != nil {
		return err
	}
	logger.Info("menu seeded", "count", len(items))
	return nil
}
