package migrations

import (
	"gorm.io/gorm"

	"github.com/neubistro/bistro/app/models"
	"github.com/neubistro/bistro/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260301000001_create_menu_items_table", &CreateMenuItemsTable{})
	migration.Register("20260301000002_create_orders_table", &CreateOrdersTable{})
	migration.Register("20260301000003_create_order_line_items_table", &CreateOrderLineItemsTable{})
	migration.Register("20260415000000_add_revision_to_orders", &AddRevisionToOrders{})
}

// -------- users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.User{})
}

// -------- menu_items --------

type CreateMenuItemsTable struct{}

func (m *CreateMenuItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.MenuItem{})
}

func (m *CreateMenuItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.MenuItem{})
}

// -------- orders --------

// The unique index on draft_owner_id allows many NULLs (completed orders) on
// sqlite, postgres and mysql.
type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Order{})
}

// -------- order_line_items --------

type CreateOrderLineItemsTable struct{}

func (m *CreateOrderLineItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.OrderLineItem{})
}

func (m *CreateOrderLineItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.OrderLineItem{})
}

// -------- orders.revision --------

// Databases created after the column joined the model already have it.
type AddRevisionToOrders struct{}

func (m *AddRevisionToOrders) Up(db *gorm.DB) error {
	if db.Migrator().HasColumn(&models.Order{}, "Revision") {
		return nil
	}
	return db.Migrator().AddColumn(&models.Order{}, "Revision")
}

func (m *AddRevisionToOrders) Down(db *gorm.DB) error {
	return db.Migrator().DropColumn(&models.Order{}, "Revision")
}
