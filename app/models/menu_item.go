package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Defaults applied to menu items created without the optional fields.
const (
	DefaultMenuDescription = "Custom Item"
	DefaultMenuCategory    = "Custom"
	DefaultMenuImage       = "https://images.unsplash.com/photo-1546069901-ba9599a7e63c"
)

// MenuItem is a catalog entry. Rows are never removed; soft-delete clears
// IsAvailable.
type MenuItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string          `gorm:"size:1000" json:"description"`
	Category    string          `gorm:"size:100;index" json:"category"`
	Image       string          `gorm:"size:2048" json:"image"`
	IsAvailable bool            `gorm:"not null;index" json:"isAvailable"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}
