package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusDraft     OrderStatus = "DRAFT"
	StatusCompleted OrderStatus = "COMPLETED"
)

// Order doubles as the user's cart while DRAFT.
//
// DraftOwnerID equals UserID while the order is a draft and is NULL once it
// is completed. Its unique index is what guarantees a single draft per user.
type Order struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	UserID       uint                `gorm:"not null;index" json:"userId"`
	DraftOwnerID *uint               `gorm:"uniqueIndex" json:"-"`
	Status       OrderStatus         `gorm:"size:20;not null;index" json:"status"`
	TotalAmount  decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"totalAmount"`
	Revision     uint                `gorm:"not null;default:0" json:"-"` // bumped by every cart write
	CreatedAt    *time.Time          `gorm:"autoCreateTime:false;index" json:"createdAt"` // stamped at checkout
	UpdatedAt    time.Time           `json:"-"`
	Items        []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"orderItems"`

	// Subtotal is computed for cart responses and never stored.
	Subtotal *decimal.Decimal `gorm:"-" json:"subtotal,omitempty"`
}

// IsDraft reports whether the order is still an open cart.
func (o *Order) IsDraft() bool { return o.Status == StatusDraft }

// Sum returns Σ price × quantity over the line items.
func (o *Order) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// OrderLineItem is one (menu item, quantity) row of an order. Price is the
// catalog price captured when the item was first added.
type OrderLineItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    uint            `gorm:"not null;uniqueIndex:idx_line_order_menu" json:"orderId"`
	MenuItemID uint            `gorm:"not null;uniqueIndex:idx_line_order_menu;index" json:"menuItemId"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	MenuItem   *MenuItem       `gorm:"foreignKey:MenuItemID" json:"menuItem,omitempty"`
}

// LineTotal is Price × Quantity.
func (li OrderLineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
