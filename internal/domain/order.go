package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order Model
type Order struct {
	ID        uint            `gorm:"primaryKey" json:"id"`                                    // Primary key
	UserID    uint            `gorm:"index;not null" json:"user_id"`                           // Buyer
	Total     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`                // Sum of items at order time
	Status    OrderStatus     `gorm:"type:varchar(16);not null;default:PENDING" json:"status"` // Lifecycle state
	CreatedAt time.Time       `gorm:"index" json:"created_at"`                                 // Order time
	Items     []OrderItem     `gorm:"constraint:OnDelete:CASCADE;" json:"items"`               // Snapshot of purchased items
	Payment   *Payment        `gorm:"constraint:OnDelete:CASCADE;" json:"payment,omitempty"`   // Payment, once made
}

// OrderItem Model, immutable once written
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
}

// Subtotal returns unit price times quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
