package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how an order was paid
type PaymentMethod string

const (
	PaymentCard        PaymentMethod = "CARD"
	PaymentMobileMoney PaymentMethod = "MOBILE_MONEY"
	PaymentPaypal      PaymentMethod = "PAYPAL"
	PaymentOther       PaymentMethod = "OTHER"
)

// Valid reports whether m is a known payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentMobileMoney, PaymentPaypal, PaymentOther:
		return true
	}
	return false
}

// PaymentStatus is the outcome of a payment
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentSuccess  PaymentStatus = "SUCCESS"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED" // Order cancelled after payment
)

// Payment Model, 1:1 with Order
type Payment struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	OrderID uint            `gorm:"uniqueIndex;not null" json:"order_id"`
	Method  PaymentMethod   `gorm:"type:varchar(16);not null;default:CARD" json:"method"`
	Amount  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status  PaymentStatus   `gorm:"type:varchar(16);not null;default:PENDING" json:"status"`
	PaidAt  time.Time       `gorm:"index" json:"paid_at"`
}
