package domain

import "time"

// Cart Model, one per user
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []CartItem `gorm:"constraint:OnDelete:CASCADE;" json:"items"`
}

// CartItem Model
type CartItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CartID    uint    `gorm:"uniqueIndex:idx_cart_product;not null" json:"cart_id"`
	ProductID uint    `gorm:"uniqueIndex:idx_cart_product;not null" json:"product_id"`
	Quantity  int     `gorm:"not null;default:1" json:"quantity"` // Always positive
	Product   Product `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
