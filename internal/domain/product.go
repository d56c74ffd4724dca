package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultAverageRating is the rating shown for products nobody reviewed yet
const DefaultAverageRating = 5.0

// Product Model
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`                                      // Primary key
	SellerID      uint            `gorm:"index;not null" json:"seller_id"`                           // Owning seller (User)
	CategoryID    *uint           `gorm:"index" json:"category_id"`                                  // Optional category
	Name          string          `gorm:"size:150;not null" json:"name"`                             // Display name
	Description   string          `gorm:"type:text" json:"description"`                              // Free text
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`                  // Unit price
	Stock         int             `gorm:"not null;default:0" json:"stock"`                           // Units available
	Image         string          `gorm:"size:255" json:"image"`                                     // Storage-relative path or external URL
	AverageRating float64         `gorm:"not null;default:5" json:"average_rating"`                  // Denormalized mean of reviews
	CreatedAt     time.Time       `json:"created_at"`                                                // Creation time
	Seller        User            `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE;" json:"-"` // Owner
	Category      *Category       `gorm:"foreignKey:CategoryID" json:"-"`                            // Category, if any
	Reviews       []ProductReview `gorm:"constraint:OnDelete:CASCADE;" json:"-"`                     // Reviews
}
