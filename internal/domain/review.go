package domain

import "time"

// Rating bounds accepted for a review
const (
	MinRating = 1
	MaxRating = 5
)

// ProductReview Model, at most one per (user, product)
type ProductReview struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex:idx_review_user_product;not null" json:"user_id"`
	ProductID  uint      `gorm:"uniqueIndex:idx_review_user_product;index;not null" json:"product_id"`
	Rating     int       `gorm:"not null;default:5" json:"rating"` // 1..5
	Comment    string    `gorm:"type:text" json:"comment"`
	ReviewedAt time.Time `json:"reviewed_at"`
	User       User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// ValidRating reports whether r lies within the accepted bounds
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
