package domain

// Category Model
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"size:255" json:"image"`
	Products    []Product `gorm:"constraint:OnDelete:SET NULL;" json:"-"` // Products keep existing without a category
}
