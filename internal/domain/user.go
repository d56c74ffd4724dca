package domain

import "time"

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                                   // Primary key
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`                    // Given name
	LastName     string    `gorm:"size:100;not null" json:"last_name"`                     // Family name
	Email        string    `gorm:"size:150;uniqueIndex;not null" json:"email"`             // Login identifier
	PasswordHash string    `gorm:"size:255;not null" json:"-"`                             // bcrypt hash, never serialized
	Role         Role      `gorm:"type:varchar(16);not null;default:CLIENT" json:"role"`   // CLIENT, VENDEUR or ADMIN
	CreatedAt    time.Time `json:"created_at"`                                             // Registration time
	Seller       *Seller   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // Optional seller profile
}

// FullName returns "first last"
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
