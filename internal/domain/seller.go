package domain

// SellerType distinguishes companies from individuals
type SellerType string

const (
	SellerCompany    SellerType = "COMPANY"
	SellerIndividual SellerType = "INDIVIDUAL"
)

// SellerStatus is the validation state of a seller profile
type SellerStatus string

const (
	SellerPending  SellerStatus = "PENDING"
	SellerApproved SellerStatus = "APPROVED"
	SellerRejected SellerStatus = "REJECTED"
)

// Valid reports whether t is a known seller type
func (t SellerType) Valid() bool {
	return t == SellerCompany || t == SellerIndividual
}

// Valid reports whether s is a known seller status
func (s SellerStatus) Valid() bool {
	switch s {
	case SellerPending, SellerApproved, SellerRejected:
		return true
	}
	return false
}

// Seller Model, a 1:1 extension of User
type Seller struct {
	UserID      uint         `gorm:"primaryKey;autoIncrement:false" json:"user_id"`           // Owning user, also the key
	ShopName    string       `gorm:"size:150;not null" json:"shop_name"`                      // Public shop name
	Description string       `gorm:"type:text" json:"description"`                            // Free text
	Type        SellerType   `gorm:"type:varchar(16);not null" json:"type"`                   // COMPANY or INDIVIDUAL
	Status      SellerStatus `gorm:"type:varchar(16);not null;default:PENDING" json:"status"` // Validation status
}
