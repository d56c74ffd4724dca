package domain

import "fmt"

// Role is the closed set of user roles
type Role string

const (
	RoleClient  Role = "CLIENT"  // Customer, may buy and review
	RoleVendeur Role = "VENDEUR" // Seller, manages own products
	RoleAdmin   Role = "ADMIN"   // Back-office administrator
)

// Roles returns every known role
func Roles() []Role {
	return []Role{RoleClient, RoleVendeur, RoleAdmin}
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleVendeur, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole converts a case-sensitive role string into a Role
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: invalid role %q", ErrValidation, s)
	}
	return r, nil
}
