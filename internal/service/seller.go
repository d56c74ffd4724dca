package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"drops_api/internal/domain"

	"gorm.io/gorm"
)

// SellerService handles seller applications and their review by admins
type SellerService struct {
	db *gorm.DB
}

// NewSellerService creates a SellerService
func NewSellerService(db *gorm.DB) *SellerService {
	return &SellerService{db: db}
}

// Apply creates a pending seller profile for userID
func (s *SellerService) Apply(ctx context.Context, userID uint, shopName, description string, typ domain.SellerType) (*domain.Seller, error) {
	if strings.TrimSpace(shopName) == "" {
		return nil, fmt.Errorf("%w: shop name is required", domain.ErrValidation)
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: invalid seller type %q", domain.ErrValidation, typ)
	}
	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&domain.Seller{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 { // One profile per user
		return nil, fmt.Errorf("%w: seller profile already exists", domain.ErrConflict)
	}
	seller := domain.Seller{UserID: userID, ShopName: strings.TrimSpace(shopName), Description: description, Type: typ, Status: domain.SellerPending}
	if err := db.Create(&seller).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}

// SetStatus records an admin decision. Approval promotes the user to VENDEUR,
// rejection of an approved seller demotes a VENDEUR back to CLIENT.
func (s *SellerService) SetStatus(ctx context.Context, userID uint, status domain.SellerStatus) (*domain.Seller, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid seller status %q", domain.ErrValidation, status)
	}
	var seller domain.Seller
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&seller, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: seller %d", domain.ErrNotFound, userID)
			}
			return err
		}
		if err := tx.Model(&seller).Update("status", status).Error; err != nil {
			return err
		}
		seller.Status = status
		switch status {
		case domain.SellerApproved: // Admins keep their role
			return tx.Model(&domain.User{}).Where("id = ? AND role = ?", userID, domain.RoleClient).
				Update("role", domain.RoleVendeur).Error
		case domain.SellerRejected:
			return tx.Model(&domain.User{}).Where("id = ? AND role = ?", userID, domain.RoleVendeur).
				Update("role", domain.RoleClient).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &seller, nil
}
