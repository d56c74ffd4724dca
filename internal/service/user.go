package service

import (
	"context"
	"errors"
	"fmt"

	"drops_api/internal/domain"

	"gorm.io/gorm"
)

// UserService manages user accounts on behalf of admins
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// DeletedUser lists the products touched by a user deletion
type DeletedUser struct {
	ReviewedProducts []uint // Products whose average was recomputed
	OwnedProducts    []uint // Products removed with their seller
}

// ProductIDs returns every product whose cached view is now stale
func (d *DeletedUser) ProductIDs() []uint {
	return append(append([]uint{}, d.ReviewedProducts...), d.OwnedProducts...)
}

// Delete removes userID together with its cart, reviews, seller profile and
// products. Every product the user reviewed gets its average recomputed in
// the same transaction, with the product rows locked in ID order.
func (s *UserService) Delete(ctx context.Context, userID uint) (*DeletedUser, error) {
	out := &DeletedUser{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Select("id").First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
			}
			return err
		}
		if err := tx.Model(&domain.Product{}).Where("seller_id = ?", userID).
			Order("id").Pluck("id", &out.OwnedProducts).Error; err != nil {
			return err
		}
		var reviewed []uint
		if err := tx.Model(&domain.ProductReview{}).Distinct("product_id").
			Where("user_id = ?", userID).Order("product_id").Pluck("product_id", &reviewed).Error; err != nil {
			return err
		}
		owned := make(map[uint]bool, len(out.OwnedProducts))
		for _, id := range out.OwnedProducts {
			owned[id] = true
		}
		for _, id := range reviewed {
			if owned[id] { // Goes away with the user
				continue
			}
			if err := lockProduct(tx, id); err != nil {
				return err
			}
			out.ReviewedProducts = append(out.ReviewedProducts, id)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&domain.Cart{}).Error; err != nil { // Items cascade
			return err
		}
		if err := tx.Delete(&user).Error; err != nil { // Reviews, seller profile and products cascade
			return err
		}
		for _, id := range out.ReviewedProducts {
			if _, _, err := refreshAverageRating(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
