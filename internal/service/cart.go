package service

import (
	"context"
	"errors"
	"fmt"

	"drops_api/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartService manages the single active cart of each user
type CartService struct {
	db *gorm.DB
}

// NewCartService creates a CartService
func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// Add puts one unit of productID in the user's cart, creating the cart if needed
func (s *CartService) Add(ctx context.Context, userID, productID uint) (*domain.CartItem, error) {
	var item domain.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&domain.Product{}, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %d", domain.ErrNotFound, productID)
			}
			return err
		}
		cart := domain.Cart{UserID: userID}
		if err := tx.Where(domain.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil { // One cart per user
			return err
		}
		err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = domain.CartItem{CartID: cart.ID, ProductID: productID, Quantity: 1} // New line
			return tx.Create(&item).Error
		} else if err != nil {
			return err
		}
		if err := tx.Model(&item).Update("quantity", gorm.Expr("quantity + ?", 1)).Error; err != nil { // Already there, bump it
			return err
		}
		return tx.First(&item, item.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Get returns the user's cart with products loaded; a user without a cart gets an empty one
func (s *CartService) Get(ctx context.Context, userID uint) (*domain.Cart, error) {
	var cart domain.Cart
	err := s.db.WithContext(ctx).Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil // Not created until the first add
	} else if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Remove deletes productID from the user's cart
func (s *CartService) Remove(ctx context.Context, userID, productID uint) error {
	db := s.db.WithContext(ctx)
	var cart domain.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: cart", domain.ErrNotFound)
		}
		return err
	}
	res := db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&domain.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d not in cart", domain.ErrNotFound, productID)
	}
	return nil
}

// CartTotal sums price times quantity over the cart's items
func CartTotal(cart *domain.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, it := range cart.Items {
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
