package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"drops_api/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderLine is one requested product and quantity
type OrderLine struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// OrderService places, pays and advances orders
type OrderService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewOrderService creates an OrderService
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, now: time.Now}
}

// Place creates an order for userID. With no lines the user's cart is
// checked out and emptied. Prices are copied from the products and stock
// is reserved in the same transaction.
func (s *OrderService) Place(ctx context.Context, userID uint, lines []OrderLine) (*domain.Order, error) {
	var order domain.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fromCart := len(lines) == 0 // No explicit lines means checkout
		var cart domain.Cart
		if fromCart {
			err := tx.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			for _, it := range cart.Items {
				lines = append(lines, OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
			}
			if len(lines) == 0 {
				return fmt.Errorf("%w: cart is empty", domain.ErrValidation)
			}
		}
		merged, err := mergeLines(lines) // One line per product, sorted by ID
		if err != nil {
			return err
		}

		order = domain.Order{UserID: userID, Status: domain.OrderPending, Total: decimal.Zero, CreatedAt: s.now()}
		for _, l := range merged {
			var product domain.Product
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, l.ProductID).Error // Lock before checking stock
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %d", domain.ErrNotFound, l.ProductID)
			} else if err != nil {
				return err
			}
			if product.Stock < l.Quantity {
				return fmt.Errorf("%w: insufficient stock for product %d", domain.ErrValidation, l.ProductID)
			}
			if err := tx.Model(&product).Update("stock", gorm.Expr("stock - ?", l.Quantity)).Error; err != nil {
				return err
			}
			item := domain.OrderItem{ProductID: product.ID, Quantity: l.Quantity, UnitPrice: product.Price} // Price snapshot
			order.Items = append(order.Items, item)
			order.Total = order.Total.Add(item.Subtotal())
		}
		if err := tx.Create(&order).Error; err != nil { // Items are created with the order
			return err
		}
		if fromCart {
			return tx.Where("cart_id = ?", cart.ID).Delete(&domain.CartItem{}).Error // Empty the cart
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns the principal's orders, or every order for an admin
func (s *OrderService) List(ctx context.Context, principal *domain.User) ([]domain.Order, error) {
	q := s.db.WithContext(ctx).Preload("Items").Preload("Payment").Order("created_at desc")
	if principal.Role != domain.RoleAdmin {
		q = q.Where("user_id = ?", principal.ID) // Non-admins see their own orders
	}
	var orders []domain.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Pay records a successful payment of the order total and marks the order paid
func (s *OrderService) Pay(ctx context.Context, userID, orderID uint, method domain.PaymentMethod) (*domain.Payment, error) {
	if method == "" {
		method = domain.PaymentCard // Default method
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: invalid payment method %q", domain.ErrValidation, method)
	}
	var payment domain.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order domain.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
		} else if err != nil {
			return err
		}
		if order.Status != domain.OrderPending { // Only pending orders can be paid
			return fmt.Errorf("%w: order %d is %s", domain.ErrValidation, orderID, order.Status)
		}
		payment = domain.Payment{
			OrderID: order.ID,
			Method:  method,
			Amount:  order.Total,
			Status:  domain.PaymentSuccess,
			PaidAt:  s.now(),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&order).Update("status", domain.OrderPaid).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// orderTransitions lists the moves an admin may make. PAID is reached only
// through Pay, so every paid order has its payment row.
var orderTransitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderPending: {domain.OrderCancelled},
	domain.OrderPaid:    {domain.OrderDelivered, domain.OrderCancelled},
}

// UpdateStatus moves an order to status. Cancelling returns its items to
// stock and refunds the payment of a paid order.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid order status %q", domain.ErrValidation, status)
	}
	var order domain.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Items").Preload("Payment").First(&order, orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
		} else if err != nil {
			return err
		}
		if !canTransition(order.Status, status) {
			return fmt.Errorf("%w: cannot move order from %s to %s", domain.ErrValidation, order.Status, status)
		}
		if status == domain.OrderCancelled {
			for _, it := range order.Items { // Release reserved stock
				if err := tx.Model(&domain.Product{}).Where("id = ?", it.ProductID).
					Update("stock", gorm.Expr("stock + ?", it.Quantity)).Error; err != nil {
					return err
				}
			}
			if order.Payment != nil && order.Payment.Status == domain.PaymentSuccess {
				if err := tx.Model(order.Payment).Update("status", domain.PaymentRefunded).Error; err != nil {
					return err
				}
				order.Payment.Status = domain.PaymentRefunded // Drops out of revenue
			}
		}
		order.Status = status
		return tx.Model(&order).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ProductIDs returns the distinct products an order touches
func ProductIDs(order *domain.Order) []uint {
	seen := make(map[uint]bool, len(order.Items))
	ids := make([]uint, 0, len(order.Items))
	for _, it := range order.Items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	return ids
}

func canTransition(from, to domain.OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// mergeLines folds repeated products together and orders lines by product
// ID so concurrent orders lock product rows in the same order.
func mergeLines(lines []OrderLine) ([]OrderLine, error) {
	qty := make(map[uint]int, len(lines))
	for _, l := range lines {
		if l.ProductID == 0 || l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: each item needs a product and a positive quantity", domain.ErrValidation)
		}
		qty[l.ProductID] += l.Quantity
	}
	merged := make([]OrderLine, 0, len(qty))
	for id, q := range qty {
		merged = append(merged, OrderLine{ProductID: id, Quantity: q})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged, nil
}
