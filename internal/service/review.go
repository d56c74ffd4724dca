package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"drops_api/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewService writes reviews and keeps Product.AverageRating in step with them
type ReviewService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewReviewService creates a ReviewService
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db, now: time.Now}
}

// ReviewResult is the outcome of an upsert
type ReviewResult struct {
	Review        domain.ProductReview
	AverageRating float64
	ReviewCount   int64
	Created       bool
}

// ReviewSummary lists a product's reviews with its aggregate rating
type ReviewSummary struct {
	ProductName   string                 `json:"product"`
	AverageRating float64                `json:"average_rating"`
	ReviewCount   int                    `json:"review_count"`
	Reviews       []domain.ProductReview `json:"reviews"`
}

// Upsert creates or overwrites the review userID left on productID and
// recomputes the product average in the same transaction. The product row
// is locked first so concurrent writers on one product run one at a time.
func (s *ReviewService) Upsert(ctx context.Context, userID, productID uint, rating int, comment string) (*ReviewResult, error) {
	if !domain.ValidRating(rating) {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", domain.ErrValidation, domain.MinRating, domain.MaxRating)
	}
	res := &ReviewResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProduct(tx, productID); err != nil { // Serialize writers on this product
			return err
		}
		var review domain.ProductReview // Existing review, if any
		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&review).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			review = domain.ProductReview{UserID: userID, ProductID: productID, Rating: rating, Comment: comment, ReviewedAt: s.now()}
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
			res.Created = true // First review by this user
		case err != nil:
			return err
		default:
			review.Rating = rating // Overwrite in place
			review.Comment = comment
			review.ReviewedAt = s.now()
			if err := tx.Model(&review).Select("rating", "comment", "reviewed_at").Updates(&review).Error; err != nil {
				return err
			}
		}
		avg, count, err := refreshAverageRating(tx, productID) // Same transaction as the write
		if err != nil {
			return err
		}
		res.Review, res.AverageRating, res.ReviewCount = review, avg, count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Delete removes a review and recomputes the product average. It returns
// the reviewed product and its new average.
func (s *ReviewService) Delete(ctx context.Context, reviewID uint) (uint, float64, error) {
	var (
		productID uint
		avg       float64
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review domain.ProductReview
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: review %d", domain.ErrNotFound, reviewID)
			}
			return err
		}
		productID = review.ProductID
		if err := lockProduct(tx, productID); err != nil {
			return err
		}
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		var err error
		avg, _, err = refreshAverageRating(tx, productID)
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	return productID, avg, nil
}

// ListForProduct returns every review of productID, newest first
func (s *ReviewService) ListForProduct(ctx context.Context, productID uint) (*ReviewSummary, error) {
	db := s.db.WithContext(ctx)
	var product domain.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, productID)
		}
		return nil, err
	}
	var reviews []domain.ProductReview
	if err := db.Where("product_id = ?", productID).Order("reviewed_at desc").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return &ReviewSummary{
		ProductName:   product.Name,
		AverageRating: product.AverageRating,
		ReviewCount:   len(reviews),
		Reviews:       reviews,
	}, nil
}

func lockProduct(tx *gorm.DB, productID uint) error {
	var product domain.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, productID)
	}
	return err
}

// refreshAverageRating recomputes and stores the mean rating of productID
func refreshAverageRating(tx *gorm.DB, productID uint) (float64, int64, error) {
	var agg struct {
		Avg   sql.NullFloat64
		Count int64
	}
	if err := tx.Model(&domain.ProductReview{}).
		Select("AVG(rating) AS avg, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&agg).Error; err != nil {
		return 0, 0, err
	}
	avg := domain.DefaultAverageRating // No reviews left
	if agg.Count > 0 && agg.Avg.Valid {
		avg = math.Round(agg.Avg.Float64*100) / 100 // Two decimals
	}
	if err := tx.Model(&domain.Product{}).Where("id = ?", productID).Update("average_rating", avg).Error; err != nil {
		return 0, 0, err
	}
	return avg, agg.Count, nil
}
