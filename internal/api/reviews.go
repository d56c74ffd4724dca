package api

import (
	"net/http"

	"drops_api/internal/domain"
	"drops_api/internal/metrics"
	"drops_api/internal/service"
	"drops_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReviewRequest is the body for posting a review
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// PostReviewHandler creates or replaces the caller's review of a product
func PostReviewHandler(reviews *service.ReviewService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := idParam(c, "product_id") // 400 on a malformed ID
		if !ok {
			return
		}
		var req ReviewRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		res, err := reviews.Upsert(c.Request.Context(), principalID(c), productID, req.Rating, req.Comment)
		if err != nil {
			respondError(c, err)
			return
		}
		metrics.RecordReview(res.Created)
		invalidate(c, cache, productKey(productID), reviewsKey(productID), dashboardKey)
		logrus.WithFields(logrus.Fields{
			"product_id": productID,
			"user_id":    principalID(c),
			"rating":     req.Rating,
			"average":    res.AverageRating,
			"created":    res.Created,
		}).Info("Review saved")

		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{
			"review":         res.Review,
			"average_rating": res.AverageRating,
			"review_count":   res.ReviewCount,
		})
	}
}

// ProductReviewsHandler lists a product's reviews with its current average; cached
func ProductReviewsHandler(reviews *service.ReviewService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := idParam(c, "product_id") // 400 on a malformed ID
		if !ok {
			return
		}
		var summary service.ReviewSummary
		if cacheGet(c, cache, reviewsKey(productID), &summary) { // Served from Redis
			c.JSON(http.StatusOK, summary)
			return
		}
		s, err := reviews.ListForProduct(c.Request.Context(), productID)
		if err != nil {
			respondError(c, err)
			return
		}
		cacheSet(c, cache, reviewsKey(productID), s, catalogTTL) // Cache for next time
		c.JSON(http.StatusOK, s)
	}
}

// AdminListReviewsHandler pages through every review, optionally for one product
func AdminListReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize, offset := pagination(c)
		q := db.WithContext(c.Request.Context()).Model(&domain.ProductReview{})
		productID, ok := optionalUint(c, "product_id")
		if !ok {
			return
		}
		if productID != nil {
			q = q.Where("product_id = ?", *productID)
		}
		var total int64
		if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			respondError(c, err)
			return
		}
		var list []domain.ProductReview
		if err := q.Order("reviewed_at desc, id desc").Offset(offset).Limit(pageSize).Find(&list).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, pageBody("reviews", list, page, pageSize, total))
	}
}

// DeleteReviewHandler removes a review and returns the product's new average
func DeleteReviewHandler(reviews *service.ReviewService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id") // 400 on a malformed ID
		if !ok {
			return
		}
		productID, avg, err := reviews.Delete(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c, cache, productKey(productID), reviewsKey(productID), dashboardKey)
		logrus.WithFields(logrus.Fields{"review_id": id, "admin_id": principalID(c)}).Info("Review deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted", "average_rating": avg})
	}
}
