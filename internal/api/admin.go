package api

import (
	"errors"
	"net/http"
	"time"

	"drops_api/internal/domain"
	"drops_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdminListProductsHandler returns every product with its seller and category
func AdminListProductsHandler(db *gorm.DB, images *utils.ImageNormalizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		listProducts(c, db, images, db.WithContext(c.Request.Context()).Model(&domain.Product{}))
	}
}

// AdminFilterProductsHandler filters products by name, category, price, seller and creation date
func AdminFilterProductsHandler(db *gorm.DB, images *utils.ImageNormalizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := filterProducts(c, db.WithContext(c.Request.Context()).Model(&domain.Product{}))
		if !ok {
			return
		}
		sellerID, ok := optionalUint(c, "seller_id")
		if !ok {
			return
		}
		if sellerID != nil {
			q = q.Where("products.seller_id = ?", *sellerID) // Filter by seller
		}
		if from := c.Query("from"); from != "" {
			t, err := time.Parse(time.DateOnly, from)
			if err != nil {
				badRequest(c, "Invalid from date")
				return
			}
			q = q.Where("products.created_at >= ?", t) // Filter by start date
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse(time.DateOnly, to)
			if err != nil {
				badRequest(c, "Invalid to date")
				return
			}
			q = q.Where("products.created_at < ?", t.AddDate(0, 0, 1)) // End date is inclusive
		}
		listProducts(c, db, images, q)
	}
}

// AdminCreateProductHandler adds a product; seller_id defaults to the admin
func AdminCreateProductHandler(db *gorm.DB, store *utils.ImageStore, images *utils.ImageNormalizer, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		product := domain.Product{SellerID: principalID(c), AverageRating: domain.DefaultAverageRating}
		if err := saveProduct(c, db, store, images, &product, true); err != nil {
			respondError(c, err)
			return
		}
		invalidate(c, cache, dashboardKey)
		logrus.WithFields(logrus.Fields{
			"product_id": product.ID,
			"seller_id":  product.SellerID,
			"admin_id":   principalID(c),
		}).Info("Product created by admin")
		c.JSON(http.StatusCreated, toProductResponse(images, &product, 0))
	}
}

// AdminDeleteProductHandler removes any product
func AdminDeleteProductHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id") // 400 on a malformed ID
		if !ok {
			return
		}
		var product domain.Product
		if err := db.WithContext(c.Request.Context()).First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			respondError(c, err)
			return
		}
		if err := db.WithContext(c.Request.Context()).Delete(&product).Error; err != nil {
			respondError(c, err)
			return
		}
		invalidate(c, cache, productKey(id), reviewsKey(id), dashboardKey)
		logrus.WithFields(logrus.Fields{"product_id": id, "admin_id": principalID(c)}).Info("Product deleted by admin")
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
