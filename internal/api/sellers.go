package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"drops_api/internal/domain"
	"drops_api/internal/service"
	"drops_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SellerApplyRequest is the body for a seller application
type SellerApplyRequest struct {
	ShopName    string            `json:"shop_name" binding:"required"`
	Description string            `json:"description"`
	Type        domain.SellerType `json:"type" binding:"required"`
}

// SellerStatusRequest is the admin decision on an application
type SellerStatusRequest struct {
	Status domain.SellerStatus `json:"status" binding:"required"`
}

// SellerOrderLine is one of the seller's products inside a customer order
type SellerOrderLine struct {
	OrderID     uint               `json:"order_id"`
	Status      domain.OrderStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	BuyerID     uint               `json:"buyer_id"`
	ProductID   uint               `json:"product_id"`
	ProductName string             `json:"product_name"`
	Quantity    int                `json:"quantity"`
	UnitPrice   decimal.Decimal    `json:"unit_price"`
}

// ApplySellerHandler files a pending seller profile for the caller
func ApplySellerHandler(sellers *service.SellerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SellerApplyRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		seller, err := sellers.Apply(c.Request.Context(), principalID(c), req.ShopName, req.Description, req.Type)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": seller.UserID, "shop": seller.ShopName}).Info("Seller application filed")
		c.JSON(http.StatusCreated, seller)
	}
}

// SellerMeHandler returns the caller's seller profile
func SellerMeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var seller domain.Seller
		err := db.WithContext(c.Request.Context()).First(&seller, "user_id = ?", principalID(c)).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Seller profile not found"})
			return
		} else if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, seller)
	}
}

// SellerProductsHandler pages through the caller's own products
func SellerProductsHandler(db *gorm.DB, images *utils.ImageNormalizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.WithContext(c.Request.Context()).Model(&domain.Product{}).Where("products.seller_id = ?", principalID(c))
		listProducts(c, db, images, q)
	}
}

// SellerFilterProductsHandler is SellerProductsHandler with the search filters
func SellerFilterProductsHandler(db *gorm.DB, images *utils.ImageNormalizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.WithContext(c.Request.Context()).Model(&domain.Product{}).Where("products.seller_id = ?", principalID(c))
		q, ok := filterProducts(c, q)
		if !ok {
			return
		}
		listProducts(c, db, images, q)
	}
}

// SellerCreateProductHandler adds a product owned by the caller
func SellerCreateProductHandler(db *gorm.DB, store *utils.ImageStore, images *utils.ImageNormalizer, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		product := domain.Product{SellerID: principalID(c), AverageRating: domain.DefaultAverageRating}
		if err := saveProduct(c, db, store, images, &product, false); err != nil {
			respondError(c, err)
			return
		}
		invalidate(c, cache, dashboardKey)
		logrus.WithFields(logrus.Fields{"product_id": product.ID, "seller_id": product.SellerID}).Info("Product created")
		c.JSON(http.StatusCreated, toProductResponse(images, &product, 0))
	}
}

// SellerUpdateProductHandler edits one of the caller's products
func SellerUpdateProductHandler(db *gorm.DB, store *utils.ImageStore, images *utils.ImageNormalizer, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := ownedProduct(c, db) // 404 unless the caller owns it
		if !ok {
			return
		}
		if err := saveProduct(c, db, store, images, product, false); err != nil {
			respondError(c, err)
			return
		}
		invalidate(c, cache, productKey(product.ID), reviewsKey(product.ID))
		c.JSON(http.StatusOK, toProductResponse(images, product, 0))
	}
}

// SellerDeleteProductHandler removes one of the caller's products
func SellerDeleteProductHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := ownedProduct(c, db) // 404 unless the caller owns it
		if !ok {
			return
		}
		if err := db.WithContext(c.Request.Context()).Delete(product).Error; err != nil {
			respondError(c, err)
			return
		}
		invalidate(c, cache, productKey(product.ID), reviewsKey(product.ID), dashboardKey)
		logrus.WithFields(logrus.Fields{"product_id": product.ID, "seller_id": product.SellerID}).Info("Product deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}

// SellerOrdersHandler lists order lines for the caller's products
func SellerOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lines []SellerOrderLine
		err := db.WithContext(c.Request.Context()).Table("order_items").
			Select(`orders.id AS order_id, orders.status, orders.created_at, orders.user_id AS buyer_id,
				products.id AS product_id, products.name AS product_name,
				order_items.quantity, order_items.unit_price`).
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("products.seller_id = ?", principalID(c)).
			Order("orders.created_at desc, orders.id desc").
			Scan(&lines).Error
		if err != nil {
			respondError(c, err)
			return
		}
		if lines == nil {
			lines = []SellerOrderLine{}
		}
		c.JSON(http.StatusOK, lines)
	}
}

// ListSellersHandler pages through seller profiles, optionally by status
func ListSellersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize, offset := pagination(c)
		q := db.WithContext(c.Request.Context()).Model(&domain.Seller{})
		if s := c.Query("status"); s != "" {
			status := domain.SellerStatus(s)
			if !status.Valid() {
				badRequest(c, "Invalid status")
				return
			}
			q = q.Where("status = ?", status)
		}
		var total int64
		if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			respondError(c, err)
			return
		}
		var list []domain.Seller
		if err := q.Order("user_id").Offset(offset).Limit(pageSize).Find(&list).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, pageBody("sellers", list, page, pageSize, total))
	}
}

// SetSellerStatusHandler approves or rejects a seller application
func SetSellerStatusHandler(sellers *service.SellerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id") // 400 on a malformed ID
		if !ok {
			return
		}
		var req SellerStatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		seller, err := sellers.SetStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": id, "status": seller.Status, "admin_id": principalID(c)}).Info("Seller status changed")
		c.JSON(http.StatusOK, seller)
	}
}

// ownedProduct loads the :id product if the caller owns it. Products of
// other sellers answer 404 like missing ones.
func ownedProduct(c *gin.Context, db *gorm.DB) (*domain.Product, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	var product domain.Product
	err := db.WithContext(c.Request.Context()).Where("id = ? AND seller_id = ?", id, principalID(c)).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, fmt.Errorf("%w: product %d", domain.ErrNotFound, id))
		return nil, false
	} else if err != nil {
		respondError(c, err)
		return nil, false
	}
	return &product, true
}
