package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"drops_api/internal/domain"
	"drops_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductResponse is the public view of a product
type ProductResponse struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	CategoryID    *uint           `json:"category_id"`
	CategoryName  string          `json:"category_name,omitempty"`
	SellerID      uint            `json:"seller_id"`
	SellerName    string          `json:"seller_name,omitempty"`
	ImageURL      *string         `json:"image_url"` // null when the product has no image
	AverageRating float64         `json:"average_rating"`
	ReviewCount   int64           `json:"review_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

// productResponses renders products with their review counts in one extra query
func productResponses(db *gorm.DB, images *utils.ImageNormalizer, products []domain.Product) ([]ProductResponse, error) {
	ids := make([]uint, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	counts := make(map[uint]int64, len(products))
	if len(ids) > 0 {
		var rows []struct {
			ProductID uint
			Count     int64
		}
		if err := db.Model(&domain.ProductReview{}).
			Select("product_id, COUNT(*) AS count").
			Where("product_id IN ?", ids).
			Group("product_id").
			Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			counts[r.ProductID] = r.Count
		}
	}
	resp := make([]ProductResponse, len(products))
	for i := range products {
		resp[i] = toProductResponse(images, &products[i], counts[products[i].ID])
	}
	return resp, nil
}

func toProductResponse(images *utils.ImageNormalizer, p *domain.Product, reviewCount int64) ProductResponse {
	r := ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Stock:         p.Stock,
		CategoryID:    p.CategoryID,
		SellerID:      p.SellerID,
		ImageURL:      images.Ptr(p.Image),
		AverageRating: p.AverageRating,
		ReviewCount:   reviewCount,
		CreatedAt:     p.CreatedAt,
	}
	if p.Category != nil {
		r.CategoryName = p.Category.Name
	}
	if p.Seller.ID != 0 {
		r.SellerName = p.Seller.FullName()
	}
	return r
}

// filterProducts applies the q, category_id, min_price, max_price and
// in_stock query parameters. It answers 400 itself on a malformed value.
func filterProducts(c *gin.Context, q *gorm.DB) (*gorm.DB, bool) {
	if term := strings.TrimSpace(c.Query("q")); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", like, like)
	}
	categoryID, ok := optionalUint(c, "category_id")
	if !ok {
		return nil, false
	}
	if categoryID != nil {
		q = q.Where("products.category_id = ?", *categoryID)
	}
	minPrice, ok := optionalFloat(c, "min_price")
	if !ok {
		return nil, false
	}
	if minPrice != nil {
		q = q.Where("products.price >= ?", *minPrice)
	}
	maxPrice, ok := optionalFloat(c, "max_price")
	if !ok {
		return nil, false
	}
	if maxPrice != nil {
		q = q.Where("products.price <= ?", *maxPrice)
	}
	if c.Query("in_stock") == "true" {
		q = q.Where("products.stock > 0")
	}
	return q, true
}

// listProducts runs a paginated product query and writes the page
func listProducts(c *gin.Context, db *gorm.DB, images *utils.ImageNormalizer, q *gorm.DB) {
	page, pageSize, offset := pagination(c)
	var total int64
	if err := q.Session(&gorm.Session{}).Model(&domain.Product{}).Count(&total).Error; err != nil {
		respondError(c, err)
		return
	}
	var products []domain.Product
	if err := q.Preload("Category").Preload("Seller").
		Order("products.created_at desc, products.id desc").
		Offset(offset).Limit(pageSize).Find(&products).Error; err != nil {
		respondError(c, err)
		return
	}
	resp, err := productResponses(db.WithContext(c.Request.Context()), images, products)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageBody("products", resp, page, pageSize, total))
}

// ListProductsHandler returns the public catalog
func ListProductsHandler(db *gorm.DB, images *utils.ImageNormalizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		listProducts(c, db, images, db.WithContext(c.Request.Context()).Model(&domain.Product{}))
	}
}

// SearchProductsHandler filters the catalog by text, category and price range
func SearchProductsHandler(db *gorm.DB, images *utils.ImageNormalizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := filterProducts(c, db.WithContext(c.Request.Context()).Model(&domain.Product{}))
		if !ok {
			return
		}
		listProducts(c, db, images, q)
	}
}

// GetProductHandler returns one product with its seller; cached per product
func GetProductHandler(db *gorm.DB, images *utils.ImageNormalizer, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id") // 400 on a malformed ID
		if !ok {
			return
		}
		var resp ProductResponse
		if cacheGet(c, cache, productKey(id), &resp) { // Served from Redis
			c.JSON(http.StatusOK, resp)
			return
		}
		var product domain.Product
		err := db.WithContext(c.Request.Context()).Preload("Category").Preload("Seller").First(&product, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		} else if err != nil {
			respondError(c, err)
			return
		}
		list, err := productResponses(db.WithContext(c.Request.Context()), images, []domain.Product{product})
		if err != nil {
			respondError(c, err)
			return
		}
		cacheSet(c, cache, productKey(id), list[0], catalogTTL) // Cache for next time
		c.JSON(http.StatusOK, list[0])
	}
}

// ProductsByCategoryHandler lists a category's products, 404 when there are none
func ProductsByCategoryHandler(db *gorm.DB, images *utils.ImageNormalizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id") // 400 on a malformed ID
		if !ok {
			return
		}
		var products []domain.Product
		if err := db.WithContext(c.Request.Context()).Preload("Category").Preload("Seller").
			Where("category_id = ?", id).Order("id").Find(&products).Error; err != nil {
			respondError(c, err)
			return
		}
		if len(products) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No products in this category"})
			return
		}
		resp, err := productResponses(db.WithContext(c.Request.Context()), images, products)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
