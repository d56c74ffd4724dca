package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"drops_api/internal/domain"
	"drops_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CategoryResponse is the public view of a category
type CategoryResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url"`
}

type categoryForm struct {
	Name        *string `form:"name" json:"name"`
	Description *string `form:"description" json:"description"`
	ImageURL    *string `form:"image_url" json:"image_url"`
}

func toCategoryResponse(images *utils.ImageNormalizer, cat *domain.Category) CategoryResponse {
	return CategoryResponse{ID: cat.ID, Name: cat.Name, Description: cat.Description, ImageURL: images.Ptr(cat.Image)}
}

// ListCategoriesHandler returns every category; the list is cached
func ListCategoriesHandler(db *gorm.DB, images *utils.ImageNormalizer, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var resp []CategoryResponse
		if cacheGet(c, cache, categoriesKey, &resp) { // Served from Redis
			c.JSON(http.StatusOK, resp)
			return
		}
		var cats []domain.Category
		if err := db.WithContext(c.Request.Context()).Order("name").Find(&cats).Error; err != nil {
			respondError(c, err)
			return
		}
		resp = make([]CategoryResponse, len(cats))
		for i := range cats {
			resp[i] = toCategoryResponse(images, &cats[i])
		}
		cacheSet(c, cache, categoriesKey, resp, catalogTTL) // Cache for next time
		c.JSON(http.StatusOK, resp)
	}
}

// CategoryProductsHandler returns a category with its products
func CategoryProductsHandler(db *gorm.DB, images *utils.ImageNormalizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id") // 400 on a malformed ID
		if !ok {
			return
		}
		ctxDB := db.WithContext(c.Request.Context())
		var cat domain.Category
		if err := ctxDB.First(&cat, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
				return
			}
			respondError(c, err)
			return
		}
		var products []domain.Product
		if err := ctxDB.Preload("Seller").Where("category_id = ?", id).Order("id").Find(&products).Error; err != nil {
			respondError(c, err)
			return
		}
		resp, err := productResponses(ctxDB, images, products)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": toCategoryResponse(images, &cat), "products": resp})
	}
}

// CreateCategoryHandler adds a category, with an optional uploaded image
func CreateCategoryHandler(db *gorm.DB, store *utils.ImageStore, images *utils.ImageNormalizer, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cat domain.Category
		if err := saveCategory(c, db, store, images, &cat); err != nil {
			respondError(c, err)
			return
		}
		invalidate(c, cache, categoriesKey)
		logrus.WithFields(logrus.Fields{"category_id": cat.ID, "admin_id": principalID(c)}).Info("Category created")
		c.JSON(http.StatusCreated, toCategoryResponse(images, &cat))
	}
}

// UpdateCategoryHandler changes the fields present in the form
func UpdateCategoryHandler(db *gorm.DB, store *utils.ImageStore, images *utils.ImageNormalizer, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id") // 400 on a malformed ID
		if !ok {
			return
		}
		var cat domain.Category
		if err := db.WithContext(c.Request.Context()).First(&cat, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
				return
			}
			respondError(c, err)
			return
		}
		if err := saveCategory(c, db, store, images, &cat); err != nil {
			respondError(c, err)
			return
		}
		var ids []uint
		if err := db.WithContext(c.Request.Context()).Model(&domain.Product{}).
			Where("category_id = ?", id).Pluck("id", &ids).Error; err != nil {
			respondError(c, err)
			return
		}
		invalidate(c, cache, productKeys(ids, categoriesKey)...) // Cached products embed the category name
		c.JSON(http.StatusOK, toCategoryResponse(images, &cat))
	}
}

// DeleteCategoryHandler removes a category; its products become uncategorised
func DeleteCategoryHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id") // 400 on a malformed ID
		if !ok {
			return
		}
		var ids []uint
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&domain.Product{}).Where("category_id = ?", id).Pluck("id", &ids).Error; err != nil {
				return err
			}
			if err := tx.Model(&domain.Product{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
				return err
			}
			res := tx.Delete(&domain.Category{}, id)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: category %d", domain.ErrNotFound, id)
			}
			return nil
		})
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c, cache, productKeys(ids, categoriesKey)...)
		logrus.WithFields(logrus.Fields{
			"category_id": id,
			"products":    len(ids),
			"admin_id":    principalID(c),
		}).Info("Category deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
	}
}

func saveCategory(c *gin.Context, db *gorm.DB, store *utils.ImageStore, images *utils.ImageNormalizer, cat *domain.Category) error {
	var form categoryForm
	if err := c.ShouldBind(&form); err != nil {
		return fmt.Errorf("%w: invalid category form", domain.ErrValidation)
	}
	if form.Name != nil {
		cat.Name = strings.TrimSpace(*form.Name)
	}
	if form.Description != nil {
		cat.Description = *form.Description
	}
	if cat.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	image, ok, err := formImage(c, store, images, "categories", form.ImageURL)
	if err != nil {
		return err
	}
	if ok {
		cat.Image = image
	}
	tx := db.WithContext(c.Request.Context())
	if cat.ID == 0 {
		return tx.Create(cat).Error
	}
	return tx.Select("name", "description", "image").Updates(cat).Error
}
