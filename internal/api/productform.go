package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"drops_api/internal/domain"
	"drops_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// productForm is the multipart (or JSON) body for product writes. Every
// field is optional so the same form serves create and partial update.
type productForm struct {
	Name        *string `form:"name" json:"name"`
	Description *string `form:"description" json:"description"`
	Price       *string `form:"price" json:"price"`
	Stock       *int    `form:"stock" json:"stock"`
	CategoryID  *uint   `form:"category_id" json:"category_id"`
	ImageURL    *string `form:"image_url" json:"image_url"` // Used when no image_file is sent
	SellerID    *uint   `form:"seller_id" json:"seller_id"` // Admin writes only
}

// apply copies the form onto p and checks the result
func (f *productForm) apply(db *gorm.DB, p *domain.Product) error {
	if f.Name != nil {
		p.Name = strings.TrimSpace(*f.Name)
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.Price != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*f.Price))
		if err != nil {
			return fmt.Errorf("%w: invalid price", domain.ErrValidation)
		}
		p.Price = price.Round(2)
	}
	if f.Stock != nil {
		p.Stock = *f.Stock
	}
	if f.CategoryID != nil {
		if *f.CategoryID == 0 {
			p.CategoryID = nil
		} else {
			var count int64
			if err := db.Model(&domain.Category{}).Where("id = ?", *f.CategoryID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("%w: category %d", domain.ErrNotFound, *f.CategoryID)
			}
			id := *f.CategoryID
			p.CategoryID = &id
		}
	}
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	case !p.Price.IsPositive():
		return fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock cannot be negative", domain.ErrValidation)
	}
	return nil
}

// formImage returns the image reference to store: an uploaded image_file
// wins over an image_url field. ok is false when the request carries neither.
func formImage(c *gin.Context, store *utils.ImageStore, images *utils.ImageNormalizer, subdir string, imageURL *string) (string, bool, error) {
	fh, err := c.FormFile("image_file")
	switch {
	case err == nil:
		path, err := store.Save(fh, subdir)
		if err != nil {
			return "", false, err
		}
		return path, true, nil
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return "", false, fmt.Errorf("%w: unreadable image upload", domain.ErrValidation)
	}
	if imageURL == nil {
		return "", false, nil
	}
	return images.StoredPath(*imageURL), true, nil
}

// saveProduct binds the form onto p and writes it. New products need name
// and price. Only admins (setOwner) may pick the owning seller.
func saveProduct(c *gin.Context, db *gorm.DB, store *utils.ImageStore, images *utils.ImageNormalizer, p *domain.Product, setOwner bool) error {
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		return fmt.Errorf("%w: invalid product form", domain.ErrValidation)
	}
	tx := db.WithContext(c.Request.Context())
	if setOwner && form.SellerID != nil {
		var owner domain.User
		if err := tx.Select("id", "role").First(&owner, *form.SellerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: seller %d", domain.ErrNotFound, *form.SellerID)
			}
			return err
		}
		if owner.Role == domain.RoleClient {
			return fmt.Errorf("%w: user %d cannot sell", domain.ErrValidation, owner.ID)
		}
		p.SellerID = owner.ID
	}
	if err := form.apply(tx, p); err != nil {
		return err
	}
	image, ok, err := formImage(c, store, images, "products", form.ImageURL)
	if err != nil {
		return err
	}
	if ok {
		p.Image = image
	}
	if p.ID == 0 {
		return tx.Create(p).Error
	}
	return tx.Select("name", "description", "price", "stock", "category_id", "image").Updates(p).Error
}
