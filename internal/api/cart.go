package api

import (
	"net/http"

	"drops_api/internal/service"
	"drops_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CartItemResponse is one line of the cart
type CartItemResponse struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ImageURL  *string         `json:"image_url"`
}

// AddToCartHandler adds one unit of a product to the caller's cart
func AddToCartHandler(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := idParam(c, "product_id") // 400 on a malformed ID
		if !ok {
			return
		}
		item, err := carts.Add(c.Request.Context(), principalID(c), productID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product added to cart", "product_id": item.ProductID, "quantity": item.Quantity})
	}
}

// GetCartHandler returns the caller's cart and its total
func GetCartHandler(carts *service.CartService, images *utils.ImageNormalizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Get(c.Request.Context(), principalID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		items := make([]CartItemResponse, len(cart.Items))
		for i, it := range cart.Items {
			items[i] = CartItemResponse{
				ProductID: it.ProductID,
				Name:      it.Product.Name,
				Price:     it.Product.Price,
				Quantity:  it.Quantity,
				Subtotal:  it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
				ImageURL:  images.Ptr(it.Product.Image),
			}
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "total": service.CartTotal(cart)})
	}
}

// RemoveFromCartHandler drops a product from the caller's cart
func RemoveFromCartHandler(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := idParam(c, "product_id") // 400 on a malformed ID
		if !ok {
			return
		}
		if err := carts.Remove(c.Request.Context(), principalID(c), productID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product removed from cart"})
	}
}
