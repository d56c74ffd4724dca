package api

import (
	"errors"
	"io"
	"net/http"

	"drops_api/internal/domain"
	"drops_api/internal/metrics"
	"drops_api/internal/middleware"
	"drops_api/internal/service"
	"drops_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PlaceOrderRequest lists the items to buy; empty means "check out my cart"
type PlaceOrderRequest struct {
	Items []service.OrderLine `json:"items" binding:"omitempty,dive"`
}

// UpdateOrderStatusRequest is the admin status change body
type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// PlaceOrderHandler creates an order from the body or from the caller's cart
func PlaceOrderHandler(orders *service.OrderService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) { // An empty body checks out the cart
			badRequest(c, "Invalid request")
			return
		}
		order, err := orders.Place(c.Request.Context(), principalID(c), req.Items)
		if err != nil {
			respondError(c, err)
			return
		}
		metrics.RecordOrder()
		invalidate(c, cache, productKeys(service.ProductIDs(order), dashboardKey)...) // Stock was reserved
		logrus.WithFields(logrus.Fields{
			"order_id": order.ID,
			"user_id":  order.UserID,
			"total":    order.Total.String(),
			"items":    len(order.Items),
		}).Info("Order placed")
		c.JSON(http.StatusCreated, order)
	}
}

// ListOrdersHandler returns the caller's orders, or all orders for an admin
func ListOrdersHandler(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.List(c.Request.Context(), middleware.Principal(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// UpdateOrderStatusHandler lets an admin advance or cancel an order
func UpdateOrderStatusHandler(orders *service.OrderService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id") // 400 on a malformed ID
		if !ok {
			return
		}
		var req UpdateOrderStatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		order, err := orders.UpdateStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		keys := []string{dashboardKey}
		if order.Status == domain.OrderCancelled {
			keys = productKeys(service.ProductIDs(order), dashboardKey) // Stock was released
		}
		invalidate(c, cache, keys...)
		logrus.WithFields(logrus.Fields{"order_id": id, "status": order.Status, "admin_id": principalID(c)}).Info("Order status changed")
		c.JSON(http.StatusOK, order)
	}
}

// AdminListOrdersHandler pages through all orders, optionally by status
func AdminListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize, offset := pagination(c)
		q := db.WithContext(c.Request.Context()).Model(&domain.Order{})
		if s := c.Query("status"); s != "" {
			status := domain.OrderStatus(s)
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
		var list []domain.Order
		if err := q.Preload("Items").Preload("Payment").Order("created_at desc, id desc").
			Offset(offset).Limit(pageSize).Find(&list).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, pageBody("orders", list, page, pageSize, total))
	}
}
