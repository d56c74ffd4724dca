package api

import (
	"errors"
	"io"
	"net/http"

	"drops_api/internal/domain"
	"drops_api/internal/service"
	"drops_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PaymentRequest selects the payment method; CARD when omitted
type PaymentRequest struct {
	Method domain.PaymentMethod `json:"method"`
}

// PayOrderHandler pays one of the caller's pending orders
func PayOrderHandler(orders *service.OrderService, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := idParam(c, "order_id") // 400 on a malformed ID
		if !ok {
			return
		}
		var req PaymentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, "Invalid request")
			return
		}
		payment, err := orders.Pay(c.Request.Context(), principalID(c), orderID, req.Method)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c, cache, dashboardKey)
		logrus.WithFields(logrus.Fields{
			"order_id": orderID,
			"user_id":  principalID(c),
			"amount":   payment.Amount.String(),
			"method":   payment.Method,
		}).Info("Payment recorded")
		c.JSON(http.StatusCreated, payment)
	}
}

// ListPaymentsHandler pages through all payments for admins
func ListPaymentsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize, offset := pagination(c)
		q := db.WithContext(c.Request.Context()).Model(&domain.Payment{})
		var total int64
		if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			respondError(c, err)
			return
		}
		var list []domain.Payment
		if err := q.Order("paid_at desc, id desc").Offset(offset).Limit(pageSize).Find(&list).Error; err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, pageBody("payments", list, page, pageSize, total))
	}
}
