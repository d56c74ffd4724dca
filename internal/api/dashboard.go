package api

import (
	"database/sql"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"drops_api/internal/domain"
	"drops_api/internal/middleware"
	"drops_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdminDashboard is the site-wide summary
type AdminDashboard struct {
	Users struct {
		Total   int64 `json:"total"`
		Sellers int64 `json:"sellers"`
		Clients int64 `json:"clients"`
	} `json:"users"`
	Products struct {
		Total int64 `json:"total"`
	} `json:"products"`
	Orders struct {
		Total    int64                        `json:"total"`
		ByStatus map[domain.OrderStatus]int64 `json:"by_status"`
	} `json:"orders"`
	Payments struct {
		Total      int64           `json:"total"`
		Successful int64           `json:"successful"`
		Revenue    decimal.Decimal `json:"revenue"`
	} `json:"payments"`
	Activity struct {
		LastOrder   *time.Time `json:"last_order"`
		LastPayment *time.Time `json:"last_payment"`
	} `json:"activity"`
}

// DailyOrders counts the orders placed on one day
type DailyOrders struct {
	Date   string `json:"date"`
	Orders int64  `json:"orders"`
}

// DailyPayments sums the successful payments of one day
type DailyPayments struct {
	Date       string          `json:"date"`
	Successful int64           `json:"successful"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// SellerDashboard summarises a seller's catalog and sales
type SellerDashboard struct {
	Seller        string          `json:"seller"`
	Products      int64           `json:"products"`
	OrderLines    int64           `json:"order_lines"`
	Revenue       decimal.Decimal `json:"revenue"`
	AverageRating float64         `json:"average_rating"` // 0 when nothing was reviewed
	OrdersPerDay  []DailyOrders   `json:"orders_per_day"` // Last 7 days
}

// AdminDashboardHandler returns site statistics, cached for a minute
func AdminDashboardHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var d AdminDashboard
		if cacheGet(c, cache, dashboardKey, &d) { // Served from Redis
			c.JSON(http.StatusOK, d)
			return
		}
		if err := buildAdminDashboard(db.WithContext(c.Request.Context()), &d); err != nil {
			respondError(c, err)
			return
		}
		cacheSet(c, cache, dashboardKey, d, dashboardTTL) // Cache for next time
		c.JSON(http.StatusOK, d)
	}
}

func buildAdminDashboard(db *gorm.DB, d *AdminDashboard) error {
	users := db.Model(&domain.User{})
	if err := users.Session(&gorm.Session{}).Count(&d.Users.Total).Error; err != nil {
		return err
	}
	if err := users.Session(&gorm.Session{}).Where("role = ?", domain.RoleVendeur).Count(&d.Users.Sellers).Error; err != nil {
		return err
	}
	if err := users.Session(&gorm.Session{}).Where("role = ?", domain.RoleClient).Count(&d.Users.Clients).Error; err != nil {
		return err
	}
	if err := db.Model(&domain.Product{}).Count(&d.Products.Total).Error; err != nil {
		return err
	}

	var byStatus []struct {
		Status domain.OrderStatus
		Count  int64
	}
	if err := db.Model(&domain.Order{}).Select("status, COUNT(*) AS count").Group("status").Scan(&byStatus).Error; err != nil {
		return err
	}
	d.Orders.ByStatus = make(map[domain.OrderStatus]int64, len(byStatus))
	for _, row := range byStatus {
		d.Orders.ByStatus[row.Status] = row.Count
		d.Orders.Total += row.Count
	}

	payments := db.Model(&domain.Payment{})
	if err := payments.Session(&gorm.Session{}).Count(&d.Payments.Total).Error; err != nil {
		return err
	}
	var paid struct {
		Count   int64
		Revenue decimal.NullDecimal
	}
	if err := payments.Session(&gorm.Session{}).Select("COUNT(*) AS count, SUM(amount) AS revenue").
		Where("status = ?", domain.PaymentSuccess).Scan(&paid).Error; err != nil {
		return err
	}
	d.Payments.Successful = paid.Count
	d.Payments.Revenue = paid.Revenue.Decimal // Zero when there is no payment

	var lastOrder domain.Order
	if err := db.Select("created_at").Order("created_at desc").Take(&lastOrder).Error; err == nil {
		d.Activity.LastOrder = &lastOrder.CreatedAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	var lastPayment domain.Payment
	if err := db.Select("paid_at").Order("paid_at desc").Take(&lastPayment).Error; err == nil {
		d.Activity.LastPayment = &lastPayment.PaidAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// DailyStatsHandler returns orders and successful payments per day over the last ?days (default 30)
func DailyStatsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := 30
		if raw := c.Query("days"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 || v > 365 {
				badRequest(c, "days must be between 1 and 365")
				return
			}
			days = v
		}
		since := time.Now().AddDate(0, 0, -days)
		ctxDB := db.WithContext(c.Request.Context())

		orders := []DailyOrders{}
		if err := ctxDB.Model(&domain.Order{}).
			Select("DATE(created_at) AS date, COUNT(*) AS orders").
			Where("created_at >= ?", since).
			Group("DATE(created_at)").Order("date").
			Scan(&orders).Error; err != nil {
			respondError(c, err)
			return
		}
		var rows []struct {
			Date       string
			Successful int64
			Revenue    decimal.NullDecimal
		}
		if err := ctxDB.Model(&domain.Payment{}).
			Select("DATE(paid_at) AS date, COUNT(*) AS successful, SUM(amount) AS revenue").
			Where("paid_at >= ? AND status = ?", since, domain.PaymentSuccess).
			Group("DATE(paid_at)").Order("date").
			Scan(&rows).Error; err != nil {
			respondError(c, err)
			return
		}
		payments := make([]DailyPayments, len(rows))
		for i, r := range rows {
			payments[i] = DailyPayments{Date: dayOnly(r.Date), Successful: r.Successful, Revenue: r.Revenue.Decimal}
		}
		for i := range orders {
			orders[i].Date = dayOnly(orders[i].Date)
		}
		c.JSON(http.StatusOK, gin.H{"days": days, "orders": orders, "payments": payments})
	}
}

// SellerDashboardHandler summarises the caller's products, sales and ratings
func SellerDashboardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		seller := middleware.Principal(c)
		ctxDB := db.WithContext(c.Request.Context())
		d := SellerDashboard{Seller: seller.FullName(), OrdersPerDay: []DailyOrders{}}

		if err := ctxDB.Model(&domain.Product{}).Where("seller_id = ?", seller.ID).Count(&d.Products).Error; err != nil {
			respondError(c, err)
			return
		}
		var sales struct {
			LineCount int64
			Revenue   decimal.NullDecimal
		}
		if err := ctxDB.Table("order_items").
			Select("COUNT(*) AS line_count, SUM(order_items.unit_price * order_items.quantity) AS revenue").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("products.seller_id = ?", seller.ID).
			Scan(&sales).Error; err != nil {
			respondError(c, err)
			return
		}
		d.OrderLines, d.Revenue = sales.LineCount, sales.Revenue.Decimal

		var rating sql.NullFloat64
		if err := ctxDB.Table("product_reviews").
			Select("AVG(product_reviews.rating)").
			Joins("JOIN products ON products.id = product_reviews.product_id").
			Where("products.seller_id = ?", seller.ID).
			Scan(&rating).Error; err != nil {
			respondError(c, err)
			return
		}
		if rating.Valid {
			d.AverageRating = math.Round(rating.Float64*100) / 100
		}

		if err := ctxDB.Table("orders").
			Select("DATE(orders.created_at) AS date, COUNT(DISTINCT orders.id) AS orders").
			Joins("JOIN order_items ON order_items.order_id = orders.id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("products.seller_id = ? AND orders.created_at >= ?", seller.ID, time.Now().AddDate(0, 0, -7)).
			Group("DATE(orders.created_at)").Order("date").
			Scan(&d.OrdersPerDay).Error; err != nil {
			respondError(c, err)
			return
		}
		for i := range d.OrdersPerDay {
			d.OrdersPerDay[i].Date = dayOnly(d.OrdersPerDay[i].Date)
		}
		c.JSON(http.StatusOK, d)
	}
}

// dayOnly keeps the YYYY-MM-DD prefix; MySQL returns DATE() as a full timestamp
func dayOnly(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
