package api

import (
	"drops_api/internal/domain"     // Roles
	"drops_api/internal/metrics"    // Prometheus collectors
	"drops_api/internal/middleware" // Auth, roles and rate limiting
	"drops_api/internal/service"    // Business services
	"drops_api/internal/utils"      // Images, uploads and cache

	"github.com/gin-contrib/gzip" // Response compression
	"github.com/gin-gonic/gin"    // Gin web framework
	"gorm.io/gorm"                // GORM ORM library
)

// Deps carries everything the HTTP layer needs
type Deps struct {
	DB           *gorm.DB
	Cache        *utils.Cache
	Images       *utils.ImageNormalizer
	Store        *utils.ImageStore
	UploadDir    string // Directory served under /<root>
	Auth         *service.AuthService
	Reviews      *service.ReviewService
	Carts        *service.CartService
	Orders       *service.OrderService
	Sellers      *service.SellerService
	Users        *service.UserService
	LoginLimiter *middleware.RateLimiter // nil disables login throttling
}

// NewDeps builds the services on top of db and tokens
func NewDeps(db *gorm.DB, tokens *utils.TokenService, cache *utils.Cache, images *utils.ImageNormalizer, uploadDir string) Deps {
	return Deps{
		DB:        db,
		Cache:     cache,
		Images:    images,
		Store:     utils.NewImageStore(uploadDir),
		UploadDir: uploadDir,
		Auth:      service.NewAuthService(db, tokens),
		Reviews:   service.NewReviewService(db),
		Carts:     service.NewCartService(db),
		Orders:    service.NewOrderService(db),
		Sellers:   service.NewSellerService(db),
		Users:     service.NewUserService(db),
	}
}

// NewRouter registers every route on a new gin engine
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), metrics.Middleware(), gzip.Gzip(gzip.DefaultCompression))

	r.GET("/", WelcomeHandler())
	r.GET("/metrics", metrics.Handler())
	r.Static("/"+d.Images.Root(), d.UploadDir) // Uploaded images

	authn := middleware.JWTAuthMiddleware(d.Auth)
	admin := middleware.AdminOnlyMiddleware()
	client := middleware.RequireRoles(domain.RoleClient)
	vendeur := middleware.RequireRoles(domain.RoleVendeur)

	api := r.Group("/api")
	api.GET("/health/db", HealthDBHandler(d.DB))

	// Auth routes
	login := []gin.HandlerFunc{LoginHandler(d.Auth)}
	if d.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{d.LoginLimiter.Handler()}, login...)
	}
	api.POST("/auth/login", login...)

	// User routes
	users := api.Group("/users")
	users.POST("/register", RegisterHandler(d.Auth))
	users.POST("/admin/create", authn, admin, AdminCreateUserHandler(d.Auth))
	users.GET("", authn, admin, ListUsersHandler(d.DB))
	users.GET("/me", authn, MeHandler())

	// Public catalog
	products := api.Group("/products")
	products.GET("", ListProductsHandler(d.DB, d.Images))
	products.GET("/search", SearchProductsHandler(d.DB, d.Images))
	products.GET("/public/category/:id", ProductsByCategoryHandler(d.DB, d.Images))
	products.GET("/:id", GetProductHandler(d.DB, d.Images, d.Cache))

	categories := api.Group("/categories")
	categories.GET("", ListCategoriesHandler(d.DB, d.Images, d.Cache))
	categories.GET("/:id/products", CategoryProductsHandler(d.DB, d.Images))

	// Cart, orders and payments (any authenticated user)
	cart := api.Group("/cart", authn)
	cart.POST("/add/:product_id", AddToCartHandler(d.Carts))
	cart.GET("", GetCartHandler(d.Carts, d.Images))
	cart.DELETE("/remove/:product_id", RemoveFromCartHandler(d.Carts))

	orders := api.Group("/orders", authn)
	orders.POST("", PlaceOrderHandler(d.Orders, d.Cache))
	orders.GET("", ListOrdersHandler(d.Orders))

	api.POST("/payments/:order_id", authn, PayOrderHandler(d.Orders, d.Cache))

	// Reviews
	reviews := api.Group("/reviews")
	reviews.POST("/:product_id", authn, client, PostReviewHandler(d.Reviews, d.Cache))
	reviews.GET("/product/:product_id", ProductReviewsHandler(d.Reviews, d.Cache))

	// Seller routes
	sellers := api.Group("/sellers", authn)
	sellers.POST("/apply", client, ApplySellerHandler(d.Sellers))
	sellers.GET("/me", SellerMeHandler(d.DB))
	shop := sellers.Group("", vendeur)
	shop.GET("/products", SellerProductsHandler(d.DB, d.Images))
	shop.GET("/products/filter", SellerFilterProductsHandler(d.DB, d.Images))
	shop.POST("/products", SellerCreateProductHandler(d.DB, d.Store, d.Images, d.Cache))
	shop.PUT("/products/:id", SellerUpdateProductHandler(d.DB, d.Store, d.Images, d.Cache))
	shop.DELETE("/products/:id", SellerDeleteProductHandler(d.DB, d.Cache))
	shop.GET("/orders", SellerOrdersHandler(d.DB))
	shop.GET("/dashboard", SellerDashboardHandler(d.DB))

	// Admin routes (protected, admin only)
	adm := api.Group("/admin", authn, admin)
	adm.GET("/users", ListUsersHandler(d.DB))
	adm.DELETE("/users/:id", DeleteUserHandler(d.Users, d.Cache))
	adm.PUT("/users/:id/role", UpdateUserRoleHandler(d.DB))
	adm.GET("/categories", ListCategoriesHandler(d.DB, d.Images, d.Cache))
	adm.POST("/categories", CreateCategoryHandler(d.DB, d.Store, d.Images, d.Cache))
	adm.PUT("/categories/:id", UpdateCategoryHandler(d.DB, d.Store, d.Images, d.Cache))
	adm.DELETE("/categories/:id", DeleteCategoryHandler(d.DB, d.Cache))
	adm.GET("/products", AdminListProductsHandler(d.DB, d.Images))
	adm.GET("/products/filter", AdminFilterProductsHandler(d.DB, d.Images))
	adm.POST("/products", AdminCreateProductHandler(d.DB, d.Store, d.Images, d.Cache))
	adm.DELETE("/products/:id", AdminDeleteProductHandler(d.DB, d.Cache))
	adm.GET("/sellers", ListSellersHandler(d.DB))
	adm.PUT("/sellers/:id/status", SetSellerStatusHandler(d.Sellers))
	adm.GET("/orders", AdminListOrdersHandler(d.DB))
	adm.PUT("/orders/:id/status", UpdateOrderStatusHandler(d.Orders, d.Cache))
	adm.GET("/payments", ListPaymentsHandler(d.DB))
	adm.GET("/reviews", AdminListReviewsHandler(d.DB))
	adm.DELETE("/reviews/:id", DeleteReviewHandler(d.Reviews, d.Cache))
	adm.GET("/dashboard", AdminDashboardHandler(d.DB, d.Cache))
	adm.GET("/dashboard/daily", DailyStatsHandler(d.DB))

	return r
}
