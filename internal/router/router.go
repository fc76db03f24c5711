package router

import (
	"github.com/gin-gonic/gin"

	"github.com/avasquez/dulceria-backend/config"
	"github.com/avasquez/dulceria-backend/internal/app/controller"
	"github.com/avasquez/dulceria-backend/internal/middleware"
)

type Router struct {
	authController      *controller.AuthController
	productController   *controller.ProductController
	categoryController  *controller.CategoryController
	storeController     *controller.StoreController
	unitController      *controller.UnitController
	cartController      *controller.CartController
	guestCartController *controller.GuestCartController
	orderController     *controller.OrderController
	cakeOrderController *controller.CakeOrderController
	customerController  *controller.CustomerController
	uploadController    *controller.UploadController
	reportController    *controller.ReportController
	feedController      *controller.FeedController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	categoryController *controller.CategoryController,
	storeController *controller.StoreController,
	unitController *controller.UnitController,
	cartController *controller.CartController,
	guestCartController *controller.GuestCartController,
	orderController *controller.OrderController,
	cakeOrderController *controller.CakeOrderController,
	customerController *controller.CustomerController,
	uploadController *controller.UploadController,
	reportController *controller.ReportController,
	feedController *controller.FeedController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		productController:   productController,
		categoryController:  categoryController,
		storeController:     storeController,
		unitController:      unitController,
		cartController:      cartController,
		guestCartController: guestCartController,
		orderController:     orderController,
		cakeOrderController: cakeOrderController,
		customerController:  customerController,
		uploadController:    uploadController,
		reportController:    reportController,
		feedController:      feedController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Dulceria API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
			auth.PUT("/password", r.authMiddleware.Authenticate(), r.authController.ChangePassword)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/featured", r.productController.GetFeaturedProducts)
			products.GET("/:id", r.productController.GetProduct)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.GET("/:slug", r.categoryController.GetCategory)
			categories.GET("/:slug/products", r.productController.GetProductsByCategory)
		}

		stores := v1.Group("/stores")
		{
			stores.GET("", r.storeController.ListStores)
			stores.GET("/:id", r.storeController.GetStore)
		}

		v1.GET("/units", r.unitController.ListUnits)

		// Anonymous session cart, keyed by the X-Guest-Token header
		guestCart := v1.Group("/guest-cart")
		{
			guestCart.GET("", r.guestCartController.GetCart)
			guestCart.POST("/items", r.guestCartController.AddItem)
			guestCart.PUT("/items", r.guestCartController.UpdateItem)
			guestCart.DELETE("/items", r.guestCartController.RemoveItem)
			guestCart.DELETE("", r.guestCartController.ClearCart)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/:id", r.cartController.RemoveFromCart)
			cart.DELETE("", r.cartController.ClearCart)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.POST("", r.orderController.CreateOrder)
			orders.GET("", r.orderController.GetMyOrders)
			orders.GET("/:id", r.orderController.GetOrder)
		}

		v1.POST("/cake-orders", r.cakeOrderController.SubmitCakeOrder)

		v1.POST("/uploads/presign",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
			r.uploadController.PresignUpload,
		)

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.POST("/products", r.productController.CreateProduct)
			admin.PUT("/products/:id", r.productController.UpdateProduct)
			admin.DELETE("/products/:id", r.productController.DeleteProduct)
			admin.POST("/products/:id/variants", r.productController.AddVariant)
			admin.PUT("/products/:id/variants/:variantId", r.productController.UpdateVariant)
			admin.DELETE("/products/:id/variants/:variantId", r.productController.DeleteVariant)

			admin.POST("/categories", r.categoryController.CreateCategory)
			admin.PUT("/categories/:id", r.categoryController.UpdateCategory)
			admin.DELETE("/categories/:id", r.categoryController.DeleteCategory)

			admin.POST("/stores", r.storeController.CreateStore)
			admin.PUT("/stores/:id", r.storeController.UpdateStore)
			admin.DELETE("/stores/:id", r.storeController.DeleteStore)

			admin.POST("/units", r.unitController.CreateUnit)
			admin.PUT("/units/:id", r.unitController.UpdateUnit)
			admin.DELETE("/units/:id", r.unitController.DeleteUnit)

			admin.GET("/orders", r.orderController.ListOrders)
			admin.GET("/orders/stats", r.orderController.GetStats)
			admin.GET("/orders/feed", r.feedController.OrderFeed)
			admin.PUT("/orders/:id/status", r.orderController.UpdateOrderStatus)
			admin.PUT("/orders/:id/payment", r.orderController.UpdatePaymentStatus)

			admin.GET("/cake-orders", r.cakeOrderController.ListCakeOrders)
			admin.GET("/cake-orders/:id", r.cakeOrderController.GetCakeOrder)
			admin.PUT("/cake-orders/:id/quote", r.cakeOrderController.QuoteCakeOrder)
			admin.PUT("/cake-orders/:id/status", r.cakeOrderController.UpdateCakeOrderStatus)

			admin.GET("/users", r.authController.ListUsers)
			admin.PUT("/users/:id/role", r.authController.UpdateUserRole)
			admin.DELETE("/users/:id", r.authController.DeleteUser)

			admin.GET("/customers", r.customerController.ListCustomers)
			admin.GET("/customers/:id", r.customerController.GetCustomer)
			admin.POST("/customers", r.customerController.CreateCustomer)
			admin.PUT("/customers/:id", r.customerController.UpdateCustomer)
			admin.DELETE("/customers/:id", r.customerController.DeleteCustomer)

			admin.GET("/reports/orders", r.reportController.ExportOrders)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Guest-Token")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Guest-Token, Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
