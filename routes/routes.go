package routes

import (
	"time"

	"carvewood-storefront/cart"
	"carvewood-storefront/cms"
	"carvewood-storefront/handlers"
	"carvewood-storefront/middleware"
	"carvewood-storefront/session"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, cmsClient *cms.Client, carts *cart.Manager, sessions *session.Store, adminEmails []string) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{CMS: cmsClient, Sessions: sessions}
	productHandler := &handlers.ProductHandler{CMS: cmsClient}
	cartHandler := &handlers.CartHandler{Carts: carts, CMS: cmsClient}
	orderHandler := &handlers.OrderHandler{CMS: cmsClient}

	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Every API route runs behind the session cookie so carts work for
	// guests and logins attach to a stable visitor id.
	api := r.Group("/api")
	api.Use(middleware.Session())
	{
		// Auth routes
		api.POST("/auth/register", authLimiter.Middleware(), authHandler.Register)
		api.POST("/auth/login", authLimiter.Middleware(), authHandler.Login)

		// Public product routes
		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)

		// Cart routes (guest carts allowed)
		api.GET("/cart", cartHandler.GetCart)
		api.POST("/cart", cartHandler.AddToCart)
		api.PUT("/cart/:id", cartHandler.UpdateCartItem)
		api.DELETE("/cart/:id", cartHandler.RemoveFromCart)
		api.DELETE("/cart", cartHandler.ClearCart)
	}

	// Protected routes (require a logged-in session)
	protected := api.Group("")
	protected.Use(middleware.AuthRequired(sessions))
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/orders", orderHandler.GetOrders)
	}

	// Admin routes (require a configured admin account)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(sessions))
	admin.Use(middleware.AdminRequired(adminEmails))
	{
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
