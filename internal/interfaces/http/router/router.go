package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Config holds everything the router needs to assemble the API
type Config struct {
	JWTService *auth.JWTService
	Logger     *zap.Logger

	CORSAllowOrigins []string
	TrustedProxies   []string

	AuthHandler     *handler.AuthHandler
	ProductHandler  *handler.ProductHandler
	CategoryHandler *handler.CategoryHandler
	CartHandler     *handler.CartHandler
	OrderHandler    *handler.OrderHandler
	AddressHandler  *handler.AddressHandler
	SystemHandler   *handler.SystemHandler
}

// New assembles the gin engine with all middleware and routes
func New(cfg Config) (*gin.Engine, error) {
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.CORS(cfg.CORSAllowOrigins))

	engine.GET("/health", cfg.SystemHandler.Health)
	engine.GET("/ready", cfg.SystemHandler.Ready)

	api := engine.Group("/api/v1")
	requireAuth := middleware.RequireAuth(cfg.JWTService, cfg.Logger)
	requireAdmin := middleware.RequireAdmin()

	// Public routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", cfg.AuthHandler.Register)
		authGroup.POST("/login", cfg.AuthHandler.Login)
		authGroup.GET("/me", requireAuth, cfg.AuthHandler.Profile)
	}

	products := api.Group("/products")
	{
		products.GET("", cfg.ProductHandler.List)
		products.GET("/:id", cfg.ProductHandler.Get)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", cfg.CategoryHandler.List)
		categories.GET("/:id", cfg.CategoryHandler.Get)
	}

	// Authenticated routes
	cart := api.Group("/cart", requireAuth)
	{
		cart.GET("", cfg.CartHandler.Get)
		cart.DELETE("", cfg.CartHandler.Clear)
		cart.POST("/items", cfg.CartHandler.AddItem)
		cart.PUT("/items/:id", cfg.CartHandler.UpdateItem)
		cart.DELETE("/items/:id", cfg.CartHandler.RemoveItem)
	}

	addresses := api.Group("/addresses", requireAuth)
	{
		addresses.POST("", cfg.AddressHandler.Create)
		addresses.GET("", cfg.AddressHandler.List)
		addresses.GET("/:id", cfg.AddressHandler.Get)
		addresses.PUT("/:id", cfg.AddressHandler.Update)
		addresses.DELETE("/:id", cfg.AddressHandler.Delete)
	}

	orders := api.Group("/orders", requireAuth)
	{
		orders.POST("", cfg.OrderHandler.Create)
		orders.POST("/checkout", cfg.OrderHandler.Checkout)
		orders.GET("", cfg.OrderHandler.List)
		orders.GET("/:id", cfg.OrderHandler.Get)
		orders.PUT("/:id/status", cfg.OrderHandler.UpdateStatus)
		orders.DELETE("/:id", cfg.OrderHandler.Cancel)
	}

	// Admin routes
	admin := api.Group("/admin", requireAuth, requireAdmin)
	{
		admin.POST("/products", cfg.ProductHandler.Create)
		admin.POST("/products/batch", cfg.ProductHandler.BatchCreate)
		admin.PUT("/products/:id", cfg.ProductHandler.Update)
		admin.DELETE("/products/:id", cfg.ProductHandler.Delete)

		admin.POST("/categories", cfg.CategoryHandler.Create)
		admin.PUT("/categories/:id", cfg.CategoryHandler.Update)
		admin.DELETE("/categories/:id", cfg.CategoryHandler.Delete)

		admin.GET("/orders", cfg.OrderHandler.ListAll)
		admin.GET("/orders/users/:userId", cfg.OrderHandler.ListForUser)
		admin.PUT("/orders/:id/status", cfg.OrderHandler.UpdateStatus)
	}

	return engine, nil
}
