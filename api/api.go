// Package api is the HTTP surface over the state aggregator: the only
// sanctioned mutation path for clients, standing in for the mobile screens.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/example/fooddash/pkg/config"
	"github.com/example/fooddash/pkg/repository"
	"github.com/example/fooddash/pkg/state"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Server struct {
	config  *config.Config
	manager *state.Manager
	audit   *repository.MongoRepository
	logger  *zap.Logger
	router  *gin.Engine
}

func NewServer(cfg *config.Config, logger *zap.Logger, manager *state.Manager, audit *repository.MongoRepository) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	return &Server{
		config:  cfg,
		manager: manager,
		audit:   audit,
		logger:  logger,
		router:  router,
	}
}

func (s *Server) SetupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", s.signUp)
			auth.POST("/login", s.login)
			auth.POST("/logout", s.sessionRequired(), s.logout)
		}

		// Catalog reads are public.
		products := v1.Group("/products")
		{
			products.GET("", s.listProducts)
			products.GET("/search", s.searchProducts)
			products.GET("/:id", s.getProduct)
		}

		user := v1.Group("", s.sessionRequired())
		{
			user.GET("/me", s.getProfile)
			user.PUT("/me", s.updateProfile)
			user.POST("/me/onboarding", s.completeOnboarding)
			user.GET("/me/activity", s.activity)

			user.GET("/cart", s.getCart)
			user.POST("/cart", s.addToCart)
			user.PUT("/cart/:id", s.updateCartItem)
			user.DELETE("/cart/:id", s.removeFromCart)
			user.DELETE("/cart", s.clearCart)

			user.GET("/addresses", s.listAddresses)
			user.POST("/addresses", s.addAddress)
			user.PUT("/addresses/:id", s.updateAddress)
			user.DELETE("/addresses/:id", s.deleteAddress)
			user.POST("/addresses/:id/select", s.selectAddress)

			user.GET("/payment-methods", s.listPaymentMethods)
			user.POST("/payment-methods", s.addPaymentMethod)
			user.DELETE("/payment-methods/:id", s.deletePaymentMethod)
			user.POST("/payment-methods/:id/select", s.selectPaymentMethod)

			user.GET("/favorites", s.listFavorites)
			user.POST("/favorites/:productId/toggle", s.toggleFavorite)

			user.GET("/orders", s.listOrders)
			user.POST("/orders", s.createOrder)
			user.POST("/orders/:number/cancel", s.cancelOrder)
		}
	}

	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("API server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Router exposes the engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
