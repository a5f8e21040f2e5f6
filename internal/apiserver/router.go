package apiserver

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/booknest/booknest/internal/apiserver/handler"
	"github.com/booknest/booknest/internal/apiserver/middleware"
	"github.com/booknest/booknest/internal/core/domain"
	"github.com/booknest/booknest/internal/core/service"
	"github.com/booknest/booknest/internal/infrastructure/config"
	mongodb "github.com/booknest/booknest/internal/infrastructure/db/mongo"
	redisdb "github.com/booknest/booknest/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg config.Server, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("booknest_api"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	bookRepo := mongodb.NewBookRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)
	reviewRepo := mongodb.NewReviewRepository(db)
	wishlistRepo := mongodb.NewWishlistRepository(db)
	statsRepo := mongodb.NewStatsRepository(db)
	deduper := redisdb.NewOrderDeduper(rdb)

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(bookRepo)
	orderService := service.NewOrderService(orderRepo, bookRepo, deduper, log)
	reviewService := service.NewReviewService(reviewRepo, bookRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, bookRepo)
	statsService := service.NewStatsService(statsRepo)
	paymentService := service.NewPaymentService(orderRepo)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, cfg.ClientURL)
	userHandler := handler.NewUserHandler(userService)
	bookHandler := handler.NewBookHandler(catalogService)
	orderHandler := handler.NewOrderHandler(orderService)
	reviewHandler := handler.NewReviewHandler(reviewService, authService)
	wishlistHandler := handler.NewWishlistHandler(wishlistService)
	statsHandler := handler.NewStatsHandler(statsService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	// --- Access rules ---
	authed := middleware.Auth(cfg.JWTSecret)
	optional := middleware.OptionalAuth(cfg.JWTSecret)
	staff := middleware.RBAC(domain.RoleLibrarian, domain.RoleAdmin)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	v1 := e.Group("/v1")

	// --- Auth ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/auth/google", authHandler.Google)
	v1.GET("/auth/me", authHandler.Me, authed)
	v1.PUT("/auth/profile", authHandler.UpdateProfile, authed)

	// --- Catalog ---
	v1.GET("/books", bookHandler.List)
	v1.GET("/books/:id", bookHandler.Get, optional)
	v1.GET("/books/mine", bookHandler.Mine, authed, staff)
	v1.POST("/books", bookHandler.Create, authed, staff)
	v1.PUT("/books/:id", bookHandler.Update, authed, staff)
	v1.DELETE("/books/:id", bookHandler.Delete, authed, staff)

	// --- Reviews ---
	v1.GET("/books/:id/reviews", reviewHandler.ListByBook)
	v1.POST("/books/:id/reviews", reviewHandler.Post, authed)

	// --- Orders ---
	v1.POST("/orders", orderHandler.Place, authed)
	v1.GET("/orders", orderHandler.Mine, authed)
	v1.GET("/orders/all", orderHandler.All, authed, staff)
	v1.POST("/orders/:id/cancel", orderHandler.Cancel, authed)
	v1.PATCH("/orders/:id/status", orderHandler.UpdateStatus, authed, staff)
	v1.GET("/orders/:id/invoice", orderHandler.Invoice, authed)

	// --- Payments ---
	v1.POST("/payments/checkout-session", paymentHandler.CreateSession, authed)
	v1.POST("/orders/:id/payment", paymentHandler.Confirm, authed)

	// --- Wishlist ---
	v1.GET("/wishlist", wishlistHandler.List, authed)
	v1.POST("/wishlist", wishlistHandler.Add, authed)
	v1.DELETE("/wishlist/:id", wishlistHandler.Remove, authed)

	// --- Accounts and dashboard ---
	v1.GET("/users", userHandler.List, authed, adminOnly)
	v1.PATCH("/users/:email/role", userHandler.SetRole, authed, adminOnly)
	v1.GET("/users/me/role", userHandler.MyRole, authed)
	v1.GET("/stats", statsHandler.Overview, authed, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
