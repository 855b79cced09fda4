package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/markpoint/marker-api/docs"
	"github.com/markpoint/marker-api/internal/api/handler"
	"github.com/markpoint/marker-api/internal/api/middleware"
	"github.com/markpoint/marker-api/internal/core/service"
	"github.com/markpoint/marker-api/internal/infrastructure/config"
	mongodb "github.com/markpoint/marker-api/internal/infrastructure/db/mongo"
	redisdb "github.com/markpoint/marker-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("markers"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	locationRepo := mongodb.NewLocationRepository(db)
	sessionStore := redisdb.NewSessionStore(rdb)

	authService := service.NewAuthService(userRepo, sessionStore, cfg.JWTSecret, cfg.TokenTTL, log)
	locationService := service.NewLocationService(locationRepo, log)

	authHandler := handler.NewAuthHandler(authService, cfg.IsProduction())
	locationHandler := handler.NewLocationHandler(locationService)
	requireAuth := middleware.Auth(authService)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Location routes (reads are public, mutations require a session) ---
	locations := e.Group("/api/locations")
	locations.POST("", locationHandler.Create, requireAuth)
	locations.GET("", locationHandler.List)
	locations.GET("/:id", locationHandler.Get)
	locations.DELETE("/:id", locationHandler.Delete, requireAuth)

	// --- Health probes, metrics, docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
