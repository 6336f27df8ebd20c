package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linguachat/chat-api/internal/api/handler"
	"github.com/linguachat/chat-api/internal/api/middleware"
	"github.com/linguachat/chat-api/internal/core/ports"
	"github.com/linguachat/chat-api/internal/core/service"
	mongodb "github.com/linguachat/chat-api/internal/infrastructure/db/mongo"
	redisdb "github.com/linguachat/chat-api/internal/infrastructure/db/redis"
	"github.com/linguachat/chat-api/internal/realtime"
)

const sessionTTL = 7 * 24 * time.Hour

// Deps carries the collaborators the router wires together.
type Deps struct {
	DB            *mongo.Database
	Redis         *redis.Client
	Images        ports.ImageStore
	Translator    ports.Translator
	Hub           *realtime.Hub
	Notifier      ports.MessageNotifier
	JWTSecret     string
	SecureCookies bool
	Logger        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("chat"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(deps.DB)
	messageRepo := mongodb.NewMessageRepository(deps.DB)
	translator := redisdb.NewTranslationCache(deps.Redis, deps.Translator, deps.Logger)

	authService := service.NewAuthService(userRepo, deps.Images, deps.JWTSecret, sessionTTL, deps.Logger)
	messageService := service.NewMessageService(userRepo, messageRepo, translator, deps.Images, deps.Notifier, deps.Logger)

	authHandler := handler.NewAuthHandler(authService, deps.SecureCookies)
	messageHandler := handler.NewMessageHandler(messageService)
	authMiddleware := middleware.Auth(deps.JWTSecret)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/check", authHandler.Check, authMiddleware)
	auth.PUT("/update-profile", authHandler.UpdateProfile, authMiddleware)

	// --- Message routes ---
	messages := e.Group("/api/messages", authMiddleware)
	messages.GET("/users", messageHandler.SidebarUsers)
	messages.GET("/:userId", messageHandler.History)
	messages.POST("/send/:userId", messageHandler.Send)

	// --- Realtime channel ---
	e.GET("/ws", realtime.WSHandler(deps.Hub), authMiddleware)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
