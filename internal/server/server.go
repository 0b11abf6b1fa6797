package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zattar/config"
	"zattar/internal/handler"
	"zattar/internal/middleware"
	"zattar/internal/redis"
	"zattar/internal/services"
	"zattar/internal/transport/httpdto"
	"zattar/internal/websocket"
	"zattar/pkg/database"
	"zattar/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

// Handlers bundles everything SetupRoutes mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Category *handler.CategoryHandler
	Listing  *handler.ListingHandler
	Deal     *handler.DealHandler
	Chat     *handler.ChatHandler
	WS       *websocket.Handler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService, limiter *redis.RateLimiter, db *gorm.DB) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(db); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	requireAuth := middleware.AuthMiddleware(authService)

	auth := s.engine.Group("/v1/auth")
	{
		if limiter != nil {
			auth.Use(middleware.RateLimitMiddleware(limiter))
		}
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me", requireAuth, handlers.Auth.Me)
	}

	s.engine.GET("/v1/categories", handlers.Category.List)
	s.engine.GET("/v1/categories/:slug", handlers.Category.GetBySlug)

	listings := s.engine.Group("/v1/listings")
	{
		listings.GET("", handlers.Listing.Search)
		listings.GET("/mine", requireAuth, handlers.Listing.Mine)
		listings.GET("/user/:user_id", handlers.Listing.BySeller)
		listings.GET("/:id", handlers.Listing.Get)
		listings.POST("", requireAuth, handlers.Listing.Create)
		listings.PATCH("/:id", requireAuth, handlers.Listing.Update)
		listings.DELETE("/:id", requireAuth, handlers.Listing.Delete)
		listings.POST("/:id/sold", requireAuth, handlers.Listing.MarkSold)
	}

	deals := s.engine.Group("/v1/deals", requireAuth)
	{
		if limiter != nil {
			deals.POST("", middleware.DealRateLimitMiddleware(limiter), handlers.Deal.Initiate)
		} else {
			deals.POST("", handlers.Deal.Initiate)
		}
		deals.GET("/buying", handlers.Deal.AsBuyer)
		deals.GET("/selling", handlers.Deal.AsSeller)
		deals.GET("/:id", handlers.Deal.Get)
		deals.POST("/:id/transition", handlers.Deal.Transition)
	}

	chat := s.engine.Group("/v1/chat", requireAuth)
	{
		chat.POST("/conversations", handlers.Chat.CreateConversation)
		chat.GET("/conversations", handlers.Chat.ListConversations)
		chat.GET("/conversations/:id", handlers.Chat.GetConversation)
		if limiter != nil {
			chat.POST("/conversations/:id/messages", middleware.MessageRateLimitMiddleware(limiter), handlers.Chat.SendMessage)
		} else {
			chat.POST("/conversations/:id/messages", handlers.Chat.SendMessage)
		}
		chat.GET("/conversations/:id/messages", handlers.Chat.ListMessages)
		chat.POST("/conversations/:id/read", handlers.Chat.MarkRead)
	}

	// Websocket auth rides in the token query parameter, not a header.
	s.engine.GET("/ws/chat/:conversation_id", handlers.WS.HandleChat)
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}
	return nil
}
