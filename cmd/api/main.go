package main

import (
	"context"
	"log"
	"time"

	"zattar/config"
	"zattar/internal/handler"
	zredis "zattar/internal/redis"
	"zattar/internal/repository"
	"zattar/internal/server"
	"zattar/internal/services"
	"zattar/internal/sweeper"
	"zattar/internal/websocket"
	"zattar/pkg/database"
	"zattar/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)
	defer l.Logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	redisClient := zredis.NewClient(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := zredis.Ping(ctx, redisClient); err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	listingRepo := repository.NewListingRepository(db)
	dealRepo := repository.NewDealRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	cache := zredis.NewCacheStore(redisClient, zredis.DefaultCacheConfig())
	limiter := zredis.NewRateLimiter(redisClient, zredis.DefaultRateLimitConfig())
	publisher := zredis.NewPublisher(redisClient)
	subscriber := zredis.NewSubscriber(redisClient)

	authService := services.NewAuthService(userRepo, cfg)
	categoryService := services.NewCategoryService(categoryRepo)
	listingService := services.NewListingService(listingRepo, categoryRepo, cache)
	chatService := services.NewChatService(conversationRepo, messageRepo)
	dealService := services.NewDealService(dealRepo, l, time.Duration(cfg.SafeDealTimeoutDays)*24*time.Hour)

	hub := websocket.NewHub(l)
	wsHandler := websocket.NewHandler(hub, chatService, authService, publisher, limiter, l)

	bridge := websocket.NewBridge(hub, subscriber, l)
	go func() {
		if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
			l.Errorf("event bridge stopped: %v", err)
		}
	}()

	sweep := sweeper.New(dealService, l, time.Duration(cfg.SweepIntervalSec)*time.Second)
	go sweep.Run(ctx)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Category: handler.NewCategoryHandler(categoryService),
		Listing:  handler.NewListingHandler(listingService, cfg.DefaultCurrency),
		Deal:     handler.NewDealHandler(dealService, listingService, chatService, publisher, cfg.DefaultCurrency),
		Chat:     handler.NewChatHandler(chatService, publisher),
		WS:       wsHandler,
	}, authService, limiter, db)

	if err := srv.Start(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
