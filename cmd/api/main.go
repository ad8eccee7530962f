package main

import (
	"context"
	"log"
	stdhttp "net/http"

	"tarot-service/pkg/cache"
	"tarot-service/pkg/config"
	"tarot-service/pkg/deck"
	"tarot-service/pkg/http"
	"tarot-service/pkg/logging"
	"tarot-service/pkg/reading"
	"tarot-service/pkg/service"
	"tarot-service/pkg/storage"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("service is not configured: ", err)
	}

	logger := logging.NewLogger(logging.LogLevel(cfg.LogLevel))
	ctx := context.Background()

	// DB connection + migrations
	pool, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	// Redis connection
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := redis.NewClient(opt)
	defer redisClient.Close()

	// Stores and caches
	linkStorage := storage.NewPostgresLinkStorage(pool)
	consultationStorage := storage.NewPostgresConsultationStorage(pool)
	linkCache := cache.NewLinkCache(redisClient)
	sessionStore := cache.NewSessionStore(redisClient)

	// Reading generator
	generator, err := reading.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal(err)
	}

	// Services
	linkService := service.NewLinkService(linkStorage, linkCache, logger, cfg.BaseURL)
	consultationService := service.NewConsultationService(consultationStorage, logger)
	sessionService := service.NewSessionService(
		linkService,
		consultationService,
		generator,
		sessionStore,
		deck.NewTimeSeededDealer(),
		logger,
		cfg.SessionTTL,
	)

	// Handler
	handler := http.NewHandler(linkService, sessionService, logger)

	// Router
	r := chi.NewRouter()
	http.SetupRoutes(r, handler, logger)

	// Server
	log.Println("Starting API server on", cfg.HTTPAddr)
	log.Fatal(stdhttp.ListenAndServe(cfg.HTTPAddr, r))
}
