package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/JoaoPedroVicentin/daily-diet-api/internal/config"
	"github.com/JoaoPedroVicentin/daily-diet-api/internal/db"
	apihttp "github.com/JoaoPedroVicentin/daily-diet-api/internal/http"
	"github.com/JoaoPedroVicentin/daily-diet-api/internal/repository"
	"github.com/JoaoPedroVicentin/daily-diet-api/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	sessionStore := service.NewMemorySessionStore()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory sessions", zap.Error(err))
		} else {
			sessionStore = service.NewRedisSessionStore(redisClient)
		}
		cancel()
	}

	userRepo := repository.NewPgUserRepository(pool)
	mealRepo := repository.NewPgMealRepository(pool)

	userSvc := service.NewUserService(logger, userRepo, sessionStore, sessionTTL)
	mealSvc := service.NewMealService(logger, mealRepo)

	userHandler := apihttp.NewUserHandler(logger, userSvc, sessionTTL)
	mealHandler := apihttp.NewMealHandler(logger, mealSvc)
	healthHandler := apihttp.NewHealthHandler(logger, func(ctx context.Context) error {
		return db.Ping(ctx, pool)
	})
	router := apihttp.NewRouter(logger, userHandler, mealHandler, healthHandler, sessionStore)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
