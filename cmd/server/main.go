package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"familyhub/internal/config"
	"familyhub/internal/database"
	"familyhub/internal/handlers"
	"familyhub/internal/logging"
	"familyhub/internal/repository"
	"familyhub/internal/security"
	"familyhub/internal/service"
	"familyhub/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
		if cfg.JWTSecret == "change-me-in-production" {
			logger.Fatal("JWT_SECRET must be set in production")
		}
	}

	ctx := context.Background()

	// Database (sqlite, postgres or mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("database connection established", zap.String("type", cfg.DatabaseType))

	if err := db.RunMigrations(logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("migrations completed")

	// Rate limiting is shared through Redis when configured
	var limiter security.Limiter
	if cfg.RedisAddr != "" {
		rdb, err := security.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		limiter = security.NewRedisLimiter(rdb, cfg.RateLimit, cfg.RateLimitWindow, "familyhub:ratelimit:", logger)
	} else {
		memLimiter := security.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
		defer memLimiter.Close()
		limiter = memLimiter
	}

	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, logger)
	if err != nil {
		logger.Fatal("failed to initialize email service", zap.Error(err))
	}
	mediaStore, err := storage.NewMediaStore(ctx, storage.S3Config{
		Region:          cfg.AWSRegion,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	}, logger)
	if err != nil {
		logger.Fatal("failed to initialize media storage", zap.Error(err))
	}

	// Repositories
	familyRepo := repository.NewFamilyRepository(db)
	userRepo := repository.NewUserRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	configRepo := repository.NewQuestionConfigRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Services
	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.SessionDuration)
	authService := service.NewAuthService(db, userRepo, settingsRepo, tokens, logger)
	inviteService := service.NewInviteService(db, familyRepo, userRepo, inviteRepo, emailService,
		service.InviteConfig{TTL: cfg.InviteTTL, AppBaseURL: cfg.AppBaseURL}, logger)
	familyService := service.NewFamilyService(db, familyRepo, userRepo, logger)
	questionService := service.NewQuestionService(db, questionRepo, configRepo, engagementRepo, logger)
	answerService := service.NewAnswerService(answerRepo, questionRepo, configRepo, userRepo, logger)

	router := handlers.NewRouter(handlers.Handlers{
		Middleware: handlers.NewMiddleware(authService, limiter, logger),
		Auth:       handlers.NewAuthHandler(authService, inviteService, questionService, emailService, logger),
		Family:     handlers.NewFamilyHandler(familyService, inviteService, logger),
		Question:   handlers.NewQuestionHandler(questionService, logger),
		Answer:     handlers.NewAnswerHandler(answerService, logger),
		Media:      handlers.NewMediaHandler(authService, mediaStore, cfg.UploadMaxSize, logger),
	}, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
