package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/assessai/scoring-api/internal/config"
	"github.com/assessai/scoring-api/internal/consumer"
	"github.com/assessai/scoring-api/internal/database"
	"github.com/assessai/scoring-api/internal/handler"
	"github.com/assessai/scoring-api/internal/middleware"
	"github.com/assessai/scoring-api/internal/models"
	"github.com/assessai/scoring-api/internal/repository"
	"github.com/assessai/scoring-api/internal/router"
	"github.com/assessai/scoring-api/internal/service"
	"github.com/assessai/scoring-api/internal/strategy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Score{}, &models.GradingResult{}, &models.ScoringRule{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, statistics caching disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, asynchronous scoring disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	scoreRepo := repository.NewScoreRepository(db)
	resultRepo := repository.NewGradingResultRepository(db)
	ruleRepo := repository.NewScoringRuleRepository(db)

	registry := strategy.NewRegistry()

	var publisher service.ResultPublisher
	if natsConn != nil {
		publisher = consumer.NewNATSResultPublisher(natsConn, cfg.ResultSubject, logger)
	}

	scoringService := service.NewScoringService(scoreRepo, resultRepo, ruleRepo, registry, redisClient, cfg.StatisticsCacheTTL, publisher, validate, logger)
	evaluationService := service.NewEvaluationService(validate, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if natsConn != nil {
		scoringConsumer := consumer.NewScoringConsumer(natsConn, scoringService, cfg.ScoringSubject, cfg.ScoringQueueGroup, cfg.DeadLetterSubject, logger)
		if err := scoringConsumer.Start(ctx); err != nil {
			log.Fatalf("failed to start scoring consumer: %v", err)
		}
	}

	scoringHandler := handler.NewScoringHandler(scoringService, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ScoringHandler:    scoringHandler,
		EvaluationHandler: evaluationHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(ctx, app)
}

func waitForShutdown(ctx context.Context, app *fiber.App) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
