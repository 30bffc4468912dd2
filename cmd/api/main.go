package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hqnguyen/defense-eval-api/internal/config"
	"github.com/hqnguyen/defense-eval-api/internal/database"
	"github.com/hqnguyen/defense-eval-api/internal/handler"
	"github.com/hqnguyen/defense-eval-api/internal/middleware"
	"github.com/hqnguyen/defense-eval-api/internal/models"
	"github.com/hqnguyen/defense-eval-api/internal/repository"
	"github.com/hqnguyen/defense-eval-api/internal/router"
	"github.com/hqnguyen/defense-eval-api/internal/service"
	"github.com/hqnguyen/defense-eval-api/pkg/llm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL, database.PostgresOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		LogQueries:      cfg.AppEnv == "development",
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Major{}, &models.Rubric{},
		&models.Lecturer{}, &models.Council{}, &models.CouncilMember{},
		&models.Student{}, &models.StudentGroup{}, &models.GroupMember{},
		&models.DefenseSession{}, &models.AnalysisSnapshot{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	completer, err := llm.New(llm.Config{
		BaseURL:        cfg.LLMBaseURL,
		APIKey:         cfg.LLMAPIKey,
		Model:          cfg.LLMModel,
		MaxTokens:      cfg.LLMMaxTokens,
		Temperature:    cfg.LLMTemperature,
		TopP:           cfg.LLMTopP,
		RequestTimeout: cfg.LLMRequestTimeout,
		Logger:         logger,
	})
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	sessionRepo := repository.NewSessionRepository(db)
	councilRepo := repository.NewCouncilRepository(db)
	majorRepo := repository.NewMajorRepository(db)
	rubricRepo := repository.NewRubricRepository(db)
	committeeRepo := repository.NewCommitteeRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	loader := service.NewSessionContextLoader(sessionRepo, councilRepo, majorRepo, rubricRepo, committeeRepo, groupRepo, logger)
	analysisService := service.NewAnalysisService(loader, redisClient, completer, snapshotRepo, cfg.LLMModel, logger)
	reportService := service.NewReportService(loader, analysisService, snapshotRepo, cfg.LLMModel, logger)

	analysisHandler := handler.NewAnalysisHandler(analysisService, reportService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		AnalysisHandler: analysisHandler,
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
