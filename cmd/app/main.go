package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pr-review-notifier/internal/config"
	"pr-review-notifier/internal/database"
	"pr-review-notifier/internal/domain"
	"pr-review-notifier/internal/event"
	"pr-review-notifier/internal/handler"
	"pr-review-notifier/internal/notify"
	"pr-review-notifier/internal/repository"
	"pr-review-notifier/internal/scope"
	"pr-review-notifier/internal/usecase"
	"pr-review-notifier/internal/vcs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	// Логгер
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Конфиг
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warnf(".env not found: %v", err)
	}

	// Хранилище агрегатов
	var prRepo domain.PRRepository
	if cfg.Storage == "memory" {
		prRepo = repository.NewMemoryPRRepository()
		logger.Info("Using in-memory storage")
	} else {
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			logger.Fatalf("Database connection failed: %v", err)
		}
		defer db.Close()
		logger.Info("Database connected")
		prRepo = repository.NewPRRepository(db)
	}

	// Allow-list поддерживаемых репозиториев и каналов
	isSupported := scope.NewAllowList(cfg.SupportedRepositories, cfg.SupportedChannels)

	// Шина событий и диспетчер уведомлений
	eventBus := event.NewBus(logger)
	chatClient := notify.NewSlackClient(cfg.SlackToken)
	dispatcher := notify.NewDispatcher(prRepo, chatClient, logger)
	dispatcher.Register(eventBus)

	// Command handlers
	putToReview := usecase.NewPutPRToReviewHandler(prRepo, isSupported, eventBus, logger, cfg.AnnounceNewPR)
	newReview := usecase.NewNewReviewHandler(prRepo, isSupported, eventBus, logger)
	ciStatus := usecase.NewCIStatusUpdateHandler(prRepo, isSupported, eventBus, logger)
	mergePR := usecase.NewMergePRHandler(prRepo, isSupported, eventBus, logger)

	// Echo + Handlers
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(handler.LoggingMiddleware(logger))

	prFinder := vcs.NewGithubPRFinder(cfg.GithubToken)
	webhookHandler := handler.NewWebhookHandler(newReview, ciStatus, mergePR, prFinder, cfg.GithubWebhookSecret, logger)
	chatHandler := handler.NewChatHandler(putToReview, logger)
	prHandler := handler.NewPRHandler(prRepo, logger)

	e.POST("/vcs/github", webhookHandler.PostGithubEvent)
	e.POST("/chat/putToReview", chatHandler.PostPutToReview)
	e.GET("/prs", prHandler.GetPRs)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// Запуск сервера
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil {
			logger.Infof("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatalf("Shutdown failed: %v", err)
	}

	logger.Info("Server exited")
}
