package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/compliance-service/internal/api/http"
	"github.com/spec-kit/compliance-service/internal/api/http/handlers"
	"github.com/spec-kit/compliance-service/internal/auth"
	"github.com/spec-kit/compliance-service/internal/config"
	"github.com/spec-kit/compliance-service/internal/events"
	"github.com/spec-kit/compliance-service/internal/observability"
	"github.com/spec-kit/compliance-service/internal/persistence"
	"github.com/spec-kit/compliance-service/internal/repository"
	"github.com/spec-kit/compliance-service/internal/service"
	"github.com/spec-kit/compliance-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	orgRepo := repository.NewOrganizationRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	recordRepo := repository.NewRecordRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo)
	recordService := service.NewRecordService(service.RecordDependencies{
		RecordRepo: recordRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	userService := service.NewUserService(userRepo, dispatcher, cfg.Auth.BcryptCost)
	orgService := service.NewOrgService(orgRepo, dispatcher)
	notifier := service.NewEmailDispatcher(cfg.Notification, logger)
	reminderService := service.NewReminderService(service.ReminderDependencies{
		RecordRepo:  recordRepo,
		UserRepo:    userRepo,
		Notifier:    notifier,
		Dispatcher:  dispatcher,
		Redis:       redis,
		SendTimeout: cfg.Notification.SendTimeout(),
		Logger:      logger,
	})
	activityService := service.NewActivityService(activityRepo, logger)
	activityService.RegisterHandlers(dispatcher)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Records:        handlers.NewRecordsHandler(recordService),
		Users:          handlers.NewUsersHandler(userService),
		Organizations:  handlers.NewOrganizationsHandler(orgService),
		Reminders:      handlers.NewRemindersHandler(reminderService, cfg.Reminder.Thresholds),
		Activity:       handlers.NewActivityHandler(activityService),
		AuthMiddleware: authMiddleware,
	})

	reminderWorker := worker.NewReminderWorker(reminderService, cfg.Reminder, logger)
	if err := reminderWorker.Start(); err != nil {
		logger.Fatal("failed to start reminder worker", zap.Error(err))
	}
	defer reminderWorker.Stop()

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
