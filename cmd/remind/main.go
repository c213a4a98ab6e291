package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/compliance-service/internal/config"
	"github.com/spec-kit/compliance-service/internal/events"
	"github.com/spec-kit/compliance-service/internal/observability"
	"github.com/spec-kit/compliance-service/internal/persistence"
	"github.com/spec-kit/compliance-service/internal/repository"
	"github.com/spec-kit/compliance-service/internal/service"
)

// remind runs one reminder or summary batch and exits. It shares the
// service wiring with the API server so a scheduled run and an on-demand
// HTTP trigger behave identically.
func main() {
	days := flag.String("days", "", "comma separated threshold days, overrides REMINDER_THRESHOLD_DAYS")
	sendToAll := flag.Bool("send-to-all", false, "send to every record inside the expiring window")
	summary := flag.Bool("summary", false, "send per-organization digests instead of owner reminders")
	asOfFlag := flag.String("as-of", "", "run as of this date (YYYY-MM-DD), defaults to now")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	asOf := time.Now().UTC()
	if *asOfFlag != "" {
		parsed, err := time.ParseInLocation("2006-01-02", *asOfFlag, time.UTC)
		if err != nil {
			logger.Fatal("invalid -as-of date", zap.String("value", *asOfFlag))
		}
		asOf = parsed
	}

	thresholds := cfg.Reminder.Thresholds
	if *days != "" {
		parsed, err := config.ParseThresholds(*days)
		if err != nil {
			logger.Fatal("invalid -days list", zap.String("value", *days))
		}
		thresholds = parsed
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	reminders := service.NewReminderService(service.ReminderDependencies{
		RecordRepo:  repository.NewRecordRepository(pool),
		UserRepo:    repository.NewUserRepository(pool),
		Notifier:    service.NewEmailDispatcher(cfg.Notification, logger),
		Dispatcher:  events.NewInMemoryDispatcher(),
		Redis:       redis,
		SendTimeout: cfg.Notification.SendTimeout(),
		Logger:      logger,
	})

	var result *service.BatchResult
	if *summary {
		result, err = reminders.SendSummary(ctx, asOf)
	} else {
		result, err = reminders.SendReminders(ctx, thresholds, asOf, *sendToAll)
	}
	if err != nil {
		logger.Fatal("batch failed", zap.Error(err))
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("encode result", zap.Error(err))
	}
	fmt.Println(string(encoded))

	if len(result.Failures) > 0 {
		os.Exit(1)
	}
}
