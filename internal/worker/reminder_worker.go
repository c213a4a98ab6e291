package worker

import (
	"context"
	"time"

	"github.com/robfig/cron"
	"go.uber.org/zap"

	"github.com/spec-kit/compliance-service/internal/config"
	"github.com/spec-kit/compliance-service/internal/service"
)

// ReminderWorker drives the daily expiry scan through a cron schedule. A
// single schedule entry triggers both the per-threshold reminder pass and
// the per-organization digest pass. There is no cross-process overlap
// protection; the deployment runs one worker instance.
type ReminderWorker struct {
	cron      *cron.Cron
	reminders *service.ReminderService
	cfg       config.ReminderConfig
	logger    *zap.Logger
}

// NewReminderWorker constructs the worker.
func NewReminderWorker(reminders *service.ReminderService, cfg config.ReminderConfig, logger *zap.Logger) *ReminderWorker {
	return &ReminderWorker{
		cron:      cron.New(),
		reminders: reminders,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the schedule and begins running in the background.
func (w *ReminderWorker) Start() error {
	if err := w.cron.AddFunc(w.cfg.CronSpec, w.runOnce); err != nil {
		return err
	}
	w.cron.Start()
	w.logger.Info("reminder worker started", zap.String("cron_spec", w.cfg.CronSpec))
	return nil
}

// Stop halts the schedule. An in-flight run is not interrupted.
func (w *ReminderWorker) Stop() {
	w.cron.Stop()
	w.logger.Info("reminder worker stopped")
}

func (w *ReminderWorker) runOnce() {
	ctx := context.Background()
	asOf := time.Now().UTC()

	if _, err := w.reminders.SendReminders(ctx, w.cfg.Thresholds, asOf, false); err != nil {
		w.logger.Error("reminder pass failed", zap.Error(err))
	}
	if _, err := w.reminders.SendSummary(ctx, asOf); err != nil {
		w.logger.Error("digest pass failed", zap.Error(err))
	}
}
