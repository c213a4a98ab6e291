package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/compliance-service/internal/events"
	"github.com/spec-kit/compliance-service/internal/lifecycle"
	"github.com/spec-kit/compliance-service/internal/persistence"
	"github.com/spec-kit/compliance-service/internal/repository"
	apperrors "github.com/spec-kit/compliance-service/pkg/util/errorutil"
)

// SkippedRecipient records why a reminder was not attempted.
type SkippedRecipient struct {
	RecordID string `json:"record_id,omitempty"`
	OrgID    string `json:"org_id,omitempty"`
	Reason   string `json:"reason"`
}

// DeliveryFailure records a dispatch error for one recipient.
type DeliveryFailure struct {
	Recipient string `json:"recipient"`
	Error     string `json:"error"`
}

// BatchResult is the structured outcome of a reminder or summary run.
// Partial failure is an expected state, not an error: callers receive the
// full result even when some deliveries failed.
type BatchResult struct {
	AsOf     time.Time          `json:"as_of"`
	Sent     int                `json:"sent"`
	Skipped  []SkippedRecipient `json:"skipped"`
	Failures []DeliveryFailure  `json:"failures"`
}

// ReminderService runs the expiry scan: per-threshold reminders to record
// owners and per-organization digests to tenant admins. The two passes are
// independent and share no de-duplication state.
type ReminderService struct {
	records     repository.RecordRepository
	users       repository.UserRepository
	notifier    NotificationDispatcher
	dispatcher  events.Dispatcher
	redis       *persistence.Redis
	sendTimeout time.Duration
	logger      *zap.Logger
}

// ReminderDependencies bundles requirements for the reminder service.
type ReminderDependencies struct {
	RecordRepo  repository.RecordRepository
	UserRepo    repository.UserRepository
	Notifier    NotificationDispatcher
	Dispatcher  events.Dispatcher
	Redis       *persistence.Redis
	SendTimeout time.Duration
	Logger      *zap.Logger
}

// NewReminderService constructs the service.
func NewReminderService(deps ReminderDependencies) *ReminderService {
	timeout := deps.SendTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ReminderService{
		records:     deps.RecordRepo,
		users:       deps.UserRepo,
		notifier:    deps.Notifier,
		dispatcher:  deps.Dispatcher,
		redis:       deps.Redis,
		sendTimeout: timeout,
		logger:      deps.Logger,
	}
}

// SendReminders notifies record owners whose expiry matches a threshold
// exactly as of asOf. With sendToAll every record inside the 30-day window
// gets a reminder regardless of the threshold schedule. Delivery problems
// are collected per recipient and never abort the batch.
func (s *ReminderService) SendReminders(ctx context.Context, thresholds []int, asOf time.Time, sendToAll bool) (*BatchResult, error) {
	if len(thresholds) == 0 {
		thresholds = lifecycle.DefaultThresholds
	}

	maxDays := lifecycle.ExpiringWindowDays
	for _, d := range thresholds {
		if d > maxDays {
			maxDays = d
		}
	}

	records, err := s.records.ListExpiringBetween(ctx, asOf.AddDate(0, 0, -1), asOf.AddDate(0, 0, maxDays))
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	var due []lifecycle.DueReminder
	if sendToAll {
		due = lifecycle.WindowReminders(records, asOf)
	} else {
		due = lifecycle.DueReminders(records, thresholds, asOf)
	}

	result := newBatchResult(asOf)
	for _, reminder := range due {
		s.sendOwnerReminder(ctx, reminder, result)
	}

	s.finishBatch(ctx, result)
	return result, nil
}

// SendSummary sends each organization's admins a single digest of all
// records expiring within the 30-day window as of asOf.
func (s *ReminderService) SendSummary(ctx context.Context, asOf time.Time) (*BatchResult, error) {
	records, err := s.records.ListExpiringBetween(ctx, asOf.AddDate(0, 0, -1), asOf.AddDate(0, 0, lifecycle.ExpiringWindowDays))
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	result := newBatchResult(asOf)
	for _, digest := range lifecycle.BuildDigests(records, asOf) {
		s.sendOrgDigest(ctx, digest, result)
	}

	s.finishBatch(ctx, result)
	return result, nil
}

// LastRun returns the stored snapshot of the most recent batch, if any.
func (s *ReminderService) LastRun(ctx context.Context) (*BatchResult, error) {
	if s.redis == nil {
		return nil, nil
	}
	raw, err := s.redis.LastReminderRun(ctx)
	if err != nil || raw == nil {
		return nil, err
	}
	var result BatchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ReminderService) sendOwnerReminder(ctx context.Context, reminder lifecycle.DueReminder, result *BatchResult) {
	rec := reminder.Record

	owner, err := s.users.GetByID(ctx, rec.UserID)
	if err != nil {
		result.Skipped = append(result.Skipped, SkippedRecipient{
			RecordID: rec.ID,
			Reason:   "owner not found",
		})
		return
	}
	if owner.Email == "" {
		result.Skipped = append(result.Skipped, SkippedRecipient{
			RecordID: rec.ID,
			Reason:   "no delivery address",
		})
		return
	}

	notification := Notification{
		Recipient: owner.Email,
		Template:  "credential_expiry_reminder",
		Subject:   fmt.Sprintf("%s expires in %d days", rec.SubjectName, reminder.ThresholdDays),
		Data: map[string]any{
			"record_id":    rec.ID,
			"subject_name": rec.SubjectName,
			"kind":         rec.Kind,
			"type_tag":     rec.TypeTag,
			"days_left":    reminder.ThresholdDays,
			"expiry_date":  rec.ExpiryDate,
		},
	}
	s.deliver(ctx, notification, result)
}

func (s *ReminderService) sendOrgDigest(ctx context.Context, digest lifecycle.Digest, result *BatchResult) {
	admins, err := s.users.ListAdminsByOrg(ctx, digest.OrgID)
	if err != nil {
		result.Skipped = append(result.Skipped, SkippedRecipient{
			OrgID:  digest.OrgID,
			Reason: "admin lookup failed",
		})
		s.logger.Warn("digest admin lookup failed", zap.String("org_id", digest.OrgID), zap.Error(err))
		return
	}
	if len(admins) == 0 {
		result.Skipped = append(result.Skipped, SkippedRecipient{
			OrgID:  digest.OrgID,
			Reason: "no admin recipients",
		})
		return
	}

	entries := make([]map[string]any, 0, len(digest.Entries))
	for _, entry := range digest.Entries {
		entries = append(entries, map[string]any{
			"record_id":    entry.Record.ID,
			"subject_name": entry.Record.SubjectName,
			"kind":         entry.Record.Kind,
			"days_left":    entry.DaysUntil,
			"expiry_date":  entry.Record.ExpiryDate,
		})
	}

	for _, admin := range admins {
		if admin.Email == "" {
			result.Skipped = append(result.Skipped, SkippedRecipient{
				OrgID:  digest.OrgID,
				Reason: "no delivery address",
			})
			continue
		}
		notification := Notification{
			Recipient: admin.Email,
			Template:  "expiry_digest",
			Subject:   fmt.Sprintf("%d records expiring within %d days", len(digest.Entries), lifecycle.ExpiringWindowDays),
			Data: map[string]any{
				"org_id":  digest.OrgID,
				"count":   len(digest.Entries),
				"records": entries,
			},
		}
		s.deliver(ctx, notification, result)
	}
}

func (s *ReminderService) deliver(ctx context.Context, n Notification, result *BatchResult) {
	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	err := s.notifier.Send(sendCtx, n)
	cancel()
	if err != nil {
		result.Failures = append(result.Failures, DeliveryFailure{
			Recipient: n.Recipient,
			Error:     err.Error(),
		})
		s.logger.Warn("notification dispatch failed",
			zap.String("recipient", n.Recipient),
			zap.String("template", n.Template),
			zap.Error(err))
		return
	}
	result.Sent++
}

func (s *ReminderService) finishBatch(ctx context.Context, result *BatchResult) {
	publish(ctx, s.dispatcher, events.Event{
		Type:       events.EventReminderBatchDone,
		ActorID:    "system",
		EntityType: "reminder_batch",
		Payload: events.ReminderBatchPayload{
			Sent:    result.Sent,
			Skipped: len(result.Skipped),
			Failed:  len(result.Failures),
		},
	})

	if s.redis != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := s.redis.StoreLastReminderRun(ctx, raw); err != nil {
				s.logger.Debug("could not store reminder run snapshot", zap.Error(err))
			}
		}
	}

	s.logger.Info("reminder batch finished",
		zap.Int("sent", result.Sent),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("failed", len(result.Failures)))
}

func newBatchResult(asOf time.Time) *BatchResult {
	return &BatchResult{
		AsOf:     asOf,
		Skipped:  []SkippedRecipient{},
		Failures: []DeliveryFailure{},
	}
}
