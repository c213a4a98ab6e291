package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/compliance-service/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

const lastReminderRunKey = "reminders:last_run"

// StoreLastReminderRun keeps a JSON snapshot of the most recent reminder
// batch result for operational visibility. Best-effort: the snapshot is not
// a dedupe ledger and losing it has no effect on scheduling.
func (r *Redis) StoreLastReminderRun(ctx context.Context, snapshot []byte) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Set(ctx, lastReminderRunKey, snapshot, 0).Err()
}

// LastReminderRun returns the stored snapshot, or nil when none exists.
func (r *Redis) LastReminderRun(ctx context.Context) ([]byte, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("redis client not configured")
	}
	val, err := r.Client.Get(ctx, lastReminderRunKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}
