package state

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mohamedkhairy/market-sentry/internal/config"
	"github.com/mohamedkhairy/market-sentry/internal/models"
	"github.com/mohamedkhairy/market-sentry/pkg/logger"
)

const (
	cooldownKeyPrefix = "cooldown:"
	redisOpTimeout    = 5 * time.Second
)

// redisClient is the subset of the go-redis API the store needs.
// *redis.Client satisfies it.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps cooldown state in Redis, one key per rule name
// holding the last-fire timestamp. Keys expire after the largest
// configured window so stale rules clean themselves up.
type RedisStore struct {
	client    redisClient
	cooldowns config.Cooldowns
	now       func() time.Time
}

// NewRedisStore connects to Redis and returns a cooldown store backed
// by it.
func NewRedisStore(cfg config.RedisConfig, cooldowns config.Cooldowns) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.Info("Connected to Redis cooldown store",
		logger.String("addr", cfg.Addr),
	)

	return &RedisStore{
		client:    rdb,
		cooldowns: cooldowns,
		now:       time.Now,
	}, nil
}

// ShouldFire implements Store. Any Redis failure or malformed value
// fails open toward firing.
func (s *RedisStore) ShouldFire(ruleName string, severity models.Severity) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	value, err := s.client.Get(ctx, cooldownKeyPrefix+ruleName).Result()
	if err == redis.Nil {
		return true
	}
	if err != nil {
		logger.Warn("Cooldown lookup failed, firing anyway",
			logger.String("rule", ruleName),
			logger.ErrorField(err),
		)
		return true
	}

	lastFire, ok := parseLastFire(value)
	if !ok {
		return true
	}

	return s.now().Sub(lastFire) >= s.cooldowns.Window(string(severity))
}

// RecordFire implements Store.
func (s *RedisStore) RecordFire(ruleName string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	ttl := s.maxWindow()
	err := s.client.Set(ctx, cooldownKeyPrefix+ruleName, s.now().Format(time.RFC3339), ttl).Err()
	if err != nil {
		logger.Warn("Could not record fire in Redis",
			logger.String("rule", ruleName),
			logger.ErrorField(err),
		)
	}
}

// maxWindow returns the largest configured cooldown window.
func (s *RedisStore) maxWindow() time.Duration {
	max := s.cooldowns.Window(string(models.SeverityCritical))
	for _, severity := range []models.Severity{models.SeverityHigh, models.SeverityMedium, models.SeverityLow} {
		if w := s.cooldowns.Window(string(severity)); w > max {
			max = w
		}
	}
	return max
}
