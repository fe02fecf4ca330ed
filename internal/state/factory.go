package state

import (
	"github.com/mohamedkhairy/market-sentry/internal/config"
	"github.com/mohamedkhairy/market-sentry/pkg/logger"
)

// NewStore builds the cooldown store selected by configuration. An
// unreachable Redis degrades to the file backend with a warning, in
// keeping with the fail-open posture of the store itself.
func NewStore(cfg *config.Config) Store {
	if cfg.StateStoreType == "redis" {
		store, err := NewRedisStore(cfg.Redis, cfg.Cooldowns)
		if err == nil {
			return store
		}
		logger.Warn("Redis cooldown store unavailable, falling back to file",
			logger.String("addr", cfg.Redis.Addr),
			logger.ErrorField(err),
		)
	}
	return NewFileStore(cfg.StatePath, cfg.Cooldowns)
}
