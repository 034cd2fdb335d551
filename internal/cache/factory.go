package cache

import (
	"time"

	"go.uber.org/zap"

	"hisaab/internal/config"
)

const sweepInterval = 5 * time.Minute

// NewTokenBlocklist returns a Redis blocklist when an address is configured and
// reachable, and an in-memory one otherwise.
func NewTokenBlocklist(cfg config.RedisConfig, log *zap.SugaredLogger) TokenBlocklist {
	if cfg.Addr == "" {
		log.Infow("using in-memory token blocklist")
		return NewInMemoryBlocklist(sweepInterval)
	}

	bl, err := NewRedisBlocklist(cfg)
	if err != nil {
		log.Warnw("Redis unavailable, falling back to in-memory token blocklist. "+
			"Logouts will not be shared between instances.",
			"addr", cfg.Addr,
			"error", err,
		)
		return NewInMemoryBlocklist(sweepInterval)
	}

	log.Infow("using Redis token blocklist", "addr", cfg.Addr)
	return bl
}
