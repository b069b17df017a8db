package bootstrap

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/logger"
)

type blacklistPurger interface {
	PurgeBlacklist(ctx context.Context) (int64, error)
}

// startBlacklistJanitor deletes expired blacklist rows every interval until
// ctx is done. The returned channel closes when the goroutine exits.
// A non-positive interval disables it.
func startBlacklistJanitor(ctx context.Context, p blacklistPurger, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		log := logger.Logger.With().Str("component", "blacklist_janitor").Logger()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// once on startup
		purgeOnce(ctx, p)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("stopped")
				return
			case <-ticker.C:
				purgeOnce(ctx, p)
			}
		}
	}()
	return done
}

func purgeOnce(ctx context.Context, p blacklistPurger) {
	n, err := p.PurgeBlacklist(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Logger.Warn().Err(err).Msg("blacklist purge failed")
		}
		return
	}
	if n > 0 {
		logger.Logger.Info().Int64("deleted", n).Msg("expired blacklist entries purged")
	}
}
