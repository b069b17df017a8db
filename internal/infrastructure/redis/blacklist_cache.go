package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/logger"
)

// dbHitTTL bounds how long a revocation found in Postgres is cached when
// its real expiry is unknown to this process.
const dbHitTTL = 5 * time.Minute

// CachedBlacklist decorates an auth.Blacklist with a Redis cache of revoked tokens.
// - Write path (Add): DB -> Redis set with TTL = token expiry (best effort)
// - Read path: Redis hit -> revoked; miss or Redis error -> DB
// Only revocations are cached, never "not revoked".
type CachedBlacklist struct {
	inner   auth.Blacklist
	rdb     *goredis.Client
	keyPref string
	now     func() time.Time
}

func NewCachedBlacklist(inner auth.Blacklist, client *Client) *CachedBlacklist {
	var rdb *goredis.Client
	if client != nil {
		rdb = client.rdb
	}
	return &CachedBlacklist{
		inner:   inner,
		rdb:     rdb,
		keyPref: "blacklist:",
		now:     time.Now,
	}
}

// key is shared by every header spelling of a token.
func (c *CachedBlacklist) key(tokenOrHeader string) string {
	return c.keyPref + domain.RevocationKey(tokenOrHeader)
}

func (c *CachedBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) (domain.BlacklistedToken, error) {
	rec, err := c.inner.Add(ctx, token, expiresAt)
	if err != nil {
		return domain.BlacklistedToken{}, err
	}

	if c.rdb != nil {
		if ttl := rec.ExpiresAt.Sub(c.now()); ttl > 0 {
			if err := c.rdb.Set(ctx, c.key(token), "1", ttl).Err(); err != nil {
				logger.WithCtx(ctx).Warn().Err(err).Msg("blacklist cache set failed")
			}
		}
	}
	return rec, nil
}

func (c *CachedBlacklist) IsRevoked(ctx context.Context, bareToken string) (bool, error) {
	if bareToken == "" {
		return false, nil
	}

	if c.rdb != nil {
		n, err := c.rdb.Exists(ctx, c.key(bareToken)).Result()
		switch {
		case err == nil && n > 0:
			return true, nil
		case err != nil && !errors.Is(err, goredis.Nil):
			// redis down: Postgres still answers
			logger.WithCtx(ctx).Warn().Err(err).Msg("blacklist cache read failed")
		}
	}

	revoked, err := c.inner.IsRevoked(ctx, bareToken)
	if err != nil {
		return false, err
	}
	if revoked && c.rdb != nil {
		_ = c.rdb.Set(ctx, c.key(bareToken), "1", dbHitTTL).Err()
	}
	return revoked, nil
}

// PurgeExpired only touches Postgres; cached entries expire by TTL.
func (c *CachedBlacklist) PurgeExpired(ctx context.Context) (int64, error) {
	return c.inner.PurgeExpired(ctx)
}
