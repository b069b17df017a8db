package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

// BlacklistRepo stores logged-out tokens in blacklisted_tokens.
type BlacklistRepo struct {
	db *sql.DB
}

func NewBlacklistRepo(db *sql.DB) *BlacklistRepo {
	return &BlacklistRepo{db: db}
}

// Add records token (the Authorization header as sent) under its
// revocation key. Logging out the same token again, in any spelling, keeps
// one row holding the latest header and expiry.
func (r *BlacklistRepo) Add(ctx context.Context, token string, expiresAt time.Time) (domain.BlacklistedToken, error) {
	key := domain.RevocationKey(token)
	if key == "" {
		return domain.BlacklistedToken{}, domain.ErrTokenMissing()
	}

	const q = `
INSERT INTO blacklisted_tokens (token, token_key, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (token_key) DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at
RETURNING id, token, expires_at, created_at`

	var rec domain.BlacklistedToken
	err := r.db.QueryRowContext(ctx, q, token, key, expiresAt.UTC()).
		Scan(&rec.ID, &rec.Token, &rec.ExpiresAt, &rec.CreatedAt)
	if err != nil {
		return domain.BlacklistedToken{}, domain.ErrDBUnavailable(err)
	}
	return rec, nil
}

// IsRevoked looks the token up by revocation key.
// Expired rows are ignored even before the purge removes them.
func (r *BlacklistRepo) IsRevoked(ctx context.Context, bareToken string) (bool, error) {
	key := domain.RevocationKey(bareToken)
	if key == "" {
		return false, nil
	}

	const q = `
SELECT EXISTS (
    SELECT 1 FROM blacklisted_tokens
    WHERE token_key = $1 AND expires_at > NOW()
)`

	var found bool
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&found); err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return found, nil
}

func (r *BlacklistRepo) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blacklisted_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
