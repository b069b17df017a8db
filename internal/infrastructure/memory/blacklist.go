package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

// Blacklist keeps entries by domain.RevocationKey.
type Blacklist struct {
	mu      sync.RWMutex
	nextID  int64
	entries map[string]domain.BlacklistedToken
	now     func() time.Time
}

func NewBlacklist() *Blacklist {
	return &Blacklist{
		entries: make(map[string]domain.BlacklistedToken),
		now:     time.Now,
	}
}

func (b *Blacklist) Add(ctx context.Context, token string, expiresAt time.Time) (domain.BlacklistedToken, error) {
	key := domain.RevocationKey(token)
	if key == "" {
		return domain.BlacklistedToken{}, domain.ErrTokenMissing()
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.entries[key]
	if !ok {
		b.nextID++
		rec = domain.BlacklistedToken{ID: b.nextID, CreatedAt: b.now().UTC()}
	}
	rec.Token = token
	rec.ExpiresAt = expiresAt.UTC()
	b.entries[key] = rec
	return rec, nil
}

func (b *Blacklist) IsRevoked(ctx context.Context, bareToken string) (bool, error) {
	key := domain.RevocationKey(bareToken)
	if key == "" {
		return false, nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	rec, ok := b.entries[key]
	return ok && rec.Active(b.now()), nil
}

func (b *Blacklist) PurgeExpired(ctx context.Context) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	var n int64
	for k, rec := range b.entries {
		if !rec.Active(now) {
			delete(b.entries, k)
			n++
		}
	}
	return n, nil
}
