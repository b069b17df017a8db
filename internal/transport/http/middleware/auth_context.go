package middleware

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

type ctxKey string

const ctxClaim ctxKey = "session_claim"

func WithClaim(ctx context.Context, c domain.SessionClaim) context.Context {
	return context.WithValue(ctx, ctxClaim, c)
}

func ClaimFromContext(ctx context.Context) (domain.SessionClaim, bool) {
	c, ok := ctx.Value(ctxClaim).(domain.SessionClaim)
	return c, ok && c.UserID > 0
}
