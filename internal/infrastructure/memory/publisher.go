package memory

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/logger"
)

// NoopPublisher stands in for RabbitMQ when no broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	logger.WithCtx(ctx).Debug().
		Str("publisher", "noop").
		Int64("user_id", evt.UserID).
		Msg("user registered")
	return nil
}
