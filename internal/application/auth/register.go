package auth

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/logger"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates the account and provisions its profile.
// The provisioner call blocks; its failure is returned to the caller
// with the downstream status, and the user row is kept.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	switch {
	case in.Name == "":
		return domain.User{}, domain.ErrMissingField("name")
	case in.Email == "":
		return domain.User{}, domain.ErrMissingField("email")
	case in.Password == "":
		return domain.User{}, domain.ErrMissingField("password")
	}

	created, err := s.register(ctx, in)
	if err != nil {
		s.audit.RegisterFailed(ctx, in.Email, failureReason(err))
		return domain.User{}, err
	}
	s.audit.RegisterSucceeded(ctx, created.ID, created.Email)
	return created, nil
}

func (s *Service) register(ctx context.Context, in RegisterInput) (domain.User, error) {
	// Fast path only; the unique constraint is what actually guards the email.
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	} else if !domain.Is(err, "user_not_found") {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, domain.ErrHashFailed(err)
	}

	created, err := s.users.Create(ctx, domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return domain.User{}, err
	}

	if err := s.profiles.Provision(ctx, created); err != nil {
		return domain.User{}, err
	}

	if s.pub != nil {
		evt := UserRegisteredEvent{UserID: created.ID, Email: created.Email, Name: created.Name}
		if err := s.pub.PublishUserRegistered(ctx, evt); err != nil {
			logger.WithCtx(ctx).Warn().Err(err).
				Int64("user_id", created.ID).
				Msg("publish user_registered failed")
		}
	}

	return created, nil
}
