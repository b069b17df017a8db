package auth

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

// Login verifies credentials and issues an access token.
// IMPORTANT: unknown email and wrong password return the same error.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)

	res, err := s.login(ctx, email, password)
	if err != nil {
		s.audit.LoginFailed(ctx, email, failureReason(err))
		return LoginResult{}, err
	}
	s.audit.LoginSucceeded(ctx, res.Payload.UserID, email)
	return res, nil
}

func (s *Service) login(ctx context.Context, email, password string) (LoginResult, error) {
	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return LoginResult{}, domain.ErrInvalidCredentials()
		}
		return LoginResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	claim := domain.ClaimFor(u)
	token, exp, err := s.signer.Sign(claim, s.tokenTTL)
	if err != nil {
		return LoginResult{}, domain.ErrTokenSignFailed(err)
	}

	return LoginResult{Payload: claim, AccessToken: token, ExpiresAt: exp}, nil
}
