package auth

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

// BearerToken strips a case-insensitive "Bearer " prefix.
// A header without the prefix is taken as the bare token.
func BearerToken(header string) string {
	return domain.BareToken(header)
}

// Authenticate resolves the caller from an Authorization header value.
// A validly signed token fails once it has been logged out.
func (s *Service) Authenticate(ctx context.Context, header string) (domain.SessionClaim, error) {
	token := BearerToken(header)
	if token == "" {
		return domain.SessionClaim{}, domain.ErrTokenMissing()
	}

	claims, err := s.signer.Verify(token)
	if err != nil {
		return domain.SessionClaim{}, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, token)
	if err != nil {
		return domain.SessionClaim{}, err
	}
	if revoked {
		return domain.SessionClaim{}, domain.ErrTokenRevoked()
	}
	return claims.Claim, nil
}

// CurrentUser loads the account behind an already verified claim.
// A token whose user no longer exists is treated as invalid.
func (s *Service) CurrentUser(ctx context.Context, claim domain.SessionClaim) (domain.PublicUser, error) {
	u, err := s.users.GetByID(ctx, claim.UserID)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return domain.PublicUser{}, domain.ErrTokenInvalid()
		}
		return domain.PublicUser{}, err
	}
	return u.Public(), nil
}

// Profile is Authenticate followed by CurrentUser.
func (s *Service) Profile(ctx context.Context, header string) (domain.PublicUser, error) {
	claim, err := s.Authenticate(ctx, header)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return s.CurrentUser(ctx, claim)
}
