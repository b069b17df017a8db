package auth

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

// Logout blacklists the Authorization header value until the token expires.
// Only the signature is checked, so logging out twice is harmless.
func (s *Service) Logout(ctx context.Context, header string) (domain.BlacklistedToken, error) {
	rec, userID, err := s.logout(ctx, header)
	if err != nil {
		s.audit.LogoutFailed(ctx, failureReason(err))
		return domain.BlacklistedToken{}, err
	}
	s.audit.LoggedOut(ctx, userID, rec.ExpiresAt)
	return rec, nil
}

func (s *Service) logout(ctx context.Context, header string) (domain.BlacklistedToken, int64, error) {
	token := BearerToken(header)
	if token == "" {
		return domain.BlacklistedToken{}, 0, domain.ErrTokenMissing()
	}

	claims, err := s.signer.Verify(token)
	if err != nil {
		return domain.BlacklistedToken{}, 0, err
	}

	rec, err := s.blacklist.Add(ctx, header, claims.ExpiresAt)
	if err != nil {
		return domain.BlacklistedToken{}, 0, err
	}
	return rec, claims.Claim.UserID, nil
}

// PurgeBlacklist drops entries whose token has already expired.
func (s *Service) PurgeBlacklist(ctx context.Context) (int64, error) {
	return s.blacklist.PurgeExpired(ctx)
}
