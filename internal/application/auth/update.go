package auth

import (
	"context"
	"strings"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

// UpdateInput holds the optional new values; empty means unchanged.
type UpdateInput struct {
	Name     string
	Password string
}

// Update changes the caller's own name and/or password.
// sel narrows the target; an empty selector means the caller.
func (s *Service) Update(ctx context.Context, caller domain.SessionClaim, sel domain.UserSelector, in UpdateInput) (domain.PublicUser, error) {
	updated, err := s.update(ctx, caller, sel, in)
	if err != nil {
		s.audit.UpdateFailed(ctx, caller.UserID, failureReason(err))
		return domain.PublicUser{}, err
	}
	s.audit.AccountUpdated(ctx, updated.ID, strings.TrimSpace(in.Name) != "", in.Password != "")
	return updated, nil
}

func (s *Service) update(ctx context.Context, caller domain.SessionClaim, sel domain.UserSelector, in UpdateInput) (domain.PublicUser, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" && in.Password == "" {
		return domain.PublicUser{}, domain.ErrNothingToUpdate()
	}

	sel.Email = strings.TrimSpace(sel.Email)
	if sel.IsZero() {
		sel.ID = caller.UserID
	}
	if sel.Email != "" && sel.Email != caller.Email {
		return domain.PublicUser{}, domain.ErrTargetMismatch()
	}

	target, err := s.users.FindOne(ctx, sel)
	if err != nil {
		return domain.PublicUser{}, err
	}
	if target.Email != caller.Email {
		return domain.PublicUser{}, domain.ErrTargetMismatch()
	}

	if in.Name != "" {
		target.Name = in.Name
	}
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return domain.PublicUser{}, domain.ErrHashFailed(err)
		}
		target.PasswordHash = hash
	}

	saved, err := s.users.Update(ctx, target)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return saved.Public(), nil
}
