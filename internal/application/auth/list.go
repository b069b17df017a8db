package auth

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

func (s *Service) ListUsers(ctx context.Context, q domain.ListQuery) (ListResult, error) {
	q, err := q.Normalize()
	if err != nil {
		return ListResult{}, err
	}

	page, err := s.users.List(ctx, q)
	if err != nil {
		return ListResult{}, err
	}

	users := page.Users
	if users == nil {
		users = []domain.PublicUser{}
	}
	return ListResult{
		Users:      users,
		Query:      q,
		TotalCount: page.Total,
		PageCount:  domain.PageCount(page.Total, q.PerPage),
	}, nil
}
