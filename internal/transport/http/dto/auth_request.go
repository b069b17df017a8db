package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"` // bcrypt ignores bytes past 72
}

func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	return Validate(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return Validate(r)
}

// UpdateRequest fields are optional; empty means "keep".
type UpdateRequest struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Password string `json:"password" validate:"omitempty,max=72"`
}

func (r *UpdateRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return Validate(r)
}

// UpdateTarget is read from the ?user_id=&email= query of POST /update.
type UpdateTarget struct {
	UserID int64  `json:"user_id" validate:"gte=0"`
	Email  string `json:"email" validate:"omitempty,email"`
}

func ParseUpdateTarget(q url.Values) (UpdateTarget, error) {
	t := UpdateTarget{Email: strings.TrimSpace(q.Get("email"))}

	if raw := strings.TrimSpace(q.Get("user_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return UpdateTarget{}, domain.ErrInvalidField("user_id", "must be a positive integer")
		}
		t.UserID = id
	}

	if err := Validate(&t); err != nil {
		return UpdateTarget{}, err
	}
	return t, nil
}

func (t UpdateTarget) Selector() domain.UserSelector {
	return domain.UserSelector{ID: t.UserID, Email: t.Email}
}

// ParseListQuery reads page, per_page, sort, order_by, keyword and username.
// Range clamping happens in domain.ListQuery.Normalize.
func ParseListQuery(q url.Values) (domain.ListQuery, error) {
	lq := domain.ListQuery{
		Sort:     domain.SortOrder(q.Get("sort")),
		OrderBy:  q.Get("order_by"),
		Keyword:  q.Get("keyword"),
		Username: q.Get("username"),
	}

	var err error
	if lq.Page, err = intParam(q, "page"); err != nil {
		return domain.ListQuery{}, err
	}
	if lq.PerPage, err = intParam(q, "per_page"); err != nil {
		return domain.ListQuery{}, err
	}
	return lq, nil
}

func intParam(q url.Values, key string) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidField(key, "must be an integer")
	}
	return n, nil
}
