package dto

import (
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/application/auth"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

// UserView is the public user payload. It never carries the password hash.
type UserView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewUserView(u domain.PublicUser) UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email}
}

func NewUserViews(users []domain.PublicUser) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserView(u))
	}
	return out
}

// LoginData is returned by POST /login.
type LoginData struct {
	Payload     UserView  `json:"payload"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"` // "Bearer"
	ExpiresAt   time.Time `json:"expires_at"`
}

func NewLoginData(res auth.LoginResult) LoginData {
	return LoginData{
		Payload: UserView{
			ID:    res.Payload.UserID,
			Name:  res.Payload.Name,
			Email: res.Payload.Email,
		},
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt.UTC(),
	}
}

// BlacklistView is the record stored by POST /logout.
type BlacklistView struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBlacklistView(b domain.BlacklistedToken) BlacklistView {
	return BlacklistView{
		ID:        b.ID,
		Token:     b.Token,
		ExpiresAt: b.ExpiresAt.UTC(),
		CreatedAt: b.CreatedAt.UTC(),
	}
}

// ListMetadata describes the page returned by GET /.
type ListMetadata struct {
	TotalCount int    `json:"total_count"`
	PageCount  int    `json:"page_count"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Sort       string `json:"sort"`
	OrderBy    string `json:"order_by"`
	Keyword    string `json:"keyword"`
}

func NewListMetadata(res auth.ListResult) ListMetadata {
	return ListMetadata{
		TotalCount: res.TotalCount,
		PageCount:  res.PageCount,
		Page:       res.Query.Page,
		PerPage:    res.Query.PerPage,
		Sort:       string(res.Query.Sort),
		OrderBy:    res.Query.OrderBy,
		Keyword:    res.Query.Keyword,
	}
}
