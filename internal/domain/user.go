package domain

import "time"

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the part of a user that may leave the service.
type PublicUser struct {
	ID    int64
	Name  string
	Email string
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// SessionClaim is the identity embedded in a signed access token.
// It is never persisted.
type SessionClaim struct {
	UserID int64
	Email  string
	Name   string
}

func ClaimFor(u User) SessionClaim {
	return SessionClaim{UserID: u.ID, Email: u.Email, Name: u.Name}
}

// UserSelector locates a user by the AND of its non-zero fields.
type UserSelector struct {
	ID    int64
	Email string
}

func (s UserSelector) IsZero() bool {
	return s.ID == 0 && s.Email == ""
}

// BlacklistedToken is a logged-out token. Token holds the Authorization
// header exactly as the client sent it.
type BlacklistedToken struct {
	ID        int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Active reports whether the entry still blocks its token at now.
func (b BlacklistedToken) Active(now time.Time) bool {
	return b.ExpiresAt.After(now)
}
