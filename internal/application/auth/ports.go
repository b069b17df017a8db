package auth

import (
	"context"
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
The store owns email uniqueness: Create must fail with
domain.ErrEmailAlreadyExists when the unique constraint rejects the row.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	FindOne(ctx context.Context, sel domain.UserSelector) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Update(ctx context.Context, u domain.User) (domain.User, error)

	// List returns one page and the total match count from a single snapshot.
	List(ctx context.Context, q domain.ListQuery) (domain.UserPage, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies access tokens (JWT).
Verify checks signature and expiry only; revocation is the Blacklist's job.
*/
type TokenClaims struct {
	Claim     domain.SessionClaim
	ExpiresAt time.Time
}

type TokenSigner interface {
	Sign(claim domain.SessionClaim, ttl time.Duration) (token string, expiresAt time.Time, err error)
	Verify(token string) (TokenClaims, error)
}

/*
Blacklist
---------
Logged-out tokens. Add stores the Authorization header exactly as sent;
IsRevoked accepts the bare token and matches entries by
domain.RevocationKey, so every spelling of the header revokes the token.
Entries past their expiry never count as revoked.
*/
type Blacklist interface {
	Add(ctx context.Context, token string, expiresAt time.Time) (domain.BlacklistedToken, error)
	IsRevoked(ctx context.Context, bareToken string) (bool, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

/*
ProfileProvisioner
------------------
Downstream profile service, called once per registration.
Errors carry the remote status and message (domain.KindUpstream).
*/
type ProfileProvisioner interface {
	Provision(ctx context.Context, u domain.User) error
}

/*
EventPublisher
--------------
Publishes integration events to RabbitMQ.
*/
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error
}

type UserRegisteredEvent struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

/*
Auditor
-------
Security audit trail. reason is the domain error code of a failure.
Implementations must not record plaintext passwords or tokens.
*/
type Auditor interface {
	RegisterSucceeded(ctx context.Context, userID int64, email string)
	RegisterFailed(ctx context.Context, email, reason string)
	LoginSucceeded(ctx context.Context, userID int64, email string)
	LoginFailed(ctx context.Context, email, reason string)
	LoggedOut(ctx context.Context, userID int64, expiresAt time.Time)
	LogoutFailed(ctx context.Context, reason string)
	AccountUpdated(ctx context.Context, userID int64, nameChanged, passwordChanged bool)
	UpdateFailed(ctx context.Context, callerID int64, reason string)
}
