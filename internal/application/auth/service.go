package auth

import (
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

type Service struct {
	users     UserRepo
	hasher    PasswordHasher
	signer    TokenSigner
	blacklist Blacklist
	profiles  ProfileProvisioner
	pub       EventPublisher

	tokenTTL time.Duration
	audit    Auditor
	now      func() time.Time
}

type Config struct {
	TokenTTL time.Duration
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	blacklist Blacklist,
	profiles ProfileProvisioner,
	pub EventPublisher,
	cfg Config,
) *Service {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		users:     users,
		hasher:    hasher,
		signer:    signer,
		blacklist: blacklist,
		profiles:  profiles,
		pub:       pub,
		tokenTTL:  ttl,
		audit:     noopAuditor{},
		now:       time.Now,
	}
}

// WithAudit routes security events to a.
func (s *Service) WithAudit(a Auditor) *Service {
	if a != nil {
		s.audit = a
	}
	return s
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Payload     domain.SessionClaim
	AccessToken string
	ExpiresAt   time.Time
}

// ListResult is one page of users plus the metadata the listing endpoint reports.
type ListResult struct {
	Users      []domain.PublicUser
	Query      domain.ListQuery
	TotalCount int
	PageCount  int
}
