package postgres

import (
	"context"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/account-service/internal/logger"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

type seedUser struct {
	Name  string
	Email string
	Pass  string
}

var devSeeds = []seedUser{
	{Name: "Demo User", Email: "demo@example.com", Pass: "DemoPassword123!"},
}

// SeedUsers creates the dev demo accounts. Existing emails are skipped,
// so it is safe on every start.
func SeedUsers(ctx context.Context, repo SeederRepo, hasher SeederHasher) int {
	log := logger.Logger.With().Str("component", "seed").Logger()

	created := 0
	for _, s := range devSeeds {
		hash, err := hasher.Hash(s.Pass)
		if err != nil {
			log.Warn().Err(err).Str("email", s.Email).Msg("hash failed")
			continue
		}

		_, err = repo.Create(ctx, domain.User{Name: s.Name, Email: s.Email, PasswordHash: hash})
		switch {
		case err == nil:
			created++
		case domain.Is(err, "email_already_exists"):
		default:
			log.Warn().Err(err).Str("email", s.Email).Msg("create failed")
		}
	}

	log.Info().Int("created", created).Msg("dev users seeded")
	return created
}
