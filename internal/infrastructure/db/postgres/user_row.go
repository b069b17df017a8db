package postgres

import (
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

const userColumns = `id, name, email, password_hash, created_at, updated_at`

type userRow struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (userRow, error) {
	var ur userRow
	err := s.Scan(&ur.ID, &ur.Name, &ur.Email, &ur.PasswordHash, &ur.CreatedAt, &ur.UpdatedAt)
	return ur, err
}

func (ur userRow) toDomain() domain.User {
	return domain.User{
		ID:           ur.ID,
		Name:         ur.Name,
		Email:        ur.Email,
		PasswordHash: ur.PasswordHash,
		CreatedAt:    ur.CreatedAt,
		UpdatedAt:    ur.UpdatedAt,
	}
}
