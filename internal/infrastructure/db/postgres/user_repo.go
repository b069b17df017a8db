package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Emails are matched exactly as stored; only surrounding spaces are dropped.

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 LIMIT 1`, email)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	if id <= 0 {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindOne matches the AND of the selector's non-zero fields.
func (r *UserRepo) FindOne(ctx context.Context, sel domain.UserSelector) (domain.User, error) {
	if sel.IsZero() {
		return domain.User{}, domain.ErrUserNotFound()
	}

	var (
		conds []string
		args  []any
	)
	if sel.ID != 0 {
		args = append(args, sel.ID)
		conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
	}
	if email := strings.TrimSpace(sel.Email); email != "" {
		args = append(args, email)
		conds = append(conds, fmt.Sprintf("email = $%d", len(args)))
	}

	q := `SELECT ` + userColumns + ` FROM users WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY id LIMIT 1`
	return r.one(ctx, q, args...)
}

func (r *UserRepo) one(ctx context.Context, q string, args ...any) (domain.User, error) {
	ur, err := scanUser(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return ur.toDomain(), nil
}

// Create relies on users_email_key for uniqueness; a violation maps to
// ErrEmailAlreadyExists no matter how many callers raced.
func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	switch {
	case u.Name == "":
		return domain.User{}, domain.ErrMissingField("name")
	case u.Email == "":
		return domain.User{}, domain.ErrMissingField("email")
	case u.PasswordHash == "":
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	const q = `
INSERT INTO users (name, email, password_hash)
VALUES ($1, $2, $3)
RETURNING ` + userColumns

	ur, err := scanUser(r.db.QueryRowContext(ctx, q, u.Name, u.Email, u.PasswordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return ur.toDomain(), nil
}

// Update persists name and password_hash as given; callers merge first.
func (r *UserRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	if u.ID <= 0 {
		return domain.User{}, domain.ErrMissingField("id")
	}

	const q = `
UPDATE users
SET name = $2,
    password_hash = $3,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns

	ur, err := scanUser(r.db.QueryRowContext(ctx, q, u.ID, u.Name, u.PasswordHash))
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return ur.toDomain(), nil
}

// List counts and pages inside one read-only repeatable-read transaction
// so total and rows come from the same snapshot.
func (r *UserRepo) List(ctx context.Context, q domain.ListQuery) (page domain.UserPage, err error) {
	where, args := listFilter(q)

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return domain.UserPage{}, domain.ErrDBUnavailable(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&page.Total); err != nil {
		return domain.UserPage{}, domain.ErrDBUnavailable(err)
	}

	dir := "DESC"
	if q.Sort == domain.SortAsc {
		dir = "ASC"
	}
	sel := fmt.Sprintf(`SELECT id, name, email FROM users%s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		where, q.OrderColumn(), dir, dir, len(args)+1, len(args)+2)

	rows, err := tx.QueryContext(ctx, sel, append(args, q.PerPage, q.Offset())...)
	if err != nil {
		return domain.UserPage{}, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	page.Users = make([]domain.PublicUser, 0, q.PerPage)
	for rows.Next() {
		var u domain.PublicUser
		if err = rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return domain.UserPage{}, domain.ErrDBUnavailable(err)
		}
		page.Users = append(page.Users, u)
	}
	if err = rows.Err(); err != nil {
		return domain.UserPage{}, domain.ErrDBUnavailable(err)
	}

	if err = tx.Commit(); err != nil {
		return domain.UserPage{}, domain.ErrDBUnavailable(err)
	}
	return page, nil
}

func listFilter(q domain.ListQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if q.Keyword != "" {
		args = append(args, "%"+escapeLike(q.Keyword)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", n, n))
	}
	if q.Username != "" {
		args = append(args, q.Username)
		conds = append(conds, fmt.Sprintf("name = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
