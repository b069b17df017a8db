package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

// UserRepo is a process-local auth.UserRepo with the same uniqueness and
// selector rules as the Postgres one.
type UserRepo struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]domain.User
	byEmail map[string]int64
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[int64]domain.User),
		byEmail: make(map[string]int64),
	}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.TrimSpace(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) FindOne(ctx context.Context, sel domain.UserSelector) (domain.User, error) {
	if sel.IsZero() {
		return domain.User{}, domain.ErrUserNotFound()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if sel.ID != 0 {
		u, ok := r.byID[sel.ID]
		if !ok || (sel.Email != "" && u.Email != sel.Email) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return u, nil
	}
	id, ok := r.byEmail[sel.Email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = strings.TrimSpace(u.Email)
	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	r.nextID++
	now := time.Now().UTC()
	u.ID = r.nextID
	u.CreatedAt, u.UpdatedAt = now, now

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, nil
}

func (r *UserRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[u.ID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	cur.Name = u.Name
	cur.PasswordHash = u.PasswordHash
	cur.UpdatedAt = time.Now().UTC()
	r.byID[u.ID] = cur
	return cur, nil
}

func (r *UserRepo) List(ctx context.Context, q domain.ListQuery) (domain.UserPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kw := strings.ToLower(q.Keyword)
	matched := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		if kw != "" && !strings.Contains(strings.ToLower(u.Name), kw) && !strings.Contains(strings.ToLower(u.Email), kw) {
			continue
		}
		if q.Username != "" && u.Name != q.Username {
			continue
		}
		matched = append(matched, u)
	}

	less := func(a, b domain.User) bool {
		switch q.OrderColumn() {
		case "name":
			return a.Name < b.Name || (a.Name == b.Name && a.ID < b.ID)
		case "email":
			return a.Email < b.Email || (a.Email == b.Email && a.ID < b.ID)
		default:
			// ids grow with created_at
			return a.ID < b.ID
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if q.Sort == domain.SortDesc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	start := q.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.PerPage
	if end > len(matched) {
		end = len(matched)
	}

	users := make([]domain.PublicUser, 0, end-start)
	for _, u := range matched[start:end] {
		users = append(users, u.Public())
	}
	return domain.UserPage{Users: users, Total: len(matched)}, nil
}
