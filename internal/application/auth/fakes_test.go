package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/real-time-ressys/services/account-service/internal/domain"
)

/*
Fakes
*/

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.User

	getErr    error
	createErr error
	updateErr error
	listErr   error

	updates  int
	lastList domain.ListQuery
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]domain.User{}}
}

func (r *fakeUserRepo) seed(u domain.User) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u.ID = r.nextID
	r.byID[u.ID] = u
	return u
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return domain.User{}, r.getErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return domain.User{}, r.getErr
	}
	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, sel domain.UserSelector) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return domain.User{}, r.getErr
	}
	for _, u := range r.byID {
		if sel.ID != 0 && u.ID != sel.ID {
			continue
		}
		if sel.Email != "" && u.Email != sel.Email {
			continue
		}
		return u, nil
	}
	return domain.User{}, domain.ErrUserNotFound()
}

// Create enforces email uniqueness the way the users_email_key constraint does.
func (r *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return domain.User{}, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.byID[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return domain.User{}, r.updateErr
	}
	if _, ok := r.byID[u.ID]; !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	r.updates++
	r.byID[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) List(ctx context.Context, q domain.ListQuery) (domain.UserPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = q
	if r.listErr != nil {
		return domain.UserPage{}, r.listErr
	}

	var all []domain.PublicUser
	for id := int64(1); id <= r.nextID; id++ {
		u, ok := r.byID[id]
		if !ok {
			continue
		}
		if q.Keyword != "" && !strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(q.Keyword)) {
			continue
		}
		all = append(all, u.Public())
	}

	start := q.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + q.PerPage
	if end > len(all) {
		end = len(all)
	}
	return domain.UserPage{Users: all[start:end], Total: len(all)}, nil
}

type fakeHasher struct {
	hashFn func(pw string) (string, error)
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	if hash == "hash:"+password {
		return nil
	}
	return errors.New("mismatch")
}

// fakeSigner issues "tok:<id>:<email>:<name>" tokens that expire after ttl.
type fakeSigner struct {
	mu     sync.Mutex
	now    time.Time
	signed map[string]TokenClaims

	signErr error
}

func newFakeSigner(now time.Time) *fakeSigner {
	return &fakeSigner{now: now, signed: map[string]TokenClaims{}}
}

func (s *fakeSigner) Sign(claim domain.SessionClaim, ttl time.Duration) (string, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signErr != nil {
		return "", time.Time{}, s.signErr
	}
	tok := fmt.Sprintf("tok:%d:%s:%s", claim.UserID, claim.Email, claim.Name)
	exp := s.now.Add(ttl)
	s.signed[tok] = TokenClaims{Claim: claim, ExpiresAt: exp}
	return tok, exp, nil
}

func (s *fakeSigner) Verify(token string) (TokenClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.signed[token]
	if !ok {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	return c, nil
}

type fakeBlacklist struct {
	mu      sync.Mutex
	now     time.Time
	entries map[string]domain.BlacklistedToken

	addErr   error
	checkErr error
}

func newFakeBlacklist(now time.Time) *fakeBlacklist {
	return &fakeBlacklist{now: now, entries: map[string]domain.BlacklistedToken{}}
}

func (b *fakeBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) (domain.BlacklistedToken, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.addErr != nil {
		return domain.BlacklistedToken{}, b.addErr
	}
	rec := domain.BlacklistedToken{
		ID:        int64(len(b.entries) + 1),
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: b.now,
	}
	b.entries[domain.RevocationKey(token)] = rec
	return rec, nil
}

func (b *fakeBlacklist) IsRevoked(ctx context.Context, bareToken string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.checkErr != nil {
		return false, b.checkErr
	}
	rec, ok := b.entries[domain.RevocationKey(bareToken)]
	return ok && rec.Active(b.now), nil
}

func (b *fakeBlacklist) PurgeExpired(ctx context.Context) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var n int64
	for k, rec := range b.entries {
		if !rec.Active(b.now) {
			delete(b.entries, k)
			n++
		}
	}
	return n, nil
}

type fakeProvisioner struct {
	mu    sync.Mutex
	err   error
	calls []int64
}

func (p *fakeProvisioner) Provision(ctx context.Context, u domain.User) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, u.ID)
	return p.err
}

type fakePublisher struct {
	mu   sync.Mutex
	err  error
	evts []UserRegisteredEvent
}

func (p *fakePublisher) PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.evts = append(p.evts, evt)
	return nil
}

type auditEntry struct {
	action string
	fields map[string]string
}

// recordingAuditor flattens Auditor calls into auditEntry values.
type recordingAuditor struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *recordingAuditor) add(action string, err string, fields map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fields["result"] = "ok"
	if err != "" {
		fields["result"] = "error"
		fields["reason"] = err
	}
	a.entries = append(a.entries, auditEntry{action: action, fields: fields})
}

func (a *recordingAuditor) RegisterSucceeded(_ context.Context, id int64, email string) {
	a.add("auth.register", "", map[string]string{"user_id": strconv.FormatInt(id, 10), "email": email})
}

func (a *recordingAuditor) RegisterFailed(_ context.Context, email, reason string) {
	a.add("auth.register", reason, map[string]string{"email": email})
}

func (a *recordingAuditor) LoginSucceeded(_ context.Context, id int64, email string) {
	a.add("auth.login", "", map[string]string{"user_id": strconv.FormatInt(id, 10), "email": email})
}

func (a *recordingAuditor) LoginFailed(_ context.Context, email, reason string) {
	a.add("auth.login", reason, map[string]string{"email": email})
}

func (a *recordingAuditor) LoggedOut(_ context.Context, id int64, exp time.Time) {
	a.add("auth.logout", "", map[string]string{"user_id": strconv.FormatInt(id, 10), "expires_at": exp.Format(time.RFC3339)})
}

func (a *recordingAuditor) LogoutFailed(_ context.Context, reason string) {
	a.add("auth.logout", reason, map[string]string{})
}

func (a *recordingAuditor) AccountUpdated(_ context.Context, id int64, name, password bool) {
	a.add("auth.update", "", map[string]string{
		"user_id":          strconv.FormatInt(id, 10),
		"name_changed":     strconv.FormatBool(name),
		"password_changed": strconv.FormatBool(password),
	})
}

func (a *recordingAuditor) UpdateFailed(_ context.Context, callerID int64, reason string) {
	a.add("auth.update", reason, map[string]string{"caller_id": strconv.FormatInt(callerID, 10)})
}

/*
Service factory for tests
*/

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testDeps struct {
	users     *fakeUserRepo
	hasher    *fakeHasher
	signer    *fakeSigner
	blacklist *fakeBlacklist
	profiles  *fakeProvisioner
	pub       *fakePublisher

	audit *recordingAuditor
}

func (d *testDeps) lastAudit(t *testing.T) auditEntry {
	t.Helper()
	d.audit.mu.Lock()
	defer d.audit.mu.Unlock()
	if len(d.audit.entries) == 0 {
		t.Fatalf("expected audit entry, got none")
	}
	return d.audit.entries[len(d.audit.entries)-1]
}

func newSvcForTest(t *testing.T) (*Service, *testDeps) {
	t.Helper()

	d := &testDeps{
		users:     newFakeUserRepo(),
		hasher:    &fakeHasher{},
		signer:    newFakeSigner(testNow),
		blacklist: newFakeBlacklist(testNow),
		profiles:  &fakeProvisioner{},
		pub:       &fakePublisher{},
		audit:     &recordingAuditor{},
	}

	svc := NewService(d.users, d.hasher, d.signer, d.blacklist, d.profiles, d.pub, Config{TokenTTL: time.Hour}).
		WithAudit(d.audit)
	return svc, d
}

// registerAndLogin creates an account and returns its access token.
func registerAndLogin(t *testing.T, svc *Service, name, email, pw string) (domain.User, LoginResult) {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: pw})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	res, err := svc.Login(context.Background(), email, pw)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return u, res
}
