package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"tailorstudio/internal/domain"
	sessionrepo "tailorstudio/internal/repository/session"
)

type memoryUserRepo struct {
	byID map[string]domain.User
	seq  int
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byID: map[string]domain.User{}}
}

func (r *memoryUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Username, u.Username) {
			return nil, domain.ErrAlreadyExists
		}
	}
	r.seq++
	u.ID = "user-" + strconv.Itoa(r.seq)
	r.byID[u.ID] = u
	return &u, nil
}

func (r *memoryUserRepo) Upsert(ctx context.Context, u domain.User) (*domain.User, error) {
	for id, existing := range r.byID {
		if strings.EqualFold(existing.Username, u.Username) {
			u.ID = id
			r.byID[id] = u
			return &u, nil
		}
	}
	return r.Create(ctx, u)
}

func (r *memoryUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.byID {
		if strings.EqualFold(u.Username, username) {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memoryUserRepo) List(context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type memorySessionRepo struct {
	sessions map[string]sessionrepo.Session
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: map[string]sessionrepo.Session{}}
}

func (r *memorySessionRepo) Create(_ context.Context, s sessionrepo.Session) error {
	if _, ok := r.sessions[s.ID]; ok {
		return domain.ErrAlreadyExists
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *memorySessionRepo) Get(_ context.Context, id string) (*sessionrepo.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *memorySessionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *memorySessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range r.sessions {
		if !s.ExpiresAt.After(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func newTestService(t *testing.T) (*Service, *memoryUserRepo, *memorySessionRepo) {
	t.Helper()
	users := newMemoryUserRepo()
	sessions := newMemorySessionRepo()
	svc, err := New(users, sessions, "test-secret", time.Hour, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc, users, sessions
}

func TestNew_RequiresSecret(t *testing.T) {
	if _, err := New(newMemoryUserRepo(), newMemorySessionRepo(), " ", time.Hour, nil); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestLoginAuthenticateLogout(t *testing.T) {
	svc, _, sessions := newTestService(t)
	ctx := context.Background()
	added, err := svc.AddUser(ctx, AddUserInput{Username: "Selam", Password: "Abcdefg1"})
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if added.Role != domain.RoleStaff {
		t.Fatalf("expected default staff role, got %s", added.Role)
	}

	u, token, err := svc.Login(ctx, "selam", "Abcdefg1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != added.ID || token == "" || len(sessions.sessions) != 1 {
		t.Fatalf("unexpected login result user=%+v token=%q sessions=%d", u, token, len(sessions.sessions))
	}

	who, err := svc.Authenticate(ctx, token)
	if err != nil || who.ID != added.ID {
		t.Fatalf("Authenticate: %+v %v", who, err)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("second logout should be a no-op, got %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.AddUser(ctx, AddUserInput{Username: "selam", Password: "Abcdefg1"}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if _, _, err := svc.Login(ctx, "selam", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "Abcdefg1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestAuthenticate_RejectsForeignAndExpiredTokens(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.AddUser(ctx, AddUserInput{Username: "selam", Password: "Abcdefg1"}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	_, token, err := svc.Login(ctx, "selam", "Abcdefg1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	other, _, _ := newTestService(t)
	other.tokens.secret = []byte("another-secret")
	if _, err := other.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected token signed with another secret to be rejected, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "not-a-jwt"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected garbage token to be rejected, got %v", err)
	}

	svc.tokens.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestAddUser_ValidationAndConflict(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddUser(ctx, AddUserInput{Username: "", Password: "short", Role: "owner"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"username", "password", "role"} {
		if verr.Fields[field] == "" {
			t.Fatalf("expected %s error, got %v", field, verr.Fields)
		}
	}

	if _, err := svc.AddUser(ctx, AddUserInput{Username: "selam", Password: "Abcdefg1"}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if _, err := svc.AddUser(ctx, AddUserInput{Username: "SELAM", Password: "Abcdefg1"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteUser_NotSelf(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()
	admin, err := svc.EnsureAdmin(ctx, "admin", "Adminpass1")
	if err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	staff, _ := svc.AddUser(ctx, AddUserInput{Username: "selam", Password: "Abcdefg1"})

	if err := svc.DeleteUser(ctx, admin, admin.ID); !domain.IsValidation(err) {
		t.Fatalf("expected self-delete to be rejected, got %v", err)
	}
	if err := svc.DeleteUser(ctx, admin, staff.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, ok := users.byID[staff.ID]; ok {
		t.Fatalf("expected staff user removed")
	}
	if err := svc.DeleteUser(ctx, admin, staff.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEnsureAdmin_ResetsExistingAccount(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()
	first, err := svc.EnsureAdmin(ctx, "admin", "Adminpass1")
	if err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	second, err := svc.EnsureAdmin(ctx, "admin", "Newpass123")
	if err != nil {
		t.Fatalf("EnsureAdmin again: %v", err)
	}
	if first.ID != second.ID || len(users.byID) != 1 || !second.IsAdmin() {
		t.Fatalf("expected a single admin account, got %+v", users.byID)
	}
	if _, _, err := svc.Login(ctx, "admin", "Newpass123"); err != nil {
		t.Fatalf("expected new password to work, got %v", err)
	}
}

func TestPurgeExpired(t *testing.T) {
	svc, _, sessions := newTestService(t)
	sessions.sessions["old"] = sessionrepo.Session{ID: "old", UserID: "u", ExpiresAt: time.Now().Add(-time.Minute)}
	sessions.sessions["live"] = sessionrepo.Session{ID: "live", UserID: "u", ExpiresAt: time.Now().Add(time.Hour)}
	n, err := svc.PurgeExpired(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("expected 1 purged, got %d %v", n, err)
	}
	if _, ok := sessions.sessions["live"]; !ok {
		t.Fatalf("live session must survive")
	}
}
