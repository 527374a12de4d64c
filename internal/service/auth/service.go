package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tailorstudio/internal/domain"
	"tailorstudio/internal/logger"
	sessionrepo "tailorstudio/internal/repository/session"
)

type userRepository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
	Upsert(ctx context.Context, u domain.User) (*domain.User, error)
}

type sessionRepository interface {
	Create(ctx context.Context, s sessionrepo.Session) error
	Get(ctx context.Context, id string) (*sessionrepo.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Service handles admin-interface accounts and their bearer sessions.
type Service struct {
	users       userRepository
	tokens      *tokenManager
	ttl         time.Duration
	passwordMin int
	logger      *logger.Logger
}

// New creates a Service signing tokens with secret. Tokens live for ttl.
func New(users userRepository, sessions sessionRepository, secret string, ttl time.Duration, log *logger.Logger) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		users:       users,
		tokens:      newTokenManager(sessions, []byte(secret)),
		ttl:         ttl,
		passwordMin: 8,
		logger:      logger.OrNop(log).With("service", "auth"),
	}, nil
}

// Login checks credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(ctx, u.ID, s.ttl)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user logged in", "userId", u.ID)
	return u, token, nil
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

// Logout revokes the token's session. Revoking an already revoked or
// invalid token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// AddUserInput carries the fields of a new account.
type AddUserInput struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// AddUser creates an account. Role defaults to staff.
func (s *Service) AddUser(ctx context.Context, in AddUserInput) (*domain.User, error) {
	u, err := s.newUser(in)
	if err != nil {
		return nil, err
	}
	created, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user added", "userId", created.ID, "role", created.Role)
	return created, nil
}

// EnsureAdmin creates the admin account, or resets its password and role
// if it already exists.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.newUser(AddUserInput{Username: username, Password: password, Role: domain.RoleAdmin})
	if err != nil {
		return nil, err
	}
	return s.users.Upsert(ctx, u)
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	out, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.User{}
	}
	return out, nil
}

// DeleteUser removes an account. Callers may not delete themselves.
func (s *Service) DeleteUser(ctx context.Context, caller *domain.User, id string) error {
	if caller != nil && caller.ID == strings.TrimSpace(id) {
		return domain.NewValidationError("id", "cannot delete your own account")
	}
	if err := s.users.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	s.logger.Info("user deleted", "userId", id)
	return nil
}

// PurgeExpired drops sessions whose tokens have expired.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.tokens.repo.DeleteExpired(ctx, time.Now())
}

// TTLSeconds exposes the token lifetime in seconds.
func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}

func (s *Service) newUser(in AddUserInput) (domain.User, error) {
	verr := &domain.ValidationError{}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		verr.Add("username", "is required")
	} else if len(username) > 64 {
		verr.Add("username", "must be at most 64 characters")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		verr.Add("password", err.Error())
	}
	role := in.Role
	if role == "" {
		role = domain.RoleStaff
	}
	if role != domain.RoleAdmin && role != domain.RoleStaff {
		verr.Add("role", "must be one of: admin staff")
	}
	if err := verr.OrNil(); err != nil {
		return domain.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	return domain.User{Username: username, PasswordHash: string(hashed), Role: role}, nil
}

func validatePassword(p string, min int) error {
	if len(p) < min {
		return fmt.Errorf("must be at least %d characters", min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
