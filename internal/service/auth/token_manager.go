package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tailorstudio/internal/domain"
	sessionrepo "tailorstudio/internal/repository/session"
)

// tokenManager signs HS256 bearer tokens whose jti names a session row.
// A token is honoured only while its signature, expiry and row are all valid.
type tokenManager struct {
	repo   sessionRepository
	secret []byte
	now    func() time.Time
}

func newTokenManager(repo sessionRepository, secret []byte) *tokenManager {
	return &tokenManager{repo: repo, secret: secret, now: time.Now}
}

func (m *tokenManager) Issue(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	now := m.now()
	expiresAt := now.Add(ttl)
	sessionID := uuid.NewString()
	if err := m.repo.Create(ctx, sessionrepo.Session{ID: sessionID, UserID: userID, ExpiresAt: expiresAt}); err != nil {
		return "", err
	}
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *tokenManager) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func (m *tokenManager) Validate(ctx context.Context, token string) (*jwt.RegisteredClaims, error) {
	claims, err := m.parse(token)
	if err != nil {
		return nil, err
	}
	sess, err := m.repo.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if sess.UserID != claims.Subject {
		return nil, domain.ErrUnauthorized
	}
	if m.now().After(sess.ExpiresAt) {
		_ = m.repo.Delete(ctx, sess.ID)
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func (m *tokenManager) Revoke(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return nil
	}
	if err := m.repo.Delete(ctx, claims.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}
