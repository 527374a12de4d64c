package user

import (
	"context"

	"tailorstudio/internal/domain"
)

// Repository persists admin-interface accounts.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
	// Upsert creates the user or resets its password hash and role.
	Upsert(ctx context.Context, u domain.User) (*domain.User, error)
}
