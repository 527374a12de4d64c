package individual

import (
	"context"

	"tailorstudio/internal/domain"
)

// ListFilter narrows List results.
type ListFilter struct {
	// IncludeMembers also returns Individuals owned by a family.
	IncludeMembers bool
}

// Repository persists and fetches Individual documents.
type Repository interface {
	Create(ctx context.Context, in domain.Individual) (*domain.Individual, error)
	GetByID(ctx context.Context, id string) (*domain.Individual, error)
	GetMany(ctx context.Context, ids []string) ([]domain.Individual, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Individual, error)
	Update(ctx context.Context, in domain.Individual) (*domain.Individual, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, mode domain.SearchMode, query string) ([]domain.Individual, error)
}
