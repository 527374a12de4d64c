package family

import (
	"context"

	"tailorstudio/internal/domain"
)

// MemberWrite is one entry of a family's replacement member list.
type MemberWrite struct {
	Individual domain.Individual
	// New marks an entry to insert; otherwise Individual.ID names an
	// existing member to update in place.
	New bool
}

// Repository persists Family aggregates together with their members. Every
// mutating method runs in a single transaction.
type Repository interface {
	CreateWithMembers(ctx context.Context, f domain.Family, members []domain.Individual) (*domain.Family, []domain.Individual, error)
	GetByID(ctx context.Context, id string) (*domain.Family, error)
	List(ctx context.Context) ([]domain.Family, error)
	UpdateWithMembers(ctx context.Context, f domain.Family, members []MemberWrite) (*domain.Family, []domain.Individual, error)
	DeleteWithMembers(ctx context.Context, id string) error
	Search(ctx context.Context, mode domain.SearchMode, query string) ([]domain.Family, error)
}
