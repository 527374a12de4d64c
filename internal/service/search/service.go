package search

import (
	"context"
	"strings"

	"tailorstudio/internal/domain"
)

type individualSearcher interface {
	Search(ctx context.Context, mode domain.SearchMode, query string) ([]domain.Individual, error)
}

type familySearcher interface {
	Search(ctx context.Context, mode domain.SearchMode, query string) ([]domain.Family, error)
}

// Service looks orders up across both collections.
type Service struct {
	individuals individualSearcher
	families    familySearcher
}

func New(individuals individualSearcher, families familySearcher) *Service {
	return &Service{individuals: individuals, families: families}
}

// ParseMode maps the request's type parameter to a SearchMode. An empty
// value means name search.
func ParseMode(raw string) (domain.SearchMode, error) {
	switch domain.SearchMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", domain.SearchByName:
		return domain.SearchByName, nil
	case domain.SearchByPhone:
		return domain.SearchByPhone, nil
	}
	return "", domain.NewValidationError("type", "must be name or phone")
}

// Search returns matching individuals followed by matching families, each
// tagged with its kind.
func (s *Service) Search(ctx context.Context, query string, mode domain.SearchMode) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("q", "is required")
	}
	if mode != domain.SearchByName && mode != domain.SearchByPhone {
		return nil, domain.NewValidationError("type", "must be name or phone")
	}

	individuals, err := s.individuals.Search(ctx, mode, query)
	if err != nil {
		return nil, err
	}
	families, err := s.families.Search(ctx, mode, query)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SearchResult, 0, len(individuals)+len(families))
	for i := range individuals {
		out = append(out, domain.SearchResult{Type: domain.ResultIndividual, Individual: &individuals[i]})
	}
	for i := range families {
		out = append(out, domain.SearchResult{Type: domain.ResultFamily, Family: &families[i]})
	}
	return out, nil
}
