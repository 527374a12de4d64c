package individual

import (
	"context"
	"fmt"

	"tailorstudio/internal/domain"
	individualrepo "tailorstudio/internal/repository/individual"
	"tailorstudio/internal/logger"
	"tailorstudio/internal/service/images"
)

type repository interface {
	Create(ctx context.Context, in domain.Individual) (*domain.Individual, error)
	GetByID(ctx context.Context, id string) (*domain.Individual, error)
	List(ctx context.Context, filter individualrepo.ListFilter) ([]domain.Individual, error)
	Update(ctx context.Context, in domain.Individual) (*domain.Individual, error)
	Delete(ctx context.Context, id string) error
}

type uploadResolver interface {
	Uploaded(ctx context.Context, correlationID string) ([]string, error)
	Release(ctx context.Context, correlationIDs ...string)
}

// Service handles standalone Individual orders.
type Service struct {
	repo    repository
	uploads uploadResolver
	logger  *logger.Logger
}

func New(repo repository, uploads uploadResolver, log *logger.Logger) *Service {
	return &Service{repo: repo, uploads: uploads, logger: logger.OrNop(log).With("service", "individual")}
}

// Create stores a standalone Individual with any images uploaded under
// in.UploadID.
func (s *Service) Create(ctx context.Context, in Input) (*domain.Individual, error) {
	var ind domain.Individual
	in.ApplyTo(&ind)
	if verr := Validate(ind); verr != nil {
		return nil, verr
	}
	uploaded, err := s.uploads.Uploaded(ctx, in.UploadID)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads: %w", err)
	}
	ind.ClothDetails.SetImages(images.Update{Uploaded: uploaded}.Apply(nil))

	created, err := s.repo.Create(ctx, ind)
	if err != nil {
		return nil, err
	}
	s.uploads.Release(ctx, in.UploadID)
	s.logger.Info("individual created", "id", created.ID)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Individual, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns standalone Individuals, plus family members when includeMembers is set.
func (s *Service) List(ctx context.Context, includeMembers bool) ([]domain.Individual, error) {
	out, err := s.repo.List(ctx, individualrepo.ListFilter{IncludeMembers: includeMembers})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Individual{}
	}
	return out, nil
}

// Update applies a partial update, then rewrites the image list from the
// keep-list and new uploads.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Individual, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current
	in.ApplyTo(&next)
	if verr := Validate(next); verr != nil {
		return nil, verr
	}

	uploaded, err := s.uploads.Uploaded(ctx, in.UploadID)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads: %w", err)
	}
	next.ClothDetails.SetImages(ImageUpdate(in.ExistingImageURLs, uploaded).Apply(current.ClothDetails.StoredImages()))

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return nil, err
	}
	s.uploads.Release(ctx, in.UploadID)
	return updated, nil
}

// Delete removes the Individual, detaching it from its family if it has one.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("individual deleted", "id", id)
	return nil
}

// ImageUpdate builds an images.Update from an optional keep-list.
func ImageUpdate(keep *[]string, uploaded []string) images.Update {
	if keep == nil {
		return images.Update{KeepAll: true, Uploaded: uploaded}
	}
	return images.Update{Keep: *keep, Uploaded: uploaded}
}
