package family

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tailorstudio/internal/domain"
	familyrepo "tailorstudio/internal/repository/family"
	"tailorstudio/internal/logger"
	individualsvc "tailorstudio/internal/service/individual"
	"tailorstudio/internal/validation"
)

type repository interface {
	CreateWithMembers(ctx context.Context, f domain.Family, members []domain.Individual) (*domain.Family, []domain.Individual, error)
	GetByID(ctx context.Context, id string) (*domain.Family, error)
	List(ctx context.Context) ([]domain.Family, error)
	UpdateWithMembers(ctx context.Context, f domain.Family, members []familyrepo.MemberWrite) (*domain.Family, []domain.Individual, error)
	DeleteWithMembers(ctx context.Context, id string) error
}

type memberReader interface {
	GetMany(ctx context.Context, ids []string) ([]domain.Individual, error)
}

type uploadResolver interface {
	Uploaded(ctx context.Context, correlationID string) ([]string, error)
	Release(ctx context.Context, correlationIDs ...string)
}

// Service is the family order aggregate manager: it keeps a Family and its
// member Individuals consistent across create, update and delete.
type Service struct {
	repo    repository
	members memberReader
	uploads uploadResolver
	logger  *logger.Logger
}

func New(repo repository, members memberReader, uploads uploadResolver, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		members: members,
		uploads: uploads,
		logger:  logger.OrNop(log).With("service", "family"),
	}
}

// MemberInput is one entry of a family's member list. ID names an existing
// member to update; an empty or non-UUID ID (a client placeholder) means a
// new member.
type MemberInput struct {
	ID string `json:"id"`
	individualsvc.Input
	// ExistingImageURLs lists the member's stored images to keep; nil keeps all.
	ExistingImageURLs *[]string `json:"existingImageUrls"`
}

// Input is the full attribute set of a family order.
type Input struct {
	FamilyName     string               `json:"familyName"`
	Phone          string               `json:"phone"`
	SecondaryPhone string               `json:"secondaryPhone"`
	Telegram       string               `json:"telegram"`
	Colors         []string             `json:"colors"`
	PaymentMethod  domain.PaymentMethod `json:"paymentMethod"`
	Payment        *domain.Payment      `json:"payment"`
	DeliveryDate   string               `json:"deliveryDate"`
	Notes          string               `json:"notes"`
	Members        []MemberInput        `json:"members"`
	UploadID       string               `json:"uploadId"`
	// ExistingImageURLs lists stored tilef images to keep on update; nil keeps all.
	ExistingImageURLs *[]string `json:"existingImageUrls"`
}

func (in Input) applyTo(dst *domain.Family) {
	dst.FamilyName = strings.TrimSpace(in.FamilyName)
	dst.Phone = strings.TrimSpace(in.Phone)
	dst.SecondaryPhone = strings.TrimSpace(in.SecondaryPhone)
	dst.Telegram = strings.TrimSpace(in.Telegram)
	dst.Colors = nil
	for _, c := range in.Colors {
		if c = strings.TrimSpace(c); c != "" {
			dst.Colors = append(dst.Colors, c)
		}
	}
	dst.PaymentMethod = in.PaymentMethod
	if dst.PaymentMethod == "" {
		dst.PaymentMethod = domain.PaymentByFamily
	}
	dst.Payment = in.Payment
	dst.DeliveryDate = strings.TrimSpace(in.DeliveryDate)
	dst.Notes = strings.TrimSpace(in.Notes)
}

// Create inserts every member and the family in one transaction.
func (s *Service) Create(ctx context.Context, in Input) (*domain.FamilyDetail, error) {
	var fam domain.Family
	in.applyTo(&fam)

	members := make([]domain.Individual, len(in.Members))
	for i, m := range in.Members {
		m.Input.ApplyTo(&members[i])
	}
	if err := validateAggregate(fam, members); err != nil {
		return nil, err
	}

	uploaded, err := s.uploads.Uploaded(ctx, in.UploadID)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads: %w", err)
	}
	fam.SetImages(append([]string{}, uploaded...))
	for i, m := range in.Members {
		memberUploads, err := s.uploads.Uploaded(ctx, m.UploadID)
		if err != nil {
			return nil, fmt.Errorf("resolve member uploads: %w", err)
		}
		members[i].ClothDetails.SetImages(append([]string{}, memberUploads...))
	}

	created, stored, err := s.repo.CreateWithMembers(ctx, fam, members)
	if err != nil {
		return nil, err
	}
	s.uploads.Release(ctx, uploadIDs(in)...)
	s.logger.Info("family created", "id", created.ID, "members", len(stored))
	detail := domain.NewFamilyDetail(*created, stored)
	return &detail, nil
}

// Get returns the family with its members in memberIds order.
func (s *Service) Get(ctx context.Context, id string) (*domain.FamilyDetail, error) {
	fam, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.members.GetMany(ctx, fam.MemberIDs)
	if err != nil {
		return nil, err
	}
	detail := domain.NewFamilyDetail(*fam, members)
	return &detail, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Family, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Family{}
	}
	return out, nil
}

// Update replaces the family's attributes and member list. Members whose
// ids are absent from the new list are deleted.
func (s *Service) Update(ctx context.Context, id string, in Input) (*domain.FamilyDetail, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous, err := s.members.GetMany(ctx, current.MemberIDs)
	if err != nil {
		return nil, err
	}
	prevByID := make(map[string]domain.Individual, len(previous))
	for _, m := range previous {
		prevByID[m.ID] = m
	}

	next := *current
	in.applyTo(&next)

	verr := &domain.ValidationError{}
	writes := make([]familyrepo.MemberWrite, len(in.Members))
	members := make([]domain.Individual, len(in.Members))
	seen := make(map[string]bool, len(in.Members))
	for i, m := range in.Members {
		memberID, isNew := partitionID(m.ID)
		if !isNew {
			prev, ok := prevByID[memberID]
			switch {
			case !ok:
				verr.Add(fmt.Sprintf("members[%d].id", i), "is not a member of this family")
				continue
			case seen[memberID]:
				verr.Add(fmt.Sprintf("members[%d].id", i), "appears more than once")
				continue
			}
			seen[memberID] = true
			members[i] = prev
		}
		m.Input.ApplyTo(&members[i])
		writes[i] = familyrepo.MemberWrite{Individual: members[i], New: isNew}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if err := validateAggregate(next, members); err != nil {
		return nil, err
	}

	uploaded, err := s.uploads.Uploaded(ctx, in.UploadID)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads: %w", err)
	}
	next.SetImages(individualsvc.ImageUpdate(in.ExistingImageURLs, uploaded).Apply(current.StoredImages()))
	for i, m := range in.Members {
		memberUploads, err := s.uploads.Uploaded(ctx, m.UploadID)
		if err != nil {
			return nil, fmt.Errorf("resolve member uploads: %w", err)
		}
		var stored []string
		if !writes[i].New {
			stored = prevByID[writes[i].Individual.ID].ClothDetails.StoredImages()
		}
		writes[i].Individual.ClothDetails.SetImages(individualsvc.ImageUpdate(m.ExistingImageURLs, memberUploads).Apply(stored))
	}

	updated, stored, err := s.repo.UpdateWithMembers(ctx, next, writes)
	if err != nil {
		return nil, err
	}
	s.uploads.Release(ctx, uploadIDs(in)...)
	s.logger.Info("family updated", "id", updated.ID, "members", len(stored))
	detail := domain.NewFamilyDetail(*updated, stored)
	return &detail, nil
}

// Delete removes the family and every member in one transaction.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteWithMembers(ctx, id); err != nil {
		return err
	}
	s.logger.Info("family deleted", "id", id)
	return nil
}

// partitionID reports whether a submitted member id names a new member.
// Anything that is not a UUID is a client-side placeholder and is dropped.
func partitionID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", true
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return "", true
	}
	return parsed.String(), false
}

func validateAggregate(f domain.Family, members []domain.Individual) error {
	verr := validation.Struct(f)
	if verr == nil {
		verr = &domain.ValidationError{}
	}
	if len(members) == 0 {
		verr.Add("members", "at least one member is required")
	}
	for i, m := range members {
		verr.Merge(fmt.Sprintf("members[%d].", i), individualsvc.Validate(m))
	}
	return verr.OrNil()
}

func uploadIDs(in Input) []string {
	ids := []string{in.UploadID}
	for _, m := range in.Members {
		ids = append(ids, m.UploadID)
	}
	return ids
}
