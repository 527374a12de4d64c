package individual

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"tailorstudio/internal/domain"
	individualrepo "tailorstudio/internal/repository/individual"
)

type stubRepo struct {
	stored     map[string]domain.Individual
	created    *domain.Individual
	updated    *domain.Individual
	lastFilter individualrepo.ListFilter
	deleteErr  error
}

func newStubRepo(items ...domain.Individual) *stubRepo {
	r := &stubRepo{stored: map[string]domain.Individual{}}
	for _, it := range items {
		r.stored[it.ID] = it
	}
	return r
}

func (s *stubRepo) Create(_ context.Context, in domain.Individual) (*domain.Individual, error) {
	in.ID = "new-id"
	s.created = &in
	return &in, nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Individual, error) {
	it, ok := s.stored[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &it, nil
}

func (s *stubRepo) List(_ context.Context, filter individualrepo.ListFilter) ([]domain.Individual, error) {
	s.lastFilter = filter
	return nil, nil
}

func (s *stubRepo) Update(_ context.Context, in domain.Individual) (*domain.Individual, error) {
	s.updated = &in
	return &in, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.stored[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.stored, id)
	return nil
}

type stubUploads struct {
	urls     map[string][]string
	released []string
}

func (s *stubUploads) Uploaded(_ context.Context, id string) ([]string, error) {
	return s.urls[id], nil
}

func (s *stubUploads) Release(_ context.Context, ids ...string) {
	for _, id := range ids {
		if id != "" {
			s.released = append(s.released, id)
		}
	}
}

func validInput() Input {
	return Input{
		FirstName:    "  Abebe ",
		LastName:     "Kebede",
		Sex:          domain.SexMale,
		DeliveryDate: "2026-11-01",
		ClothDetails: ClothInput{
			ShirtLength: 72,
			Male:        &domain.MaleMeasurements{Chest: 98, Netela: "No", ClothType: "Suit"},
			Colors:      []string{" #fff ", ""},
		},
	}
}

func TestCreate_TrimsAndAttachesUploads(t *testing.T) {
	repo := newStubRepo()
	uploads := &stubUploads{urls: map[string][]string{"corr-1": {"/files/a.jpg", "/files/b.jpg"}}}
	svc := New(repo, uploads, nil)

	in := validInput()
	in.UploadID = "corr-1"
	got, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.FirstName != "Abebe" || got.IsFamilyMember {
		t.Fatalf("unexpected individual %+v", got)
	}
	if !reflect.DeepEqual(got.ClothDetails.Colors, []string{"#fff"}) {
		t.Fatalf("expected trimmed colors, got %v", got.ClothDetails.Colors)
	}
	if !reflect.DeepEqual(got.ClothDetails.Images, []string{"/files/a.jpg", "/files/b.jpg"}) {
		t.Fatalf("unexpected images %v", got.ClothDetails.Images)
	}
	if !reflect.DeepEqual(uploads.released, []string{"corr-1"}) {
		t.Fatalf("expected upload released, got %v", uploads.released)
	}
}

func TestCreate_ValidationErrors(t *testing.T) {
	svc := New(newStubRepo(), &stubUploads{}, nil)

	in := validInput()
	in.Sex = domain.SexFemale
	in.LastName = " "
	_, err := svc.Create(context.Background(), in)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields["lastName"]; !ok {
		t.Fatalf("expected lastName error, got %v", verr.Fields)
	}
	if _, ok := verr.Fields["clothDetails.male"]; !ok {
		t.Fatalf("expected sex/measurement mismatch error, got %v", verr.Fields)
	}
}

func TestUpdate_ImageListRetainedThenNew(t *testing.T) {
	existing := domain.Individual{
		ID: "i1", FirstName: "Almaz", LastName: "Tadesse", Sex: domain.SexFemale,
		ClothDetails: domain.ClothDetails{Images: []string{"urlA", "urlB"}},
	}
	repo := newStubRepo(existing)
	uploads := &stubUploads{urls: map[string][]string{"corr": {"urlC"}}}
	svc := New(repo, uploads, nil)

	keep := []string{"urlA"}
	got, err := svc.Update(context.Background(), "i1", UpdateInput{ExistingImageURLs: &keep, UploadID: "corr"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !reflect.DeepEqual(got.ClothDetails.Images, []string{"urlA", "urlC"}) {
		t.Fatalf("expected [urlA urlC], got %v", got.ClothDetails.Images)
	}
}

func TestUpdate_LegacyImageMigratesToList(t *testing.T) {
	existing := domain.Individual{
		ID: "i1", FirstName: "Almaz", LastName: "Tadesse", Sex: domain.SexFemale,
		ClothDetails: domain.ClothDetails{ImageURL: "legacy.jpg"},
	}
	repo := newStubRepo(existing)
	svc := New(repo, &stubUploads{}, nil)

	notes := "hem 2cm"
	got, err := svc.Update(context.Background(), "i1", UpdateInput{Notes: &notes})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.ClothDetails.ImageURL != "" {
		t.Fatalf("expected legacy field cleared, got %q", got.ClothDetails.ImageURL)
	}
	if !reflect.DeepEqual(got.ClothDetails.Images, []string{"legacy.jpg"}) {
		t.Fatalf("expected legacy image carried into list, got %v", got.ClothDetails.Images)
	}
	if got.Notes != "hem 2cm" || got.FirstName != "Almaz" {
		t.Fatalf("partial update clobbered fields: %+v", got)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := New(newStubRepo(), &stubUploads{}, nil)
	_, err := svc.Update(context.Background(), "missing", UpdateInput{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestList_PassesMemberFilterAndNeverNil(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo, &stubUploads{}, nil)
	got, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got == nil || !repo.lastFilter.IncludeMembers {
		t.Fatalf("expected empty list and member filter, got %v %+v", got, repo.lastFilter)
	}
}

func TestDelete_Twice(t *testing.T) {
	repo := newStubRepo(domain.Individual{ID: "i1"})
	svc := New(repo, &stubUploads{}, nil)
	if err := svc.Delete(context.Background(), "i1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "i1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
