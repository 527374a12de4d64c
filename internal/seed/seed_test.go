package seed

import (
	"context"
	"testing"

	"tailorstudio/internal/domain"
	familysvc "tailorstudio/internal/service/family"
	individualsvc "tailorstudio/internal/service/individual"
)

type stubAuth struct {
	username, password string
}

func (s *stubAuth) EnsureAdmin(_ context.Context, username, password string) (*domain.User, error) {
	s.username, s.password = username, password
	return &domain.User{ID: "u-1", Username: username, Role: domain.RoleAdmin}, nil
}

type stubIndividuals struct{ n int }

func (s *stubIndividuals) Create(_ context.Context, in individualsvc.Input) (*domain.Individual, error) {
	s.n++
	return &domain.Individual{FirstName: in.FirstName}, nil
}

type stubFamilies struct{ members int }

func (s *stubFamilies) Create(_ context.Context, in familysvc.Input) (*domain.FamilyDetail, error) {
	s.members += len(in.Members)
	return &domain.FamilyDetail{}, nil
}

func TestAdmin(t *testing.T) {
	auth := &stubAuth{}
	if _, err := Admin(context.Background(), auth, "admin", ""); err == nil {
		t.Fatalf("expected error without password")
	}
	u, err := Admin(context.Background(), auth, "admin", "Adminpass1")
	if err != nil || !u.IsAdmin() || auth.password != "Adminpass1" {
		t.Fatalf("unexpected result %+v %v", u, err)
	}
}

func TestDemoOrders(t *testing.T) {
	inds, fams := &stubIndividuals{}, &stubFamilies{}
	if err := DemoOrders(context.Background(), inds, fams); err != nil {
		t.Fatalf("DemoOrders: %v", err)
	}
	if inds.n != 1 || fams.members != 2 {
		t.Fatalf("unexpected seed counts %d %d", inds.n, fams.members)
	}
}
