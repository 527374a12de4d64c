package httpserver

import (
	"context"
	"io"
	"testing"

	"github.com/gin-gonic/gin"

	"tailorstudio/internal/domain"
	"tailorstudio/internal/notify"
	authsvc "tailorstudio/internal/service/auth"
	familysvc "tailorstudio/internal/service/family"
	individualsvc "tailorstudio/internal/service/individual"
)

type stubAuthSvc struct {
	users     map[string]*domain.User
	loginErr  error
	deleteErr error
	added     authsvc.AddUserInput
	deleted   string
	loggedOut string
}

func (s *stubAuthSvc) Login(_ context.Context, username, _ string) (*domain.User, string, error) {
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	return &domain.User{ID: "u-1", Username: username, Role: domain.RoleStaff}, "signed-token", nil
}

func (s *stubAuthSvc) Logout(_ context.Context, token string) error {
	s.loggedOut = token
	return nil
}

func (s *stubAuthSvc) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, domain.ErrUnauthorized
}

func (s *stubAuthSvc) AddUser(_ context.Context, in authsvc.AddUserInput) (*domain.User, error) {
	s.added = in
	if in.Username == "taken" {
		return nil, domain.ErrAlreadyExists
	}
	return &domain.User{ID: "u-new", Username: in.Username, Role: domain.RoleStaff}, nil
}

func (s *stubAuthSvc) ListUsers(context.Context) ([]domain.User, error) {
	return []domain.User{{ID: "u-1", Username: "admin", Role: domain.RoleAdmin, PasswordHash: "secret-hash"}}, nil
}

func (s *stubAuthSvc) DeleteUser(_ context.Context, caller *domain.User, id string) error {
	if caller != nil && caller.ID == id {
		return domain.NewValidationError("id", "cannot delete your own account")
	}
	s.deleted = id
	return s.deleteErr
}

func (s *stubAuthSvc) TTLSeconds() int { return 3600 }

type stubIndividualSvc struct {
	created        individualsvc.Input
	updated        individualsvc.UpdateInput
	includeMembers bool
	err            error
}

func (s *stubIndividualSvc) Create(_ context.Context, in individualsvc.Input) (*domain.Individual, error) {
	s.created = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Individual{ID: "i-1", FirstName: in.FirstName, Sex: in.Sex}, nil
}

func (s *stubIndividualSvc) Get(_ context.Context, id string) (*domain.Individual, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Individual{ID: id, FirstName: "Abebe"}, nil
}

func (s *stubIndividualSvc) List(_ context.Context, includeMembers bool) ([]domain.Individual, error) {
	s.includeMembers = includeMembers
	return []domain.Individual{}, s.err
}

func (s *stubIndividualSvc) Update(_ context.Context, id string, in individualsvc.UpdateInput) (*domain.Individual, error) {
	s.updated = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Individual{ID: id}, nil
}

func (s *stubIndividualSvc) Delete(context.Context, string) error { return s.err }

type stubFamilySvc struct {
	updated familysvc.Input
	err     error
}

func (s *stubFamilySvc) Create(_ context.Context, in familysvc.Input) (*domain.FamilyDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.FamilyDetail{Family: domain.Family{ID: "f-1", FamilyName: in.FamilyName}}, nil
}

func (s *stubFamilySvc) Get(_ context.Context, id string) (*domain.FamilyDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.FamilyDetail{Family: domain.Family{ID: id}}, nil
}

func (s *stubFamilySvc) List(context.Context) ([]domain.Family, error) {
	return []domain.Family{}, s.err
}

func (s *stubFamilySvc) Update(_ context.Context, id string, in familysvc.Input) (*domain.FamilyDetail, error) {
	s.updated = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.FamilyDetail{Family: domain.Family{ID: id}}, nil
}

func (s *stubFamilySvc) Delete(context.Context, string) error { return s.err }

type stubSearchSvc struct {
	mode  domain.SearchMode
	query string
}

func (s *stubSearchSvc) Search(_ context.Context, query string, mode domain.SearchMode) ([]domain.SearchResult, error) {
	s.query, s.mode = query, mode
	if query == "" {
		return nil, domain.NewValidationError("q", "is required")
	}
	ind := domain.Individual{ID: "i-1", FirstName: "Abebe"}
	return []domain.SearchResult{{Type: domain.ResultIndividual, Individual: &ind}}, nil
}

type stubNotificationSvc struct {
	dismissed notify.Dismissals
}

func (s *stubNotificationSvc) Due(_ context.Context, dismissed notify.Dismissals) ([]notify.Notice, error) {
	s.dismissed = dismissed
	return []notify.Notice{}, nil
}

type stubUploadSvc struct {
	id    string
	files []string
}

func (s *stubUploadSvc) Accept(_ context.Context, id string, files []io.Reader) (string, []string, error) {
	s.id = id
	var urls []string
	for _, f := range files {
		b, _ := io.ReadAll(f)
		s.files = append(s.files, string(b))
		urls = append(urls, "/files/"+string(b))
	}
	if id == "" {
		id = "generated"
	}
	return id, urls, nil
}

const (
	staffToken = "staff-token"
	adminToken = "admin-token"
)

type testDeps struct {
	auth          *stubAuthSvc
	individuals   *stubIndividualSvc
	families      *stubFamilySvc
	search        *stubSearchSvc
	notifications *stubNotificationSvc
	uploads       *stubUploadSvc
}

func newTestRouter(t *testing.T) (*gin.Engine, *testDeps) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	d := &testDeps{
		auth: &stubAuthSvc{users: map[string]*domain.User{
			staffToken: {ID: "u-staff", Username: "selam", Role: domain.RoleStaff},
			adminToken: {ID: "u-admin", Username: "admin", Role: domain.RoleAdmin},
		}},
		individuals:   &stubIndividualSvc{},
		families:      &stubFamilySvc{},
		search:        &stubSearchSvc{},
		notifications: &stubNotificationSvc{},
		uploads:       &stubUploadSvc{},
	}
	router, err := buildRouter(nil, nil, Deps{
		AuthSvc:         d.auth,
		IndividualSvc:   d.individuals,
		FamilySvc:       d.families,
		SearchSvc:       d.search,
		NotificationSvc: d.notifications,
		UploadSvc:       d.uploads,
	}, Options{AllowedOrigins: []string{"http://localhost:5173"}})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router, d
}
