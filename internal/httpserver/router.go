package httpserver

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"tailorstudio/internal/domain"
	"tailorstudio/internal/imagestore"
	"tailorstudio/internal/logger"
	"tailorstudio/internal/notify"
	authsvc "tailorstudio/internal/service/auth"
	familysvc "tailorstudio/internal/service/family"
	individualsvc "tailorstudio/internal/service/individual"
)

// AuthSvc issues and checks bearer tokens and manages accounts.
type AuthSvc interface {
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	AddUser(ctx context.Context, in authsvc.AddUserInput) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, caller *domain.User, id string) error
	TTLSeconds() int
}

type IndividualSvc interface {
	Create(ctx context.Context, in individualsvc.Input) (*domain.Individual, error)
	Get(ctx context.Context, id string) (*domain.Individual, error)
	List(ctx context.Context, includeMembers bool) ([]domain.Individual, error)
	Update(ctx context.Context, id string, in individualsvc.UpdateInput) (*domain.Individual, error)
	Delete(ctx context.Context, id string) error
}

type FamilySvc interface {
	Create(ctx context.Context, in familysvc.Input) (*domain.FamilyDetail, error)
	Get(ctx context.Context, id string) (*domain.FamilyDetail, error)
	List(ctx context.Context) ([]domain.Family, error)
	Update(ctx context.Context, id string, in familysvc.Input) (*domain.FamilyDetail, error)
	Delete(ctx context.Context, id string) error
}

type SearchSvc interface {
	Search(ctx context.Context, query string, mode domain.SearchMode) ([]domain.SearchResult, error)
}

type NotificationSvc interface {
	Due(ctx context.Context, dismissed notify.Dismissals) ([]notify.Notice, error)
}

type UploadSvc interface {
	Accept(ctx context.Context, correlationID string, files []io.Reader) (string, []string, error)
}

// Deps carries the services the routes delegate to.
type Deps struct {
	AuthSvc         AuthSvc
	IndividualSvc   IndividualSvc
	FamilySvc       FamilySvc
	SearchSvc       SearchSvc
	NotificationSvc NotificationSvc
	UploadSvc       UploadSvc
}

// Options tunes router behaviour that does not come from services.
type Options struct {
	AllowedOrigins []string
	// FilesDir, when set, is served under imagestore.FilesPrefix.
	FilesDir string
}

// buildRouter wires routes for the API.
func buildRouter(log *logger.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*gin.Engine, error) {
	if deps.AuthSvc == nil || deps.IndividualSvc == nil || deps.FamilySvc == nil {
		return nil, errors.New("auth, individual and family services are required")
	}
	log = logger.OrNop(log)

	router := gin.New()
	router.MaxMultipartMemory = 32 << 20
	router.Use(requestLogger(log), gin.Recovery())
	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	if opts.FilesDir != "" {
		router.Static(imagestore.FilesPrefix, opts.FilesDir)
	}

	h := &handlers{deps: deps, logger: log}
	requireAuth := authMiddleware(deps.AuthSvc)

	auth := router.Group("/auth")
	auth.POST("/login", h.login)
	auth.POST("/logout", h.logout)
	auth.GET("/me", requireAuth, h.me)
	admin := auth.Group("", requireAuth, requireAdmin())
	admin.POST("/add", h.addUser)
	admin.GET("/users", h.listUsers)
	admin.DELETE("/:id", h.deleteUser)

	orders := router.Group("/orders", requireAuth)
	orders.GET("/individuals", h.listIndividuals)
	orders.POST("/individuals", h.createIndividual)
	orders.GET("/individuals/:id", h.getIndividual)
	orders.PUT("/individuals/:id", h.updateIndividual)
	orders.DELETE("/individuals/:id", h.deleteIndividual)

	orders.GET("/families", h.listFamilies)
	orders.POST("/families", h.createFamily)
	orders.GET("/families/:id", h.getFamily)
	orders.PUT("/families/:id", h.updateFamily)
	orders.DELETE("/families/:id", h.deleteFamily)

	if deps.SearchSvc != nil {
		orders.GET("/search", h.search)
	}
	if deps.NotificationSvc != nil {
		orders.GET("/notifications", h.notifications)
	}
	if deps.UploadSvc != nil {
		orders.POST("/uploads", h.upload)
	}

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *logger.Logger
}
