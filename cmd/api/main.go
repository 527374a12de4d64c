package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"tailorstudio/internal/config"
	"tailorstudio/internal/db"
	"tailorstudio/internal/httpserver"
	"tailorstudio/internal/imagestore"
	"tailorstudio/internal/logger"
	familyrepo "tailorstudio/internal/repository/family"
	individualrepo "tailorstudio/internal/repository/individual"
	sessionrepo "tailorstudio/internal/repository/session"
	uploadrepo "tailorstudio/internal/repository/upload"
	userrepo "tailorstudio/internal/repository/user"
	authsvc "tailorstudio/internal/service/auth"
	familysvc "tailorstudio/internal/service/family"
	"tailorstudio/internal/service/images"
	individualsvc "tailorstudio/internal/service/individual"
	notificationsvc "tailorstudio/internal/service/notification"
	searchsvc "tailorstudio/internal/service/search"
)

func main() {
	cfg := config.Load()
	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer appLog.Sync()
	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		appLog.Fatal("connect to db", "error", err)
	}
	defer dbpool.Close()

	store, filesDir, err := openImageStore(ctx, cfg)
	if err != nil {
		appLog.Fatal("init image store", "error", err)
	}

	individualRepo := individualrepo.NewPostgres(dbpool, appLog)
	familyRepo := familyrepo.NewPostgres(dbpool, appLog)
	uploadRepo := uploadrepo.NewPostgres(dbpool)
	sessionRepo := sessionrepo.NewPostgres(dbpool)

	resolver := images.NewResolver(uploadRepo, appLog)
	individualService := individualsvc.New(individualRepo, resolver, appLog)
	familyService := familysvc.New(familyRepo, individualRepo, resolver, appLog)
	authService, err := authsvc.New(userrepo.NewPostgres(dbpool), sessionRepo, cfg.SessionSecret, cfg.SessionTTL, appLog)
	if err != nil {
		appLog.Fatal("init auth", "error", err)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, appLog, dbpool, httpserver.Deps{
		AuthSvc:         authService,
		IndividualSvc:   individualService,
		FamilySvc:       familyService,
		SearchSvc:       searchsvc.New(individualRepo, familyRepo),
		NotificationSvc: notificationsvc.New(individualRepo, familyRepo, cfg.Location()),
		UploadSvc:       images.NewIntake(imagestore.NewUploader(store, cfg.ImageMaxDimension), uploadRepo, appLog),
	}, httpserver.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		FilesDir:       filesDir,
	})
	if err != nil {
		appLog.Fatal("init server", "error", err)
	}

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go purgeSessions(purgeCtx, authService, appLog)

	serverErr := make(chan error, 1)
	go func() {
		appLog.Info("starting http server", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		appLog.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		appLog.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("graceful shutdown failed", "error", err)
	} else {
		appLog.Info("server stopped")
	}
}

// openImageStore returns the configured store and, for the local store,
// the directory to serve statically.
func openImageStore(ctx context.Context, cfg config.Config) (imagestore.Store, string, error) {
	if cfg.ImageStore == "gcs" {
		store, err := imagestore.NewGCS(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile, cfg.GCSPublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	}
	store, err := imagestore.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, "", err
	}
	return store, cfg.UploadDir, nil
}

func purgeSessions(ctx context.Context, auth *authsvc.Service, log *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := auth.PurgeExpired(ctx)
			if err != nil {
				log.Warn("purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				log.Info("purged expired sessions", "count", n)
			}
		}
	}
}
