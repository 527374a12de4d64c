package main

import (
	"context"
	"flag"
	"log"

	"tailorstudio/internal/config"
	"tailorstudio/internal/db"
	"tailorstudio/internal/logger"
	familyrepo "tailorstudio/internal/repository/family"
	individualrepo "tailorstudio/internal/repository/individual"
	sessionrepo "tailorstudio/internal/repository/session"
	uploadrepo "tailorstudio/internal/repository/upload"
	userrepo "tailorstudio/internal/repository/user"
	"tailorstudio/internal/seed"
	authsvc "tailorstudio/internal/service/auth"
	familysvc "tailorstudio/internal/service/family"
	"tailorstudio/internal/service/images"
	individualsvc "tailorstudio/internal/service/individual"
)

func main() {
	var demo bool
	flag.BoolVar(&demo, "demo", false, "Also insert demo orders")
	flag.Parse()

	cfg := config.Load()
	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer appLog.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		appLog.Fatal("connect db", "error", err)
	}
	defer pool.Close()

	authService, err := authsvc.New(userrepo.NewPostgres(pool), sessionrepo.NewPostgres(pool), cfg.SessionSecret, cfg.SessionTTL, appLog)
	if err != nil {
		appLog.Fatal("init auth", "error", err)
	}
	admin, err := seed.Admin(ctx, authService, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		appLog.Fatal("seed admin", "error", err)
	}
	appLog.Info("admin ready", "username", admin.Username)

	if demo {
		individualRepo := individualrepo.NewPostgres(pool, appLog)
		resolver := images.NewResolver(uploadrepo.NewPostgres(pool), appLog)
		err := seed.DemoOrders(ctx,
			individualsvc.New(individualRepo, resolver, appLog),
			familysvc.New(familyrepo.NewPostgres(pool, appLog), individualRepo, resolver, appLog),
		)
		if err != nil {
			appLog.Fatal("seed demo orders", "error", err)
		}
		appLog.Info("demo orders inserted")
	}
}
