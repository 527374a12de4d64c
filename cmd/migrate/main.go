package main

import (
	"context"
	"flag"
	"log"

	"tailorstudio/internal/config"
	"tailorstudio/internal/db"
	"tailorstudio/internal/logger"
	"tailorstudio/internal/migrate"
)

func main() {
	var (
		down    int
		version bool
	)
	flag.IntVar(&down, "down", 0, "Roll back this many migrations instead of applying")
	flag.BoolVar(&version, "version", false, "Print the current schema version and exit")
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

	switch {
	case version:
		v, dirty, err := migrate.Version(ctx, pool)
		if err != nil {
			appLog.Fatal("read version", "error", err)
		}
		appLog.Info("schema version", "version", v, "dirty", dirty)
	case down > 0:
		if err := migrate.Rollback(ctx, pool, down); err != nil {
			appLog.Fatal("roll back migrations", "error", err)
		}
		appLog.Info("migrations rolled back", "steps", down)
	default:
		if err := migrate.Apply(ctx, pool); err != nil {
			appLog.Fatal("apply migrations", "error", err)
		}
		appLog.Info("migrations applied")
	}
}
