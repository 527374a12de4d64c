package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"tailorstudio/internal/config"
	"tailorstudio/internal/db"
	"tailorstudio/internal/importer"
	"tailorstudio/internal/logger"
	familyrepo "tailorstudio/internal/repository/family"
	individualrepo "tailorstudio/internal/repository/individual"
	uploadrepo "tailorstudio/internal/repository/upload"
	familysvc "tailorstudio/internal/service/family"
	"tailorstudio/internal/service/images"
	individualsvc "tailorstudio/internal/service/individual"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to the orders CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

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

	f, err := os.Open(filePath)
	if err != nil {
		appLog.Fatal("open file", "error", err)
	}
	defer f.Close()

	individualRepo := individualrepo.NewPostgres(pool, appLog)
	resolver := images.NewResolver(uploadrepo.NewPostgres(pool), appLog)
	imp := importer.NewCSVImporter(f,
		individualsvc.New(individualRepo, resolver, appLog),
		familysvc.New(familyrepo.NewPostgres(pool, appLog), individualRepo, resolver, appLog),
	)

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		appLog.Fatal("import failed", "error", err, "imported", res.Total())
	}

	fmt.Printf("Imported %d individual and %d family orders in %s\n", res.Individuals, res.Families, time.Since(start).Truncate(time.Millisecond))
}
