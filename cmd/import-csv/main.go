package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"dramaverse/internal/catalog"
	"dramaverse/internal/importer"
	"dramaverse/pkg/database"
	"dramaverse/pkg/models"
)

func main() {
	var (
		path    = flag.String("file", "data/content.csv", "spreadsheet to import (.csv, .xlsx or .xlsm)")
		preview = flag.Bool("preview", false, "dry run: report what would happen without writing")
	)
	flag.Parse()

	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	f, err := os.Open(*path)
	if err != nil {
		logger.Fatal("open file failed", zap.Error(err))
	}
	defer f.Close()

	table, err := importer.ParseFile(f, *path)
	if err != nil {
		logger.Fatal("parse failed", zap.Error(err))
	}

	jobsRepo := importer.NewJobsRepo(db)
	pipeline := importer.NewPipeline(importer.NewSQLStore(catalog.NewRepo(db)), jobsRepo, logger)

	if *preview {
		report, err := pipeline.Preview(ctx, table)
		if err != nil {
			logger.Fatal("preview failed", zap.Error(err))
		}
		fmt.Printf("total rows: %d\nwill import: %d\nwill skip: %d\n",
			report.TotalRows, report.WillImport, report.WillSkip)
		for _, row := range report.Preview {
			if row.Valid {
				continue
			}
			fmt.Printf("  row %d: %v\n", row.Row, row.Issues)
		}
		return
	}

	job := models.ImportJob{
		ID:            uuid.NewString(),
		AdminUsername: "cli",
		SourceType:    "file",
		Source:        *path,
		Status:        models.JobQueued,
		StartedAt:     time.Now().UTC(),
		Errors:        []string{},
	}
	if err := jobsRepo.Create(ctx, job); err != nil {
		logger.Fatal("create job failed", zap.Error(err))
	}

	out, err := pipeline.Commit(ctx, table, job)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	fmt.Printf("imported %d of %d rows (%d failed)\n",
		out.SuccessfulImports, out.TotalRows, out.FailedImports)
	for _, msg := range out.Errors {
		fmt.Println("  " + msg)
	}
}
