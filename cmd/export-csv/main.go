package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"dramaverse/internal/catalog"
	"dramaverse/pkg/database"
	"dramaverse/pkg/models"
)

// Exports the catalog in the same column layout the importer accepts,
// so an export can be re-imported elsewhere.
func main() {
	out := flag.String("out", "data/content.csv", "output CSV path")
	flag.Parse()

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

	repo := catalog.NewRepo(db)

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		logger.Fatal("create output dir failed", zap.Error(err))
	}
	f, err := os.Create(*out)
	if err != nil {
		logger.Fatal("create output failed", zap.Error(err))
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"title", "original_title", "poster_url", "banner_url", "synopsis",
		"year", "country", "content_type", "genres", "rating", "episodes",
		"duration", "cast", "crew", "streaming_platforms", "tags",
	}
	if err := w.Write(header); err != nil {
		logger.Fatal("write header failed", zap.Error(err))
	}

	const pageSize = 200
	exported := 0
	for offset := 0; ; offset += pageSize {
		page, err := repo.List(ctx, catalog.ListQuery{Sort: "title", Limit: pageSize, Offset: offset})
		if err != nil {
			logger.Fatal("list failed", zap.Error(err))
		}
		if len(page) == 0 {
			break
		}
		for _, entry := range page {
			if err := w.Write(exportRow(entry)); err != nil {
				logger.Fatal("write row failed", zap.Error(err))
			}
			exported++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		logger.Fatal("flush failed", zap.Error(err))
	}

	logger.Info("export complete", zap.Int("entries", exported), zap.String("out", *out))
}

func exportRow(entry models.Content) []string {
	return []string{
		entry.Title,
		entry.OriginalTitle,
		entry.PosterURL,
		entry.BannerURL,
		entry.Synopsis,
		intOrEmpty(entry.Year),
		entry.Country,
		entry.ContentType,
		strings.Join(entry.Genres, ", "),
		strconv.FormatFloat(entry.Rating, 'f', -1, 64),
		intOrEmpty(entry.Episodes),
		intOrEmpty(entry.Duration),
		peopleJSON(entry.Cast),
		peopleJSON(entry.Crew),
		strings.Join(entry.StreamingPlatforms, ", "),
		strings.Join(entry.Tags, ", "),
	}
}

func intOrEmpty(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func peopleJSON(people []models.Person) string {
	if len(people) == 0 {
		return ""
	}
	b, err := json.Marshal(people)
	if err != nil {
		return ""
	}
	return string(b)
}
