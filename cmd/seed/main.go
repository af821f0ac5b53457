// Seeds the resource catalog from a JSON file, for local development and
// staging environments.
//
// Usage: go run ./cmd/seed <catalog-file.json>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/upeo/website-backend/internal/config"
	"github.com/upeo/website-backend/internal/resources"
)

type catalogFile struct {
	Resources []resources.Resource `json:"resources"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/seed <catalog-file.json>")
		fmt.Println("Example: go run ./cmd/seed testdata/sample-catalog.json")
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		fmt.Println("DATABASE_URL is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Printf("error reading file: %v\n", err)
		os.Exit(1)
	}
	var catalog catalogFile
	if err := json.Unmarshal(data, &catalog); err != nil {
		fmt.Printf("error parsing JSON: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Printf("error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := resources.NewPostgresRepository(pool)

	seeded, skipped := 0, 0
	for i := range catalog.Resources {
		res := catalog.Resources[i]
		created, err := repo.Create(ctx, &res)
		if err != nil {
			if err == resources.ErrSlugTaken {
				fmt.Printf("  skip %q: slug already exists\n", res.Title)
				skipped++
				continue
			}
			fmt.Printf("error seeding %q: %v\n", res.Title, err)
			os.Exit(1)
		}
		fmt.Printf("  seeded %s (%s)\n", created.Slug, created.Type)
		seeded++
	}

	fmt.Printf("done: %d seeded, %d skipped\n", seeded, skipped)
}
