package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/sunscan-sec/sunscan/internal/adapters/threatintel"
)

func main() {
	seedFile := flag.String("seed-file", "./configs/threat_seed.json", "Path to threat feed seed JSON file")
	dbPath := flag.String("db-path", "./data/threats.db", "Path to the threat intelligence database")
	flag.Parse()

	log.Println("=== Threat Feed Loader ===")
	log.Printf("Seed file: %s", *seedFile)
	log.Printf("Database: %s", *dbPath)

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	repo, err := threatintel.NewSQLiteRepository(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}
	defer repo.Close()

	loader := threatintel.NewSeedLoader(repo)
	ctx := context.Background()

	if err := loader.LoadFromFile(ctx, *seedFile); err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}

	count, _ := repo.TotalCount(ctx)
	log.Printf("Database now contains %d threat records", count)
}
