package threatintel

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sunscan-sec/sunscan/internal/core/domain"
	"github.com/sunscan-sec/sunscan/internal/core/ports"
)

// SeedLoader loads threat feed records from JSON files into the database.
type SeedLoader struct {
	repo ports.ThreatRepository
}

// NewSeedLoader creates a new seed loader.
func NewSeedLoader(repo ports.ThreatRepository) *SeedLoader {
	return &SeedLoader{repo: repo}
}

// LoadFromFile loads threat records from a JSON file and records the
// sync outcome.
func (s *SeedLoader) LoadFromFile(ctx context.Context, filepath string) error {
	log.Printf("[THREAT-FEED] Loading records from %s", filepath)

	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var recs []domain.ThreatRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	loaded := 0
	failed := 0

	for _, rec := range recs {
		if err := s.repo.Upsert(ctx, rec); err != nil {
			log.Printf("[THREAT-FEED] Failed to load %q: %v", rec.Title, err)
			failed++
		} else {
			loaded++
		}
	}

	log.Printf("[THREAT-FEED] Loaded %d records (%d failed)", loaded, failed)

	total, err := s.repo.TotalCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	status := domain.ThreatSyncStatus{
		LastSyncTime: time.Now().UTC(),
		RecordCount:  total,
	}
	if failed > 0 {
		status.ErrorMessage = fmt.Sprintf("%d records failed to load", failed)
	}

	return s.repo.UpdateSyncStatus(ctx, status)
}

// LoadFromMultipleFiles loads threat records from multiple JSON files.
func (s *SeedLoader) LoadFromMultipleFiles(ctx context.Context, filepaths []string) error {
	totalLoaded := 0

	for _, filepath := range filepaths {
		if err := s.LoadFromFile(ctx, filepath); err != nil {
			log.Printf("[THREAT-FEED] Failed to load %s: %v", filepath, err)
			continue
		}
		totalLoaded++
	}

	log.Printf("[THREAT-FEED] Loaded from %d/%d files", totalLoaded, len(filepaths))
	return nil
}
