package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dentexpo/expo-manager/internal/model"
)

// snapshotVersion identifies the snapshot payload layout.
const snapshotVersion = 1

// Snapshot is a full-database JSON export: every product, exhibition
// and participation record, suitable for backup or migration.
type Snapshot struct {
	Version     int                         `json:"version"`
	ExportedAt  string                      `json:"exported_at"`
	Products    []model.Product             `json:"products"`
	Exhibitions []model.Exhibition          `json:"exhibitions"`
	Records     []model.ParticipationRecord `json:"records"`
}

// NewSnapshot assembles a versioned snapshot with the export time set.
func NewSnapshot(products []model.Product, exhibitions []model.Exhibition, records []model.ParticipationRecord) Snapshot {
	return Snapshot{
		Version:     snapshotVersion,
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
		Products:    products,
		Exhibitions: exhibitions,
		Records:     records,
	}
}

// WriteSnapshot serializes the snapshot to an indented JSON file and
// returns the written path.
func (s *Service) WriteSnapshot(snap Snapshot) (string, error) {
	dir, err := s.dir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename("snapshot", "json"))

	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export: marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("export: write snapshot: %w", err)
	}
	return path, nil
}
