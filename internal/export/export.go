// Package export serializes query result sets to Excel, CSV, PDF and
// JSON snapshot files.  Files land under the configured export path
// in a YYYYMM subdirectory with timestamped names, matching how
// operators archive monthly exports.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dentexpo/expo-manager/internal/config"
)

// ErrNoData is returned when asked to export an empty result set.
var ErrNoData = errors.New("export: no data")

// ErrColumnMismatch is returned when a row's width differs from the
// header row.
var ErrColumnMismatch = errors.New("export: row width does not match headers")

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("export: unknown format")

// Dataset is a result set prepared for export: a title, a header row
// and pre-formatted cell values.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Validate checks the dataset is exportable.
func (d *Dataset) Validate() error {
	if len(d.Headers) == 0 || len(d.Rows) == 0 {
		return ErrNoData
	}
	for _, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return ErrColumnMismatch
		}
	}
	return nil
}

// Service renders datasets into files according to the export section
// of the settings file.
type Service struct {
	cfg config.ExportConfig
}

// NewService constructs an export Service.
func NewService(cfg config.ExportConfig) *Service {
	return &Service{cfg: cfg}
}

// Export dispatches on format name.  Supported formats are "xlsx",
// "csv" and "pdf"; the JSON snapshot has its own entry point since it
// covers the whole database rather than a single dataset.
func (s *Service) Export(format string, ds Dataset) (string, error) {
	switch format {
	case "xlsx", "excel":
		return s.Excel(ds)
	case "csv":
		return s.CSV(ds)
	case "pdf":
		return s.PDF(ds)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// dir ensures and returns the month-partitioned output directory.
func (s *Service) dir() (string, error) {
	root := s.cfg.Path
	if root == "" {
		root = "exports"
	}
	full := filepath.Join(root, time.Now().Format("200601"))
	if err := os.MkdirAll(full, 0o755); err != nil {
		return "", fmt.Errorf("export: create output dir: %w", err)
	}
	return full, nil
}

// filename builds a timestamped file name like records_20260831_154233.csv.
func filename(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("20060102_150405"), ext)
}

// prefixFor derives the filename prefix from the dataset title,
// falling back to a generic one.
func prefixFor(ds Dataset) string {
	if ds.Title != "" {
		return sanitize(ds.Title)
	}
	return "export"
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ', r == '-', r == '_':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "export"
	}
	return string(out)
}
