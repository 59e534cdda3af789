package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// utf8BOM is the UTF-8 byte order mark.  Excel needs it to detect the
// encoding of CSV files containing non-ASCII text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV writes the dataset as a comma-separated file, UTF-8 with a BOM
// signature when csv_bom is enabled.  Returns the written file path.
func (s *Service) CSV(ds Dataset) (string, error) {
	if err := ds.Validate(); err != nil {
		return "", err
	}
	dir, err := s.dir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename(prefixFor(ds), "csv"))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: create csv: %w", err)
	}

	if s.cfg.CSVBOM {
		if _, err := f.Write(utf8BOM); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("export: write bom: %w", err)
		}
	}

	w := csv.NewWriter(f)
	if err := w.Write(ds.Headers); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("export: write header: %w", err)
	}
	if err := w.WriteAll(ds.Rows); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("export: write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("export: flush csv: %w", err)
	}
	return path, f.Close()
}
