package export

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Column sizing bounds in Excel width units.
const (
	minColWidth = 10
	maxColWidth = 40
)

// Excel writes the dataset as an .xlsx workbook with a styled, frozen
// header row and width-fitted columns.  Returns the written file path.
func (s *Service) Excel(ds Dataset) (string, error) {
	if err := ds.Validate(); err != nil {
		return "", err
	}
	dir, err := s.dir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename(prefixFor(ds), "xlsx"))

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := s.cfg.ExcelSheet
	if sheet == "" {
		sheet = "Data"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return "", fmt.Errorf("export: rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border: []excelize.Border{
			{Type: "left", Style: 1, Color: "000000"},
			{Type: "right", Style: 1, Color: "000000"},
			{Type: "top", Style: 1, Color: "000000"},
			{Type: "bottom", Style: 1, Color: "000000"},
		},
	})
	if err != nil {
		return "", fmt.Errorf("export: header style: %w", err)
	}

	for col, h := range ds.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return "", fmt.Errorf("export: write header cell: %w", err)
		}
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(ds.Headers), 1)
	if err := f.SetCellStyle(sheet, "A1", endHeader, headerStyle); err != nil {
		return "", fmt.Errorf("export: apply header style: %w", err)
	}

	widths := make([]int, len(ds.Headers))
	for i, h := range ds.Headers {
		widths[i] = len(h)
	}
	for rowIdx, row := range ds.Rows {
		for col, val := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return "", fmt.Errorf("export: write cell: %w", err)
			}
			if len(val) > widths[col] {
				widths[col] = len(val)
			}
		}
	}

	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return "", err
		}
		if w < minColWidth {
			w = minColWidth
		}
		if w > maxColWidth {
			w = maxColWidth
		}
		if err := f.SetColWidth(sheet, name, name, float64(w)+2); err != nil {
			return "", fmt.Errorf("export: set column width: %w", err)
		}
	}

	// Keep the header row visible while scrolling.
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return "", fmt.Errorf("export: freeze header: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("export: save workbook: %w", err)
	}
	return path, nil
}
