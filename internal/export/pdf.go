package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

// Tables wider than this many columns are laid out in landscape.
const landscapeThreshold = 6

// PDF writes the dataset as a paginated document with a header, page
// numbers and a bordered table.  Page size comes from configuration
// (A4 by default).  Returns the written file path.
func (s *Service) PDF(ds Dataset) (string, error) {
	if err := ds.Validate(); err != nil {
		return "", err
	}
	dir, err := s.dir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename(prefixFor(ds), "pdf"))

	orientation := "P"
	if len(ds.Headers) > landscapeThreshold {
		orientation = "L"
	}
	pageSize := s.cfg.PDFPageSize
	if pageSize == "" {
		pageSize = "A4"
	}

	pdf := fpdf.New(orientation, "mm", pageSize, "")
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 8, ds.Title, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 8, time.Now().Format("2006-01-02"), "", 1, "R", false, 0, "")
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+contentWidth(pdf), pdf.GetY())
		pdf.Ln(3)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	colWidth := contentWidth(pdf) / float64(len(ds.Headers))

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(217, 225, 242)
	for _, h := range ds.Headers {
		pdf.CellFormat(colWidth, 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range ds.Rows {
		for _, val := range row {
			pdf.CellFormat(colWidth, 6, val, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("export: write pdf: %w", err)
	}
	return path, nil
}

// contentWidth returns the usable page width between the margins.
func contentWidth(pdf *fpdf.Fpdf) float64 {
	w, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	return w - left - right
}
