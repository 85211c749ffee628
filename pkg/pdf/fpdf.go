package pdf

import (
	"bytes"
	"errors"
	"sync"

	"github.com/billify/billify-api/pkg/billing"
	"github.com/jung-kurt/gofpdf"
)

// FpdfEngine renders invoice documents with gofpdf on an A4 portrait page
type FpdfEngine struct{}

// NewFpdfEngine creates the default PDF rendering engine
func NewFpdfEngine() *FpdfEngine {
	return &FpdfEngine{}
}

// Start begins a new single-document rendering session
func (e *FpdfEngine) Start() (Session, error) {
	return &fpdfSession{doc: gofpdf.New("P", "mm", "A4", "")}, nil
}

type fpdfSession struct {
	mu     sync.Mutex
	doc    *gofpdf.Fpdf
	closed bool
}

// column widths in mm; page width 210 minus 10mm margins leaves 190
var columnWidths = []float64{10, 90, 20, 35, 35}

func (s *fpdfSession) Render(doc *billing.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("rendering session is closed")
	}

	pdf := s.doc
	pdf.AddPage()

	// Header block
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, doc.Header.Title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, doc.Header.Reference, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+doc.Header.IssuedAt, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "From: "+doc.Header.IssuerName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Billed to: "+doc.Header.OwnerName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, doc.Header.OwnerEmail, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Item table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range doc.Table.Columns {
		pdf.CellFormat(columnWidths[i], 8, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range doc.Table.Rows {
		for i, cell := range row {
			align := "R"
			if i == 1 {
				align = "L"
			}
			pdf.CellFormat(columnWidths[i], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	// Totals block, right aligned against the table edge
	labelWidth := columnWidths[0] + columnWidths[1] + columnWidths[2] + columnWidths[3]
	valueWidth := columnWidths[4]
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(labelWidth, 7, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(valueWidth, 7, doc.Totals.Subtotal, "1", 1, "R", false, 0, "")
	pdf.CellFormat(labelWidth, 7, doc.Totals.TaxLabel, "", 0, "R", false, 0, "")
	pdf.CellFormat(valueWidth, 7, doc.Totals.TaxAmount, "1", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(labelWidth, 7, "Grand Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(valueWidth, 7, doc.Totals.GrandTotal, "1", 1, "R", false, 0, "")
	pdf.Ln(16)

	// Signature block
	pdf.SetFont("Arial", "I", 9)
	for _, line := range doc.Signature.Lines {
		pdf.CellFormat(0, 5, line, "", 1, "R", false, 0, "")
	}

	return pdf.Error()
}

func (s *fpdfSession) Output() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.New("rendering session is closed")
	}

	var buf bytes.Buffer
	if err := s.doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *fpdfSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.doc.Close()
	return nil
}
