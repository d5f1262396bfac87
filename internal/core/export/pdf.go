package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders tables with gofpdf core fonts. Text is translated to
// cp1252; glyphs outside it are substituted.
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Export exports data to PDF format
func (p *PDFExporter) Export(data *ExportData, writer io.Writer) error {
	if len(data.Tables) == 0 {
		return fmt.Errorf("no tables to export")
	}

	orientation := "P"
	if data.Style.Orientation == "landscape" {
		orientation = "L"
	}
	pageSize := data.Style.PageSize
	if pageSize == "" {
		pageSize = "A4"
	}
	fontSize := data.Style.FontSize
	if fontSize <= 0 {
		fontSize = 10
	}

	pdf := gofpdf.New(orientation, "mm", pageSize, "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(data.Title, true)
	pdf.SetAuthor(data.Author, true)
	pdf.AddPage()

	// Core fonts only
	fontFamily := "Arial"

	if data.Title != "" {
		pdf.SetFont(fontFamily, "B", 16)
		pdf.Cell(0, 10, tr(data.Title))
		pdf.Ln(12)
	}

	if !data.CreatedAt.IsZero() {
		pdf.SetFont(fontFamily, "I", 8)
		pdf.Cell(0, 5, fmt.Sprintf("Generated: %s", data.CreatedAt.Format("2006-01-02 15:04:05")))
		pdf.Ln(8)
	}

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottomMargin := pdf.GetMargins()

	for ti, table := range data.Tables {
		numCols := len(table.Headers)
		if numCols == 0 {
			return fmt.Errorf("table %q has no headers", table.Name)
		}

		if ti > 0 {
			pdf.Ln(6)
		}
		if table.Name != "" {
			pdf.SetFont(fontFamily, "B", 12)
			pdf.Cell(0, 8, tr(table.Name))
			pdf.Ln(9)
		}

		pageWidth, _ := pdf.GetPageSize()
		leftMargin, _, rightMargin, _ := pdf.GetMargins()
		colWidth := (pageWidth - leftMargin - rightMargin) / float64(numCols)

		drawHeader := func() {
			pdf.SetFont(fontFamily, "B", fontSize)
			if data.Style.HeaderBgColor != "" {
				r, g, b := hexToRGB(data.Style.HeaderBgColor)
				pdf.SetFillColor(r, g, b)
				pdf.SetTextColor(255, 255, 255) // White text
			}
			for _, header := range table.Headers {
				pdf.CellFormat(colWidth, 7, tr(header), "1", 0, "C", data.Style.HeaderBgColor != "", 0, "")
			}
			pdf.Ln(-1)
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont(fontFamily, "", fontSize)
		}
		drawHeader()

		for rowIdx, row := range table.Rows {
			// Check if we need a new page
			if pdf.GetY()+6 > pageHeight-bottomMargin {
				pdf.AddPage()
				drawHeader()
			}

			if data.Style.AlternateRows {
				color := data.Style.RowBgColor1
				if rowIdx%2 == 1 {
					color = data.Style.RowBgColor2
				}
				r, g, b := hexToRGB(color)
				pdf.SetFillColor(r, g, b)
			}

			for colIdx, value := range row {
				align := "L"
				if _, numeric := value.(float64); numeric && colIdx > 0 {
					align = "R"
				}
				pdf.CellFormat(colWidth, 6, tr(formatCell(value)), "1", 0, align, data.Style.AlternateRows, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.Output(writer); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	return nil
}

// GetContentType returns the MIME type for PDF files
func (p *PDFExporter) GetContentType() string {
	return "application/pdf"
}

// GetFileExtension returns the file extension for PDF files
func (p *PDFExporter) GetFileExtension() string {
	return ".pdf"
}

func formatCell(value interface{}) string {
	switch v := value.(type) {
	case float64:
		return fmt.Sprintf("%.2f", v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// hexToRGB converts hex color to RGB values
func hexToRGB(hex string) (int, int, int) {
	// Remove # if present
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}

	// Default to white if invalid
	if len(hex) != 6 {
		return 255, 255, 255
	}

	// Parse hex
	var r, g, b int
	fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return r, g, b
}
