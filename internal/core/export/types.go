package export

import (
	"io"
	"time"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatPDF   ExportFormat = "pdf"
	FormatExcel ExportFormat = "excel"
)

// ParseFormat maps a request value to a format; empty means Excel.
func ParseFormat(s string) (ExportFormat, bool) {
	switch s {
	case "", "excel", "xlsx":
		return FormatExcel, true
	case "pdf":
		return FormatPDF, true
	}
	return "", false
}

// Exporter is the interface for all export formats
type Exporter interface {
	Export(data *ExportData, writer io.Writer) error
	GetContentType() string
	GetFileExtension() string
}

// ExportData is a document made of one or more named tables. Excel writes
// each table to its own sheet; PDF writes them one after another.
type ExportData struct {
	Title     string
	Author    string
	CreatedAt time.Time

	Tables []TableData

	// Styling options
	Style ExportStyle
}

// TableData is one named table
type TableData struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// ExportStyle defines styling options for exports
type ExportStyle struct {
	// PDF specific
	Orientation string // "portrait" or "landscape"
	PageSize    string // "A4", "Letter", etc.

	// Common styling
	HeaderBold    bool
	HeaderBgColor string // Hex color
	AlternateRows bool
	RowBgColor1   string // Hex color for odd rows
	RowBgColor2   string // Hex color for even rows

	// Font settings
	FontFamily string
	FontSize   float64

	// Excel specific
	FreezeHeader bool
	AutoFilter   bool
	ColumnWidths map[int]float64 // Column index -> width
}

// DefaultStyle returns default export styling
func DefaultStyle() ExportStyle {
	return ExportStyle{
		Orientation:   "portrait",
		PageSize:      "A4",
		HeaderBold:    true,
		HeaderBgColor: "#4472C4",
		AlternateRows: true,
		RowBgColor1:   "#FFFFFF",
		RowBgColor2:   "#F2F2F2",
		FontFamily:    "Arial",
		FontSize:      10,
		FreezeHeader:  true,
		AutoFilter:    true,
		ColumnWidths:  map[int]float64{0: 28, 1: 16, 2: 16, 3: 16, 4: 28},
	}
}
