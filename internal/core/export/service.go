package export

import (
	"bytes"
	"fmt"
	"io"
)

// Service provides high-level export functionality
type Service struct {
	pdfExporter   Exporter
	excelExporter Exporter
}

// NewService creates a new export service
func NewService() *Service {
	return &Service{
		pdfExporter:   NewPDFExporter(),
		excelExporter: NewExcelExporter(),
	}
}

func (s *Service) exporter(format ExportFormat) (Exporter, error) {
	switch format {
	case FormatPDF:
		return s.pdfExporter, nil
	case FormatExcel:
		return s.excelExporter, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// Export renders data and returns the bytes with their content type
func (s *Service) Export(data *ExportData, format ExportFormat) ([]byte, string, error) {
	exporter, err := s.exporter(format)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := exporter.Export(data, &buf); err != nil {
		return nil, "", fmt.Errorf("export failed: %w", err)
	}

	return buf.Bytes(), exporter.GetContentType(), nil
}

// ExportToWriter exports data to a writer
func (s *Service) ExportToWriter(data *ExportData, format ExportFormat, writer io.Writer) error {
	exporter, err := s.exporter(format)
	if err != nil {
		return err
	}
	return exporter.Export(data, writer)
}

// GetFileExtension returns the file extension for the given format
func (s *Service) GetFileExtension(format ExportFormat) string {
	exporter, err := s.exporter(format)
	if err != nil {
		return ".bin"
	}
	return exporter.GetFileExtension()
}
