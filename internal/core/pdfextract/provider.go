package pdfextract

import (
	"context"
	"errors"
)

// ErrParseFailure marks a document the extractor could not read at all.
var ErrParseFailure = errors.New("pdf parse failure")

// Table is a list of rows; a missing cell is the empty string.
type Table [][]string

// Provider interface for PDF text/table extraction backends
type Provider interface {
	// ExtractTables returns every table found, page by page, top to bottom
	ExtractTables(ctx context.Context, data []byte) ([]Table, error)

	// ExtractText returns the document text, one line per visual row
	ExtractText(ctx context.Context, data []byte) (string, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// Service wraps the extraction provider
type Service struct {
	provider Provider
}

// NewService creates a new extraction service with the given provider
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

func (s *Service) ExtractTables(ctx context.Context, data []byte) ([]Table, error) {
	return s.provider.ExtractTables(ctx, data)
}

func (s *Service) ExtractText(ctx context.Context, data []byte) (string, error) {
	return s.provider.ExtractText(ctx, data)
}

// GetProviderName returns the name of the current provider
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}
