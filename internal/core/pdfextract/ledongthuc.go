package pdfextract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// LedongthucProvider reads positioned text with github.com/ledongthuc/pdf
// and rebuilds rows, cells and tables from glyph coordinates.
type LedongthucProvider struct{}

func NewLedongthucProvider() *LedongthucProvider {
	return &LedongthucProvider{}
}

func (p *LedongthucProvider) GetProviderName() string {
	return "ledongthuc-pdf"
}

func (p *LedongthucProvider) ExtractTables(ctx context.Context, data []byte) ([]Table, error) {
	pages, err := p.pageRows(ctx, data)
	if err != nil {
		return nil, err
	}

	var tables []Table
	for _, rows := range pages {
		tables = append(tables, tablesFromRows(rows)...)
	}
	return tables, nil
}

func (p *LedongthucProvider) ExtractText(ctx context.Context, data []byte) (string, error) {
	pages, err := p.pageRows(ctx, data)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for i, rows := range pages {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(textFromRows(rows))
	}
	return buf.String(), nil
}

// pageRows parses every page into rows. The pdf package panics on some
// malformed streams; those surface as ErrParseFailure.
func (p *LedongthucProvider) pageRows(ctx context.Context, data []byte) (pages [][]row, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("pdf reader panicked")
			pages = nil
			err = fmt.Errorf("%w: %v", ErrParseFailure, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content := page.Content()
		glyphs := make([]Glyph, 0, len(content.Text))
		for _, t := range content.Text {
			glyphs = append(glyphs, Glyph{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
		}
		pages = append(pages, buildRows(glyphs))
	}

	return pages, nil
}
