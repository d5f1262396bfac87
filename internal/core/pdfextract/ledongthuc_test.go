package pdfextract

import (
	"bytes"
	"context"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoicePDF(t *testing.T, title string, rows [][]string) []byte {
	t.Helper()

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Arial", "", 12)
	doc.Cell(0, 10, title)
	doc.Ln(14)
	for _, r := range rows {
		for _, v := range r {
			doc.CellFormat(60, 8, v, "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestLedongthucExtractTables(t *testing.T) {
	data := invoicePDF(t, "Invoice", [][]string{
		{"Product", "Quantity"},
		{"Silk", "12.5"},
		{"Cotton", "4"},
	})

	p := NewLedongthucProvider()
	tables, err := p.ExtractTables(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, Table{{"Product", "Quantity"}, {"Silk", "12.5"}, {"Cotton", "4"}}, tables[0])
}

func TestLedongthucExtractText(t *testing.T) {
	data := invoicePDF(t, "Invoice", [][]string{
		{"Product", "Quantity"},
		{"Silk", "12.5"},
	})

	text, err := NewLedongthucProvider().ExtractText(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "Invoice\nProduct  Quantity\nSilk  12.5", text)
}

func TestLedongthucMalformedInput(t *testing.T) {
	valid := invoicePDF(t, "Invoice", [][]string{{"Product", "Quantity"}})

	inputs := map[string][]byte{
		"empty":     nil,
		"not a pdf": []byte("hello, this is plain text"),
		"truncated": valid[:len(valid)/3],
	}

	p := NewLedongthucProvider()
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := p.ExtractTables(context.Background(), data)
			assert.ErrorIs(t, err, ErrParseFailure)

			_, err = p.ExtractText(context.Background(), data)
			assert.ErrorIs(t, err, ErrParseFailure)
		})
	}
}

func TestServiceDelegatesToProvider(t *testing.T) {
	svc := NewService(NewLedongthucProvider())
	assert.Equal(t, "ledongthuc-pdf", svc.GetProviderName())

	data := invoicePDF(t, "Invoice", [][]string{{"Item", "Qty"}, {"Linen", "2"}})
	tables, err := svc.ExtractTables(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, []string{"Linen", "2"}, tables[0][1])
}
