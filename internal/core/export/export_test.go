package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleData() *ExportData {
	return &ExportData{
		Title:     "Warehouse Ledger",
		Author:    "micro-warehouse-ledger",
		CreatedAt: time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC),
		Style:     DefaultStyle(),
		Tables: []TableData{
			{
				Name:    "Inventory",
				Headers: []string{"Item", "Opening", "Remaining"},
				Rows: [][]interface{}{
					{"Silk", 100.0, 87.5},
					{"قماش أحمر", 50.0, 50.0},
				},
			},
			{
				Name:    "Sales",
				Headers: []string{"Timestamp", "Item", "Quantity"},
				Rows: [][]interface{}{
					{"2024-03-06 10:00:00", "Silk", 12.5},
				},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("")
	assert.True(t, ok)
	assert.Equal(t, FormatExcel, f)

	f, ok = ParseFormat("pdf")
	assert.True(t, ok)
	assert.Equal(t, FormatPDF, f)

	_, ok = ParseFormat("docx")
	assert.False(t, ok)
}

func TestExcelExportWritesOneSheetPerTable(t *testing.T) {
	svc := NewService()
	data, contentType, err := svc.Export(sampleData(), FormatExcel)
	require.NoError(t, err)
	assert.Contains(t, contentType, "spreadsheetml")

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Inventory", "Sales"}, f.GetSheetList())

	rows, err := f.GetRows("Inventory")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Item", "Opening", "Remaining"}, rows[0])
	assert.Equal(t, "Silk", rows[1][0])
	assert.Equal(t, "87.5", rows[1][2])
	assert.Equal(t, "قماش أحمر", rows[2][0])

	sales, err := f.GetRows("Sales")
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "12.5", sales[1][2])
}

func TestPDFExport(t *testing.T) {
	svc := NewService()
	data, contentType, err := svc.Export(sampleData(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestExportRejectsEmptyAndUnknown(t *testing.T) {
	svc := NewService()

	_, _, err := svc.Export(&ExportData{Style: DefaultStyle()}, FormatExcel)
	assert.Error(t, err)

	_, _, err = svc.Export(sampleData(), ExportFormat("docx"))
	assert.Error(t, err)
	assert.Equal(t, ".bin", svc.GetFileExtension(ExportFormat("docx")))
	assert.Equal(t, ".xlsx", svc.GetFileExtension(FormatExcel))
	assert.Equal(t, ".pdf", svc.GetFileExtension(FormatPDF))
}

func TestExportToWriter(t *testing.T) {
	svc := NewService()

	var buf bytes.Buffer
	require.NoError(t, svc.ExportToWriter(sampleData(), FormatExcel, &buf))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Inventory", "Sales"}, f.GetSheetList())

	buf.Reset()
	assert.Error(t, svc.ExportToWriter(sampleData(), ExportFormat("docx"), &buf))
	assert.Zero(t, buf.Len())
}

func TestUniqueSheetName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "Sales_Monday", uniqueSheetName("Sales/Monday", 0, used))
	assert.Equal(t, "sales_monday (2)", uniqueSheetName("sales:monday", 1, used))
	assert.Equal(t, "Sheet3", uniqueSheetName("  ", 2, used))

	long := uniqueSheetName("A very long sheet name that exceeds the limit", 3, used)
	assert.Len(t, []rune(long), maxSheetNameLen)
}

func TestColumnNumberToName(t *testing.T) {
	assert.Equal(t, "A", columnNumberToName(1))
	assert.Equal(t, "Z", columnNumberToName(26))
	assert.Equal(t, "AA", columnNumberToName(27))
}
