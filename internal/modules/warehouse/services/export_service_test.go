package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportFixture(t *testing.T) *ExportService {
	t.Helper()
	ctx := context.Background()
	ledger, _ := seededLedger(t)

	_, err := ledger.Deduct(ctx, "Silk", 1.5)
	require.NoError(t, err)
	ledger.WithClock(func() time.Time { return fixedNow.AddDate(0, 0, 1) })
	_, err = ledger.Deduct(ctx, "Red Fabric", 2)
	require.NoError(t, err)

	svc := NewExportService(ledger, export.NewService())
	svc.now = fixedClock
	return svc
}

func TestExportFullWorkbook(t *testing.T) {
	svc := exportFixture(t)

	file, err := svc.Export(export.FormatExcel, nil)
	require.NoError(t, err)
	assert.Equal(t, "inventory_2024-03-04.xlsx", file.Name)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Inventory", "Sales"}, f.GetSheetList())

	inventory, err := f.GetRows("Inventory")
	require.NoError(t, err)
	require.Len(t, inventory, 3)
	assert.Equal(t, []string{"Red Fabric", "10", "8"}, inventory[1][:3])
	assert.Equal(t, []string{"Silk", "5", "3.5"}, inventory[2][:3])

	sales, err := f.GetRows("Sales")
	require.NoError(t, err)
	assert.Len(t, sales, 3)
}

func TestExportWeekdayFiltered(t *testing.T) {
	svc := exportFixture(t)
	tuesday := time.Tuesday

	file, err := svc.Export(export.FormatExcel, &tuesday)
	require.NoError(t, err)
	assert.Equal(t, "sales_tuesday_2024-03-04.xlsx", file.Name)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, []string{"Sales Tuesday"}, f.GetSheetList())

	rows, err := f.GetRows("Sales Tuesday")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Red Fabric", rows[1][1])
}

func TestExportPDF(t *testing.T) {
	svc := exportFixture(t)

	file, err := svc.Export(export.FormatPDF, nil)
	require.NoError(t, err)
	assert.Equal(t, "inventory_2024-03-04.pdf", file.Name)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF-")))
}

func TestExportWriteTo(t *testing.T) {
	svc := exportFixture(t)
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := svc.WriteTo(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "inventory_2024-03-04.xlsx"), path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "inventory_2024-03-04.xlsx", entries[0].Name())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Inventory", "Sales"}, f.GetSheetList())

	rows, err := f.GetRows("Sales")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	// a second run the same day replaces the file
	_, err = svc.WriteTo(dir)
	require.NoError(t, err)
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
