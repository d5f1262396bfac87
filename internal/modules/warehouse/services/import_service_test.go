package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestImportCSVMasterList(t *testing.T) {
	ctx := context.Background()
	ledger, _ := seededLedger(t)
	svc := NewImportService(ledger)

	csvData := "\ufeffاسم المنتج,الكمية\n" +
		"Red Fabric,10\n" +
		"Silk,5.5\n" +
		",3\n" +
		"Linen,abc\n" +
		"Silk,2\n" +
		"Wool,-1\n" +
		"Cotton,\"1,200\"\n"

	result, err := svc.ImportMasterList(ctx, "master.CSV", []byte(csvData))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, []models.ImportRowError{
		{Row: 4, Reason: "empty item name"},
		{Row: 5, Reason: `invalid quantity "abc"`},
		{Row: 6, Reason: `duplicate item name "Silk"`},
		{Row: 7, Reason: `negative quantity "-1"`},
	}, result.Skipped)

	items := ledger.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []string{"Red Fabric", "Silk", "Cotton"}, ledger.ItemNames())
	assert.Equal(t, 5.5, items[1].RemainingQuantity)
	assert.Equal(t, 1200.0, items[2].OpeningQuantity)
	assert.Equal(t, items[2].OpeningQuantity, items[2].RemainingQuantity)
}

func TestImportXLSXMasterList(t *testing.T) {
	ctx := context.Background()
	ledger, _ := seededLedger(t)
	_, err := ledger.Deduct(ctx, "Silk", 1)
	require.NoError(t, err)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Item", "Meters"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"قماش أحمر", 12.5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Linen", 40}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	result, err := NewImportService(ledger).ImportMasterList(ctx, "stock.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Skipped)

	assert.Equal(t, []string{"قماش أحمر", "Linen"}, ledger.ItemNames())
	assert.Equal(t, 12.5, ledger.Items()[0].RemainingQuantity)
	// import leaves the sales ledger alone
	assert.Len(t, ledger.Sales(nil), 1)
}

func TestImportRejectsUnusableFiles(t *testing.T) {
	ctx := context.Background()
	ledger, _ := seededLedger(t)
	svc := NewImportService(ledger)

	_, err := svc.ImportMasterList(ctx, "master.csv", []byte("Item\nSilk\nLinen\n"))
	assert.ErrorIs(t, err, ErrParseFailure)

	_, err = svc.ImportMasterList(ctx, "master.csv", []byte("Item,Qty\n,\nWool,x\n"))
	assert.ErrorIs(t, err, ErrParseFailure)

	_, err = svc.ImportMasterList(ctx, "master.xlsx", []byte("not a workbook"))
	assert.ErrorIs(t, err, ErrParseFailure)

	_, err = svc.ImportMasterList(ctx, "master.pdf", []byte("%PDF-1.4"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	// inventory untouched by rejected imports
	assert.Equal(t, []string{"Red Fabric", "Silk"}, ledger.ItemNames())
}

func TestParseOpeningQuantity(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr string
	}{
		{raw: "12", want: 12},
		{raw: " 0 ", want: 0},
		{raw: "1,200", want: 1200},
		{raw: "12,345,678.5", want: 12345678.5},
		{raw: "1,5", wantErr: `invalid quantity "1,5"`},
		{raw: "1,20", wantErr: `invalid quantity "1,20"`},
		{raw: "1,2345", wantErr: `invalid quantity "1,2345"`},
		{raw: "12,50.5", wantErr: `invalid quantity "12,50.5"`},
		{raw: "-1,200", wantErr: `negative quantity "-1,200"`},
		{raw: "", wantErr: "missing quantity"},
		{raw: "NaN", wantErr: `invalid quantity "NaN"`},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseOpeningQuantity(tt.raw)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImportSkipsDecimalCommaRows(t *testing.T) {
	ledger, _ := seededLedger(t)
	svc := NewImportService(ledger)

	result, err := svc.ImportMasterList(context.Background(), "master.csv",
		[]byte("Item,Qty\nTulle,\"1,5\"\nSilk,4\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, []models.ImportRowError{{Row: 2, Reason: `invalid quantity "1,5"`}}, result.Skipped)
	assert.Equal(t, []string{"Silk"}, ledger.ItemNames())
}
