package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/export"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/models"
	"github.com/rs/zerolog/log"
)

// ExportFile is a rendered report ready to download or write out
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// LedgerSnapshotter is the read side of the ledger the exporter needs
type LedgerSnapshotter interface {
	Snapshot() *models.Ledger
}

type ExportService struct {
	ledger   LedgerSnapshotter
	exporter *export.Service
	now      func() time.Time
}

func NewExportService(ledger LedgerSnapshotter, exporter *export.Service) *ExportService {
	return &ExportService{ledger: ledger, exporter: exporter, now: time.Now}
}

// Export renders the inventory and the sales ledger. With a weekday only
// the sales of that day are exported.
func (s *ExportService) Export(format export.ExportFormat, weekday *time.Weekday) (*ExportFile, error) {
	data, base := s.report(weekday)

	content, contentType, err := s.exporter.Export(data, format)
	if err != nil {
		return nil, err
	}

	return &ExportFile{
		Name:        base + s.exporter.GetFileExtension(format),
		ContentType: contentType,
		Data:        content,
	}, nil
}

// WriteTo streams a full Excel export into dir and returns the file path.
// The file appears under its final name only once it is complete.
func (s *ExportService) WriteTo(dir string) (string, error) {
	data, base := s.report(nil)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	path := filepath.Join(dir, base+s.exporter.GetFileExtension(export.FormatExcel))
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.exporter.ExportToWriter(data, export.FormatExcel, tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	log.Info().Str("path", path).Msg("Export written")
	return path, nil
}

// report builds the tables to export and the file name without extension.
func (s *ExportService) report(weekday *time.Weekday) (*export.ExportData, string) {
	now := s.now()
	snapshot := s.ledger.Snapshot()

	data := &export.ExportData{
		Title:     "Warehouse Ledger",
		Author:    "micro-warehouse-ledger",
		CreatedAt: now,
		Style:     export.DefaultStyle(),
	}

	if weekday == nil {
		data.Tables = []export.TableData{inventoryTable(snapshot.Items), salesTable("Sales", snapshot.Sales)}
		return data, "inventory_" + now.Format("2006-01-02")
	}

	data.Title = "Sales - " + weekday.String()
	data.Tables = []export.TableData{salesTable("Sales "+weekday.String(), filterSales(snapshot.Sales, weekday))}
	return data, fmt.Sprintf("sales_%s_%s", strings.ToLower(weekday.String()), now.Format("2006-01-02"))
}

func inventoryTable(items []models.InventoryItem) export.TableData {
	rows := make([][]interface{}, len(items))
	for i, item := range items {
		rows[i] = []interface{}{
			item.Name,
			item.OpeningQuantity,
			item.RemainingQuantity,
			item.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
	}
	return export.TableData{
		Name:    "Inventory",
		Headers: []string{"Item", "Opening (m)", "Remaining (m)", "Updated"},
		Rows:    rows,
	}
}

func salesTable(name string, sales []models.SaleEntry) export.TableData {
	rows := make([][]interface{}, len(sales))
	for i, sale := range sales {
		rows[i] = []interface{}{
			sale.Timestamp.Format("2006-01-02 15:04:05"),
			sale.ItemName,
			sale.QuantityDeducted,
			sale.Note,
			sale.SourceDocument,
		}
	}
	return export.TableData{
		Name:    name,
		Headers: []string{"Timestamp", "Item", "Quantity (m)", "Note", "Source"},
		Rows:    rows,
	}
}
