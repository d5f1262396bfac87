package repositories

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/models"
	"github.com/google/uuid"
)

const (
	inventoryFile = "inventory.csv"
	salesFile     = "sales.csv"

	legacyTimeLayout = "2006-01-02 15:04:05"
)

var (
	inventoryHeader = []string{"id", "item_name", "opening_quantity", "remaining_quantity"}
	salesHeader     = []string{"id", "timestamp", "item_id", "item_name", "quantity_deducted", "note", "source_document"}

	// header aliases, including the Arabic column names of older files
	columnAliases = map[string]string{
		"الصنف":     "item_name",
		"الافتتاحي": "opening_quantity",
		"المتبقي":   "remaining_quantity",
		"التاريخ":   "timestamp",
		"أمتار":     "quantity_deducted",
		"ملاحظة":    "note",
	}
)

type csvLedgerRepo struct {
	dir string
}

// NewCSVLedgerRepo stores the ledger as two flat files in dir. Each file is
// replaced atomically on save.
func NewCSVLedgerRepo(dir string) LedgerRepo {
	return &csvLedgerRepo{dir: dir}
}

func (r *csvLedgerRepo) Name() string { return "csv" }

func (r *csvLedgerRepo) Load(ctx context.Context) (*models.Ledger, error) {
	ledger := &models.Ledger{}

	invRows, err := readCSV(filepath.Join(r.dir, inventoryFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	if len(invRows) > 0 {
		cols := headerIndex(invRows[0])
		if _, ok := cols["item_name"]; !ok {
			return nil, fmt.Errorf("inventory file has no item name column")
		}
		for i, rec := range invRows[1:] {
			item, err := parseItemRow(cols, rec)
			if err != nil {
				return nil, fmt.Errorf("inventory row %d: %w", i+2, err)
			}
			ledger.Items = append(ledger.Items, item)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	salesRows, err := readCSV(filepath.Join(r.dir, salesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read sales: %w", err)
	}
	if len(salesRows) > 0 {
		cols := headerIndex(salesRows[0])
		for i, rec := range salesRows[1:] {
			sale, err := parseSaleRow(cols, rec, ledger)
			if err != nil {
				return nil, fmt.Errorf("sales row %d: %w", i+2, err)
			}
			sale.Seq = int64(i + 1)
			ledger.Sales = append(ledger.Sales, sale)
		}
	}

	return ledger, nil
}

func (r *csvLedgerRepo) Save(ctx context.Context, ledger *models.Ledger) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return err
	}

	inv := make([][]string, 0, len(ledger.Items)+1)
	inv = append(inv, inventoryHeader)
	for _, item := range ledger.Items {
		inv = append(inv, []string{
			item.ID.String(),
			item.Name,
			formatQuantity(item.OpeningQuantity),
			formatQuantity(item.RemainingQuantity),
		})
	}

	sales := make([][]string, 0, len(ledger.Sales)+1)
	sales = append(sales, salesHeader)
	for _, s := range ledger.Sales {
		sales = append(sales, []string{
			s.ID.String(),
			s.Timestamp.Format(time.RFC3339Nano),
			s.ItemID.String(),
			s.ItemName,
			formatQuantity(s.QuantityDeducted),
			s.Note,
			s.SourceDocument,
		})
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeCSVAtomic(filepath.Join(r.dir, salesFile), sales); err != nil {
		return fmt.Errorf("failed to write sales: %w", err)
	}
	if err := writeCSVAtomic(filepath.Join(r.dir, inventoryFile), inv); err != nil {
		return fmt.Errorf("failed to write inventory: %w", err)
	}
	return nil
}

func (r *csvLedgerRepo) Reset(ctx context.Context) error {
	for _, name := range []string{inventoryFile, salesFile} {
		if err := os.Remove(filepath.Join(r.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// spreadsheet tools like to prepend a BOM
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// writeCSVAtomic writes to a temp file next to path, then renames it over path.
func writeCSVAtomic(path string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return err
	}

	temp := path + ".tmp"
	if err := os.WriteFile(temp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(temp, path)
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if alias, ok := columnAliases[strings.TrimSpace(h)]; ok {
			key = alias
		}
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	return idx
}

func field(cols map[string]int, rec []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseItemRow(cols map[string]int, rec []string) (models.InventoryItem, error) {
	name := field(cols, rec, "item_name")
	if name == "" {
		return models.InventoryItem{}, fmt.Errorf("empty item name")
	}

	opening, err := parseStoredQuantity(field(cols, rec, "opening_quantity"))
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("opening quantity: %w", err)
	}
	remaining, err := parseStoredQuantity(field(cols, rec, "remaining_quantity"))
	if err != nil {
		return models.InventoryItem{}, fmt.Errorf("remaining quantity: %w", err)
	}

	id := LegacyItemID(name)
	if raw := field(cols, rec, "id"); raw != "" {
		if id, err = uuid.Parse(raw); err != nil {
			return models.InventoryItem{}, fmt.Errorf("invalid id: %w", err)
		}
	}

	return models.InventoryItem{
		ID:                id,
		Name:              name,
		OpeningQuantity:   opening,
		RemainingQuantity: remaining,
	}, nil
}

func parseSaleRow(cols map[string]int, rec []string, ledger *models.Ledger) (models.SaleEntry, error) {
	ts, err := parseTimestamp(field(cols, rec, "timestamp"))
	if err != nil {
		return models.SaleEntry{}, err
	}
	qty, err := parseStoredQuantity(field(cols, rec, "quantity_deducted"))
	if err != nil {
		return models.SaleEntry{}, fmt.Errorf("quantity: %w", err)
	}

	sale := models.SaleEntry{
		Timestamp:        ts,
		ItemName:         field(cols, rec, "item_name"),
		QuantityDeducted: qty,
		Note:             field(cols, rec, "note"),
		SourceDocument:   field(cols, rec, "source_document"),
	}

	if raw := field(cols, rec, "id"); raw != "" {
		if sale.ID, err = uuid.Parse(raw); err != nil {
			return models.SaleEntry{}, fmt.Errorf("invalid id: %w", err)
		}
	} else {
		sale.ID = uuid.New()
	}

	if raw := field(cols, rec, "item_id"); raw != "" {
		if sale.ItemID, err = uuid.Parse(raw); err != nil {
			return models.SaleEntry{}, fmt.Errorf("invalid item id: %w", err)
		}
	} else if i := ledger.ItemIndex(sale.ItemName); i >= 0 {
		sale.ItemID = ledger.Items[i].ID
	} else {
		sale.ItemID = LegacyItemID(sale.ItemName)
	}

	return sale, nil
}

func parseStoredQuantity(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func parseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(legacyTimeLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
	}
	return t, nil
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
