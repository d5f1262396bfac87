package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/models"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported master list format, use .xlsx or .csv")

// commas are only accepted as thousands separators; "1,5" is ambiguous
var thousandsGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// InventoryWriter receives a parsed master list
type InventoryWriter interface {
	ReplaceInventory(ctx context.Context, items []models.InventoryItem) error
}

// ImportService loads the master stock list (item name, opening meters)
// from a spreadsheet.
type ImportService struct {
	inventory InventoryWriter
}

func NewImportService(inventory InventoryWriter) *ImportService {
	return &ImportService{inventory: inventory}
}

// ImportMasterList replaces the inventory with the rows of the uploaded
// file. The first row is a header; the first two columns are name and
// opening quantity. Bad rows are skipped and reported.
func (s *ImportService) ImportMasterList(ctx context.Context, filename string, data []byte) (*models.ImportResult, error) {
	rows, err := readRows(filename, data)
	if err != nil {
		return nil, err
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width < 2 {
		return nil, fmt.Errorf("%w: master list needs at least two columns (item, quantity)", ErrParseFailure)
	}

	items, skipped := parseMasterRows(rows)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: master list has no importable rows", ErrParseFailure)
	}

	if err := s.inventory.ReplaceInventory(ctx, items); err != nil {
		return nil, err
	}

	log.Info().
		Str("file", filename).
		Int("imported", len(items)).
		Int("skipped", len(skipped)).
		Msg("Master list imported")

	return &models.ImportResult{Imported: len(items), Skipped: skipped}, nil
}

func readRows(filename string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrParseFailure)
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
		}
		return rows, nil

	case ".csv":
		r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff"))))
		r.FieldsPerRecord = -1
		r.TrimLeadingSpace = true

		var rows [][]string
		for {
			row, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
			}
			rows = append(rows, row)
		}
		return rows, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

// parseMasterRows skips the header. Rows are numbered from 1 with the
// header as row 1, like the spreadsheet shows them.
func parseMasterRows(rows [][]string) ([]models.InventoryItem, []models.ImportRowError) {
	var items []models.InventoryItem
	skipped := []models.ImportRowError{}
	seen := make(map[string]bool)

	for i, row := range rows {
		if i == 0 {
			continue
		}
		rowNum := i + 1
		if blankRow(row) {
			continue
		}

		name := ""
		if len(row) > 0 {
			name = strings.TrimSpace(row[0])
		}
		if name == "" {
			skipped = append(skipped, models.ImportRowError{Row: rowNum, Reason: "empty item name"})
			continue
		}

		raw := ""
		if len(row) > 1 {
			raw = row[1]
		}
		qty, err := parseOpeningQuantity(raw)
		if err != nil {
			skipped = append(skipped, models.ImportRowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		if seen[name] {
			skipped = append(skipped, models.ImportRowError{Row: rowNum, Reason: fmt.Sprintf("duplicate item name %q", name)})
			continue
		}
		seen[name] = true

		items = append(items, models.InventoryItem{
			Name:              name,
			OpeningQuantity:   qty,
			RemainingQuantity: qty,
		})
	}

	return items, skipped
}

func parseOpeningQuantity(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New("missing quantity")
	}
	if strings.Contains(s, ",") {
		if !thousandsGrouped.MatchString(s) {
			return 0, fmt.Errorf("invalid quantity %q", raw)
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	qty, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return 0, fmt.Errorf("invalid quantity %q", raw)
	}
	if qty < 0 {
		return 0, fmt.Errorf("negative quantity %q", raw)
	}
	return qty, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
