package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxSheetNameLen = 31

// ExcelExporter writes one sheet per table using excelize
type ExcelExporter struct{}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export exports data to Excel format
func (e *ExcelExporter) Export(data *ExportData, writer io.Writer) error {
	if len(data.Tables) == 0 {
		return fmt.Errorf("no tables to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := e.createHeaderStyle(f, data.Style)
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	// Create alternating row styles if enabled
	oddRowStyle, _ := e.createRowStyle(f, data.Style, data.Style.RowBgColor1)
	evenRowStyle := oddRowStyle
	if data.Style.AlternateRows {
		evenRowStyle, _ = e.createRowStyle(f, data.Style, data.Style.RowBgColor2)
	}

	used := make(map[string]bool)
	for i, table := range data.Tables {
		sheet := uniqueSheetName(table.Name, i, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("failed to name sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", sheet, err)
		}

		if err := e.writeTable(f, sheet, table, data.Style, headerStyle, oddRowStyle, evenRowStyle); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if data.Author != "" || data.Title != "" {
		f.SetDocProps(&excelize.DocProperties{
			Title:   data.Title,
			Creator: data.Author,
		})
	}

	// Write to output
	if err := f.Write(writer); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}

	return nil
}

func (e *ExcelExporter) writeTable(f *excelize.File, sheet string, table TableData, style ExportStyle, headerStyle, oddRowStyle, evenRowStyle int) error {
	headerRow := 1
	for colIndex, header := range table.Headers {
		cell := columnNumberToName(colIndex+1) + strconv.Itoa(headerRow)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		f.SetCellStyle(sheet, cell, cell, headerStyle)

		// Set column width if specified
		if width, ok := style.ColumnWidths[colIndex]; ok {
			colName := columnNumberToName(colIndex + 1)
			f.SetColWidth(sheet, colName, colName, width)
		}
	}

	for rowIdx, row := range table.Rows {
		rowNum := headerRow + 1 + rowIdx
		rowStyle := oddRowStyle
		if rowIdx%2 == 1 {
			rowStyle = evenRowStyle
		}
		for colIndex, value := range row {
			cell := columnNumberToName(colIndex+1) + strconv.Itoa(rowNum)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
			f.SetCellStyle(sheet, cell, cell, rowStyle)
		}
	}

	// Freeze header row if enabled
	if style.FreezeHeader {
		f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
			ActivePane:  "bottomLeft",
		})
	}

	// Add auto-filter if enabled
	if style.AutoFilter && len(table.Headers) > 0 && len(table.Rows) > 0 {
		lastCol := columnNumberToName(len(table.Headers))
		lastRow := headerRow + len(table.Rows)
		f.AutoFilter(sheet, fmt.Sprintf("A%d:%s%d", headerRow, lastCol, lastRow), nil)
	}
	return nil
}

// GetContentType returns the MIME type for Excel files
func (e *ExcelExporter) GetContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// GetFileExtension returns the file extension for Excel files
func (e *ExcelExporter) GetFileExtension() string {
	return ".xlsx"
}

// createHeaderStyle creates the header style
func (e *ExcelExporter) createHeaderStyle(f *excelize.File, style ExportStyle) (int, error) {
	headerStyle := &excelize.Style{
		Font: &excelize.Font{
			Bold:   style.HeaderBold,
			Size:   style.FontSize,
			Family: style.FontFamily,
			Color:  "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{stripHashFromColor(style.HeaderBgColor)},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	}

	return f.NewStyle(headerStyle)
}

// createRowStyle creates a row style with background color
func (e *ExcelExporter) createRowStyle(f *excelize.File, style ExportStyle, bgColor string) (int, error) {
	rowStyle := &excelize.Style{
		Font: &excelize.Font{
			Size:   style.FontSize,
			Family: style.FontFamily,
		},
	}

	// Only add fill if bgColor is not white
	if bgColor != "" && bgColor != "#FFFFFF" {
		rowStyle.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{stripHashFromColor(bgColor)},
		}
	}

	return f.NewStyle(rowStyle)
}

// uniqueSheetName makes name a legal, unused sheet name
func uniqueSheetName(name string, index int, used map[string]bool) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	if runes := []rune(name); len(runes) > maxSheetNameLen {
		name = string(runes[:maxSheetNameLen])
	}

	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		base := []rune(name)
		if len(base)+len(suffix) > maxSheetNameLen {
			base = base[:maxSheetNameLen-len(suffix)]
		}
		candidate = string(base) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

// columnNumberToName converts column number to Excel column name (1 -> A, 27 -> AA)
func columnNumberToName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+(col%26))) + name
		col /= 26
	}
	return name
}

// stripHashFromColor removes # from hex color codes
func stripHashFromColor(color string) string {
	if len(color) > 0 && color[0] == '#' {
		return color[1:]
	}
	return color
}
