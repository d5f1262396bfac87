package invoice

import "strings"

// FromTable reads records from one table whose header names both a product
// and a quantity column. The first row is the header.
func FromTable(table [][]string) []Record {
	if len(table) < 2 {
		return nil
	}

	cols := LocateColumns(table[0])
	if !cols.Found() {
		return nil
	}
	width := max(cols.Name, cols.Quantity)

	var records []Record
	for _, row := range table[1:] {
		if len(row) <= width {
			continue
		}

		name := strings.TrimSpace(row[cols.Name])
		if name == "" || isProductHeader(name) {
			continue
		}

		qty, ok := ParseQuantity(row[cols.Quantity])
		if !ok {
			continue
		}
		records = append(records, Record{Name: name, Quantity: qty})
	}
	return records
}
