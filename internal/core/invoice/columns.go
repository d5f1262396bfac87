// Package invoice turns extracted invoice tables and text into
// (product name, quantity) records.
package invoice

import "strings"

var (
	// ProductKeywords identify the product-name column header.
	ProductKeywords = []string{"المنتج", "الصنف", "الاسم", "product", "item", "name"}

	// QuantityKeywords identify the quantity column header.
	QuantityKeywords = []string{"الكمية", "quantity", "qty", "عدد", "amount", "count"}
)

// Record is one (name, quantity) pair read from an invoice.
type Record struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// Columns holds the located header positions; -1 means not found.
type Columns struct {
	Name     int
	Quantity int
}

func (c Columns) Found() bool {
	return c.Name >= 0 && c.Quantity >= 0
}

// LocateColumns returns the left-most header cell containing a product
// keyword and the left-most containing a quantity keyword.
func LocateColumns(header []string) Columns {
	cols := Columns{Name: -1, Quantity: -1}
	for i, raw := range header {
		cell := strings.ToLower(strings.TrimSpace(raw))
		if cell == "" {
			continue
		}
		if cols.Name < 0 && containsAny(cell, ProductKeywords) {
			cols.Name = i
		}
		if cols.Quantity < 0 && containsAny(cell, QuantityKeywords) {
			cols.Quantity = i
		}
	}
	return cols
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func isProductHeader(name string) bool {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for _, kw := range ProductKeywords {
		if lowered == kw {
			return true
		}
	}
	return false
}
