package invoice

import (
	"bufio"
	"regexp"
	"strings"
)

// name, whitespace, then the last number on the line with an optional unit
var textLinePattern = regexp.MustCompile(`^(.*\S)\s+(\d+(?:\.\d+)?)\D*$`)

// FromText is the last-resort reader for invoices without usable tables.
// Nothing is read until a header line naming both a product and a quantity
// column; every later line of the form "<name> <number>" becomes a record.
func FromText(text string) []Record {
	var records []Record
	inSection := false

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(normalizeDigits(scanner.Text()))
		if line == "" {
			continue
		}

		if !inSection {
			lowered := strings.ToLower(line)
			if containsAny(lowered, ProductKeywords) && containsAny(lowered, QuantityKeywords) {
				inSection = true
			}
			continue
		}

		m := textLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		qty, ok := ParseQuantity(m[2])
		if !ok {
			continue
		}
		records = append(records, Record{Name: strings.TrimSpace(m[1]), Quantity: qty})
	}
	return records
}
