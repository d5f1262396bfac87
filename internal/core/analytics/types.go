package analytics

import "time"

// DateRange represents a time period for filtering, inclusive on both ends
type DateRange struct {
	Period string    `json:"period"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Contains reports whether t falls inside the range
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// SalePoint is one deduction as seen by the aggregator
type SalePoint struct {
	Item     string
	Quantity float64
	At       time.Time
}

// ItemTotal is the quantity sold for one item
type ItemTotal struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
	Entries  int     `json:"entries"`
}

// Summary is the sales overview: lifetime totals plus one period
type Summary struct {
	TotalQuantity float64     `json:"total_quantity"`
	EntryCount    int         `json:"entry_count"`
	DistinctItems int         `json:"distinct_items"`
	TopItem       string      `json:"top_item,omitempty"`
	TopItems      []ItemTotal `json:"top_items"`

	Range          DateRange `json:"range"`
	PeriodEntries  int       `json:"period_entries"`
	PeriodQuantity float64   `json:"period_quantity"`
}
