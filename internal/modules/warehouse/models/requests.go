package models

// DeductRequest represents a manual deduction
type DeductRequest struct {
	ItemName string  `json:"item_name"`
	Quantity float64 `json:"quantity"`
}

// ConfirmBatchRequest carries the reviewed candidates back from the client
type ConfirmBatchRequest struct {
	Candidates []ExtractedCandidate `json:"candidates"`
}

// ResetRequest must carry confirm=true
type ResetRequest struct {
	Confirm bool `json:"confirm"`
}

// ImportRowError describes a skipped master-list row (1-based, header is row 1)
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarizes a master-list import
type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  []ImportRowError `json:"skipped"`
}

// InventoryListResponse represents the inventory listing
type InventoryListResponse struct {
	Items []InventoryItem `json:"items"`
	Total int             `json:"total"`
}

// SalesListResponse represents the sales ledger listing
type SalesListResponse struct {
	Sales   []SaleEntry `json:"sales"`
	Total   int         `json:"total"`
	Weekday string      `json:"weekday,omitempty"`
}
