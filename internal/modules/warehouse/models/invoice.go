package models

import (
	"fmt"

	"github.com/google/uuid"
)

// ExtractedCandidate is a (name, quantity) pair read from an invoice and
// scored against the inventory. Candidates live only for one request.
type ExtractedCandidate struct {
	OriginalName   string  `json:"original_name"`
	MatchedName    string  `json:"matched_name,omitempty"`
	Quantity       float64 `json:"quantity"`
	MatchScore     float64 `json:"match_score"`
	Ambiguous      bool    `json:"ambiguous,omitempty"`
	SourceDocument string  `json:"source_document"`
}

// IsMatched reports whether the candidate resolved to an inventory item
func (c ExtractedCandidate) IsMatched() bool {
	return c.MatchedName != ""
}

// DocumentError explains why one uploaded document produced no candidates.
type DocumentError struct {
	Document string `json:"document"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Cause    error  `json:"-"`
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Document, e.Code, e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

const (
	NoticeNoCandidatesFound = "NO_CANDIDATES_FOUND"

	ErrorCodeParseFailure = "PARSE_FAILURE"
	ErrorCodeCanceled     = "CANCELED"
)

// ReconcileResult is the annotated candidate list for one reconcile run,
// in upload order.
type ReconcileResult struct {
	RunID          uuid.UUID            `json:"run_id"`
	Candidates     []ExtractedCandidate `json:"candidates"`
	DocumentErrors []*DocumentError     `json:"document_errors"`
	Notices        []string             `json:"notices"`
}

// Confirmation outcome for one candidate
type CandidateOutcome struct {
	Candidate ExtractedCandidate `json:"candidate"`
	Status    string             `json:"status"`
	Reason    string             `json:"reason,omitempty"`
}

const (
	OutcomeConfirmed         = "confirmed"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeItemNotFound      = "item_not_found"
	OutcomeInvalidQuantity   = "invalid_quantity"
)

// BatchResult summarizes a confirmed batch. Unmatched candidates are not
// counted.
type BatchResult struct {
	SuccessCount int                `json:"success_count"`
	FailureCount int                `json:"failure_count"`
	Outcomes     []CandidateOutcome `json:"outcomes"`
}
