package services

import (
	"errors"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/pdfextract"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrNothingDeducted   = errors.New("no candidate could be deducted")

	// Unreadable upload: a PDF invoice or a master list.
	ErrParseFailure = pdfextract.ErrParseFailure

	ErrInvalidWeekday = analytics.ErrInvalidWeekday
	ErrInvalidPeriod  = analytics.ErrInvalidPeriod
)
