package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/models"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/repositories"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BatchNote is written on every sale entry created from a PDF invoice
// ("entered via PDF invoice").
const BatchNote = "تم الإدخال عبر فاتورة PDF"

const topItemsLimit = 10

// quantityPlaces matches the NUMERIC(14,4) quantity columns
const quantityPlaces = 4

func roundQuantity(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(quantityPlaces)
}

// LedgerService owns the in-memory ledger. Readers get copies; writers
// build the next state on a clone, persist it, then swap it in, all under
// one lock.
type LedgerService struct {
	repo repositories.LedgerRepo

	mu    sync.RWMutex
	state *models.Ledger
	now   func() time.Time
}

// NewLedgerService loads the persisted ledger.
func NewLedgerService(ctx context.Context, repo repositories.LedgerRepo) (*LedgerService, error) {
	state, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger from %s: %w", repo.Name(), err)
	}
	if state == nil {
		state = &models.Ledger{}
	}

	log.Info().
		Str("backend", repo.Name()).
		Int("items", len(state.Items)).
		Int("sales", len(state.Sales)).
		Msg("Ledger loaded")

	return &LedgerService{repo: repo, state: state, now: time.Now}, nil
}

// WithClock replaces the time source used for sale timestamps.
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

// Items returns the inventory in listing order
func (s *LedgerService) Items() []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.InventoryItem, len(s.state.Items))
	copy(items, s.state.Items)
	return items
}

// ItemNames returns the inventory vocabulary used for matching
func (s *LedgerService) ItemNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Names()
}

// Snapshot returns a copy of the whole ledger
func (s *LedgerService) Snapshot() *models.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Sales lists sale entries in append order. A non-nil weekday keeps only
// entries recorded on that day.
func (s *LedgerService) Sales(weekday *time.Weekday) []models.SaleEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterSales(s.state.Sales, weekday)
}

func filterSales(sales []models.SaleEntry, weekday *time.Weekday) []models.SaleEntry {
	out := make([]models.SaleEntry, 0, len(sales))
	for _, sale := range sales {
		if weekday != nil && sale.Timestamp.Weekday() != *weekday {
			continue
		}
		out = append(out, sale)
	}
	return out
}

// Summary aggregates the sales ledger. period selects the window for the
// period counters (today by default).
func (s *LedgerService) Summary(period string) (analytics.Summary, error) {
	s.mu.RLock()
	now := s.now()
	points := make([]analytics.SalePoint, len(s.state.Sales))
	for i, sale := range s.state.Sales {
		points[i] = analytics.SalePoint{Item: sale.ItemName, Quantity: sale.QuantityDeducted, At: sale.Timestamp}
	}
	s.mu.RUnlock()

	rng, err := analytics.GetDateRange(period, now)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(points, rng, topItemsLimit), nil
}

// Deduct removes quantity meters from the named item and records a sale.
// A rejected deduction changes nothing.
func (s *LedgerService) Deduct(ctx context.Context, itemName string, quantity float64) (*models.SaleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	entry, err := deduct(next, strings.TrimSpace(itemName), quantity, "", "", s.now())
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	log.Info().
		Str("item", entry.ItemName).
		Float64("quantity", entry.QuantityDeducted).
		Msg("Stock deducted")

	return &entry, nil
}

// ConfirmBatch applies the reviewed invoice candidates. Each matched
// candidate is checked against current stock independently; failures do
// not roll back earlier successes. Unmatched candidates are ignored. The
// ledger is persisted once, and only if at least one deduction succeeded;
// otherwise ErrNothingDeducted is returned alongside the outcomes.
func (s *LedgerService) ConfirmBatch(ctx context.Context, candidates []models.ExtractedCandidate) (*models.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	now := s.now()
	result := &models.BatchResult{Outcomes: make([]models.CandidateOutcome, 0, len(candidates))}

	for _, c := range candidates {
		if !c.IsMatched() {
			continue
		}

		outcome := models.CandidateOutcome{Candidate: c, Status: models.OutcomeConfirmed}
		if _, err := deduct(next, c.MatchedName, c.Quantity, BatchNote, c.SourceDocument, now); err != nil {
			outcome.Status = outcomeStatus(err)
			outcome.Reason = err.Error()
			result.FailureCount++
		} else {
			result.SuccessCount++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	if result.SuccessCount == 0 {
		log.Warn().Int("failures", result.FailureCount).Msg("Invoice batch rejected, nothing deducted")
		return result, ErrNothingDeducted
	}
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	log.Info().
		Int("success", result.SuccessCount).
		Int("failed", result.FailureCount).
		Msg("Invoice batch confirmed")

	return result, nil
}

// ReplaceInventory overwrites the inventory with items, keeping the sales
// ledger. Items whose name already exists keep their id so past sales
// still resolve.
func (s *LedgerService) ReplaceInventory(ctx context.Context, items []models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]uuid.UUID, len(s.state.Items))
	for _, item := range s.state.Items {
		existing[item.Name] = item.ID
	}

	now := s.now()
	next := s.state.Clone()
	next.Items = make([]models.InventoryItem, len(items))
	for i, item := range items {
		if id, ok := existing[item.Name]; ok {
			item.ID = id
		} else if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OpeningQuantity = roundQuantity(item.OpeningQuantity).InexactFloat64()
		item.RemainingQuantity = roundQuantity(item.RemainingQuantity).InexactFloat64()
		item.UpdatedAt = now
		next.Items[i] = item
	}

	if err := s.commit(ctx, next); err != nil {
		return err
	}

	log.Info().Int("items", len(items)).Msg("Inventory replaced")
	return nil
}

// Reset discards inventory and sales
func (s *LedgerService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset ledger: %w", err)
	}
	s.state = &models.Ledger{}

	log.Warn().Str("backend", s.repo.Name()).Msg("Ledger reset")
	return nil
}

func (s *LedgerService) commit(ctx context.Context, next *models.Ledger) error {
	if err := s.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to persist ledger: %w", err)
	}
	s.state = next
	return nil
}

// deduct applies one deduction to l in place.
func deduct(l *models.Ledger, name string, quantity float64, note, source string, at time.Time) (models.SaleEntry, error) {
	if quantity <= 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return models.SaleEntry{}, fmt.Errorf("%w: %v", ErrInvalidQuantity, quantity)
	}
	requested := roundQuantity(quantity)
	if !requested.IsPositive() {
		return models.SaleEntry{}, fmt.Errorf("%w: %v rounds to zero", ErrInvalidQuantity, quantity)
	}

	idx := l.ItemIndex(name)
	if idx < 0 {
		return models.SaleEntry{}, fmt.Errorf("%w: %q", ErrItemNotFound, name)
	}
	item := &l.Items[idx]

	remaining := roundQuantity(item.RemainingQuantity)
	if remaining.LessThan(requested) {
		return models.SaleEntry{}, fmt.Errorf("%w: %q has %s, requested %s",
			ErrInsufficientStock, item.Name, remaining.String(), requested.String())
	}

	item.RemainingQuantity = remaining.Sub(requested).InexactFloat64()
	item.UpdatedAt = at

	var seq int64 = 1
	if n := len(l.Sales); n > 0 {
		seq = l.Sales[n-1].Seq + 1
	}
	entry := models.SaleEntry{
		ID:               uuid.New(),
		Timestamp:        at,
		ItemID:           item.ID,
		ItemName:         item.Name,
		QuantityDeducted: requested.InexactFloat64(),
		Note:             note,
		SourceDocument:   source,
		Seq:              seq,
	}
	l.Sales = append(l.Sales, entry)

	return entry, nil
}

func outcomeStatus(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return models.OutcomeInsufficientStock
	case errors.Is(err, ErrItemNotFound):
		return models.OutcomeItemNotFound
	default:
		return models.OutcomeInvalidQuantity
	}
}
