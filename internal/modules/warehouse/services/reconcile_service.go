package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/invoice"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/matcher"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/core/pdfextract"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Document is one uploaded invoice
type Document struct {
	Name string
	Data []byte
}

// Vocabulary supplies the inventory names candidates are matched against.
type Vocabulary interface {
	ItemNames() []string
}

// ReconcileService turns invoice PDFs into matched deduction candidates.
// It never touches the ledger.
type ReconcileService struct {
	extractor pdfextract.Provider
	matcher   *matcher.Matcher
	inventory Vocabulary
	workers   int
}

func NewReconcileService(extractor pdfextract.Provider, m *matcher.Matcher, inventory Vocabulary, workers int) *ReconcileService {
	if workers < 1 {
		workers = 1
	}
	return &ReconcileService{
		extractor: extractor,
		matcher:   m,
		inventory: inventory,
		workers:   workers,
	}
}

type documentResult struct {
	candidates []models.ExtractedCandidate
	err        *models.DocumentError
}

// Reconcile extracts and matches candidates from every document. Documents
// are processed concurrently; the result keeps upload order. A document that
// cannot be read is reported in DocumentErrors and does not affect the rest.
func (s *ReconcileService) Reconcile(ctx context.Context, docs []Document) (*models.ReconcileResult, error) {
	runID := uuid.New()
	logger := log.With().Str("run_id", runID.String()).Logger()
	start := time.Now()

	// one vocabulary for the whole run
	names := s.inventory.ItemNames()

	results := make([]documentResult, len(docs))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range docs {
		i := i
		g.Go(func() error {
			doc := docs[i]
			if doc.Name == "" {
				doc.Name = fmt.Sprintf("document-%d", i+1)
			}
			candidates, err := s.processDocument(ctx, doc, names)
			if err != nil {
				results[i].err = documentError(doc.Name, err)
				logger.Warn().Err(err).Str("document", doc.Name).Msg("Invoice extraction failed")
				return nil
			}
			results[i].candidates = candidates
			logger.Debug().Str("document", doc.Name).Int("candidates", len(candidates)).Msg("Invoice processed")
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &models.ReconcileResult{
		RunID:          runID,
		Candidates:     []models.ExtractedCandidate{},
		DocumentErrors: []*models.DocumentError{},
		Notices:        []string{},
	}
	matched := 0
	for _, r := range results {
		if r.err != nil {
			out.DocumentErrors = append(out.DocumentErrors, r.err)
			continue
		}
		for _, c := range r.candidates {
			if c.IsMatched() {
				matched++
			}
		}
		out.Candidates = append(out.Candidates, r.candidates...)
	}
	if len(out.Candidates) == 0 {
		out.Notices = append(out.Notices, models.NoticeNoCandidatesFound)
	}

	logger.Info().
		Int("documents", len(docs)).
		Int("candidates", len(out.Candidates)).
		Int("matched", matched).
		Int("failed_documents", len(out.DocumentErrors)).
		Dur("took", time.Since(start)).
		Msg("Invoice reconciliation finished")

	return out, nil
}

// processDocument reads tables first and falls back to line-based text
// parsing only when the tables give nothing.
func (s *ReconcileService) processDocument(ctx context.Context, doc Document, names []string) ([]models.ExtractedCandidate, error) {
	tables, err := s.extractor.ExtractTables(ctx, doc.Data)
	if err != nil {
		return nil, err
	}

	var records []invoice.Record
	for _, table := range tables {
		records = append(records, invoice.FromTable(table)...)
	}

	if len(records) == 0 {
		text, err := s.extractor.ExtractText(ctx, doc.Data)
		if err != nil {
			return nil, err
		}
		records = invoice.FromText(text)
	}

	candidates := make([]models.ExtractedCandidate, 0, len(records))
	for _, rec := range records {
		res := s.matcher.Match(rec.Name, names)
		candidates = append(candidates, models.ExtractedCandidate{
			OriginalName:   rec.Name,
			MatchedName:    res.Name,
			Quantity:       rec.Quantity,
			MatchScore:     res.Score,
			Ambiguous:      res.Ambiguous,
			SourceDocument: doc.Name,
		})
	}
	return candidates, nil
}

func documentError(name string, err error) *models.DocumentError {
	code := models.ErrorCodeParseFailure
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		code = models.ErrorCodeCanceled
	}
	return &models.DocumentError{
		Document: name,
		Code:     code,
		Message:  err.Error(),
		Cause:    err,
	}
}
