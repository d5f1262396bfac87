package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/models"
	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// a Monday
var fixedNow = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func seededLedger(t *testing.T) (*LedgerService, repositories.LedgerRepo) {
	t.Helper()
	ctx := context.Background()
	repo := repositories.NewCSVLedgerRepo(t.TempDir())

	svc, err := NewLedgerService(ctx, repo)
	require.NoError(t, err)
	svc.WithClock(fixedClock)

	require.NoError(t, svc.ReplaceInventory(ctx, []models.InventoryItem{
		{Name: "Red Fabric", OpeningQuantity: 10, RemainingQuantity: 10},
		{Name: "Silk", OpeningQuantity: 5, RemainingQuantity: 5},
	}))
	return svc, repo
}

func remaining(t *testing.T, svc *LedgerService, name string) float64 {
	t.Helper()
	for _, item := range svc.Items() {
		if item.Name == name {
			return item.RemainingQuantity
		}
	}
	t.Fatalf("item %q not found", name)
	return 0
}

func TestDeductAcceptsThenRejects(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededLedger(t)

	entry, err := svc.Deduct(ctx, "Red Fabric", 4)
	require.NoError(t, err)
	assert.Equal(t, "Red Fabric", entry.ItemName)
	assert.Equal(t, 4.0, entry.QuantityDeducted)
	assert.Empty(t, entry.Note)
	assert.Equal(t, fixedNow, entry.Timestamp)
	assert.Equal(t, 6.0, remaining(t, svc, "Red Fabric"))

	_, err = svc.Deduct(ctx, "Red Fabric", 8)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 6.0, remaining(t, svc, "Red Fabric"))
	assert.Len(t, svc.Sales(nil), 1)
}

func TestDeductValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededLedger(t)

	_, err := svc.Deduct(ctx, "Red Fabric", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Deduct(ctx, "Red Fabric", -2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Deduct(ctx, "Blue Fabric", 1)
	assert.ErrorIs(t, err, ErrItemNotFound)

	assert.Empty(t, svc.Sales(nil))
	assert.Equal(t, 10.0, remaining(t, svc, "Red Fabric"))
}

func TestDeductUsesExactArithmetic(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededLedger(t)
	require.NoError(t, svc.ReplaceInventory(ctx, []models.InventoryItem{
		{Name: "Tulle", OpeningQuantity: 0.3, RemainingQuantity: 0.3},
	}))

	for i := 0; i < 3; i++ {
		_, err := svc.Deduct(ctx, "Tulle", 0.1)
		require.NoError(t, err)
	}
	assert.Equal(t, 0.0, remaining(t, svc, "Tulle"))

	_, err := svc.Deduct(ctx, "Tulle", 0.1)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestQuantitiesRoundToStoredPrecision(t *testing.T) {
	ctx := context.Background()
	svc, repo := seededLedger(t)
	require.NoError(t, svc.ReplaceInventory(ctx, []models.InventoryItem{
		{Name: "Tulle", OpeningQuantity: 1.23456, RemainingQuantity: 1.23456},
	}))
	assert.Equal(t, 1.2346, remaining(t, svc, "Tulle"))

	entry, err := svc.Deduct(ctx, "Tulle", 0.12344)
	require.NoError(t, err)
	assert.Equal(t, 0.1234, entry.QuantityDeducted)
	assert.Equal(t, 1.1112, remaining(t, svc, "Tulle"))

	_, err = svc.Deduct(ctx, "Tulle", 0.00001)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	// what is stored is what is in memory
	reloaded, err := NewLedgerService(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 1.1112, remaining(t, reloaded, "Tulle"))
	assert.Equal(t, 0.1234, reloaded.Sales(nil)[0].QuantityDeducted)
}

func TestConcurrentDeductionsSerialize(t *testing.T) {
	ctx := context.Background()
	svc, repo := seededLedger(t)

	var wg sync.WaitGroup
	var accepted, rejected atomic.Int32
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			var err error
			if i%2 == 0 {
				_, err = svc.Deduct(ctx, "Red Fabric", 1)
			} else {
				_, err = svc.ConfirmBatch(ctx, []models.ExtractedCandidate{
					{OriginalName: "red fabric", MatchedName: "Red Fabric", Quantity: 1, SourceDocument: "inv.pdf"},
				})
			}

			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrNothingDeducted):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(10), accepted.Load())
	assert.Equal(t, int32(30), rejected.Load())
	assert.Equal(t, 0.0, remaining(t, svc, "Red Fabric"))

	sales := svc.Sales(nil)
	require.Len(t, sales, 10)
	for i, sale := range sales {
		assert.Equal(t, int64(i+1), sale.Seq)
		assert.Equal(t, "Red Fabric", sale.ItemName)
	}

	reloaded, err := NewLedgerService(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 0.0, remaining(t, reloaded, "Red Fabric"))
	assert.Len(t, reloaded.Sales(nil), 10)
}

func TestDeductIsPersisted(t *testing.T) {
	ctx := context.Background()
	svc, repo := seededLedger(t)

	_, err := svc.Deduct(ctx, "Silk", 1.5)
	require.NoError(t, err)

	reloaded, err := NewLedgerService(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 3.5, remaining(t, reloaded, "Silk"))
	require.Len(t, reloaded.Sales(nil), 1)
	assert.Equal(t, "Silk", reloaded.Sales(nil)[0].ItemName)
}

func TestConfirmBatchCountsEachCandidate(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededLedger(t)

	result, err := svc.ConfirmBatch(ctx, []models.ExtractedCandidate{
		{OriginalName: "Red Fabic", MatchedName: "Red Fabric", Quantity: 3, SourceDocument: "a.pdf"},
		{OriginalName: "silk", MatchedName: "Silk", Quantity: 50, SourceDocument: "a.pdf"},
		{OriginalName: "Velvet Curtain", Quantity: 2, SourceDocument: "a.pdf"},
		{OriginalName: "Ghost", MatchedName: "Ghost", Quantity: 1, SourceDocument: "b.pdf"},
		{OriginalName: "Red", MatchedName: "Red Fabric", Quantity: 7, SourceDocument: "b.pdf"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 2, result.FailureCount)
	require.Len(t, result.Outcomes, 4)
	assert.Equal(t, models.OutcomeConfirmed, result.Outcomes[0].Status)
	assert.Equal(t, models.OutcomeInsufficientStock, result.Outcomes[1].Status)
	assert.Equal(t, models.OutcomeItemNotFound, result.Outcomes[2].Status)
	assert.Equal(t, models.OutcomeConfirmed, result.Outcomes[3].Status)

	assert.Equal(t, 0.0, remaining(t, svc, "Red Fabric"))
	assert.Equal(t, 5.0, remaining(t, svc, "Silk"))

	sales := svc.Sales(nil)
	require.Len(t, sales, 2)
	for _, sale := range sales {
		assert.Equal(t, BatchNote, sale.Note)
	}
	assert.Equal(t, "a.pdf", sales[0].SourceDocument)
	assert.Equal(t, "b.pdf", sales[1].SourceDocument)
	assert.Less(t, sales[0].Seq, sales[1].Seq)
}

func TestConfirmBatchAllFailedPersistsNothing(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repositories.NewMockLedgerRepo(ctrl)

	repo.EXPECT().Name().Return("mock").AnyTimes()
	repo.EXPECT().Load(gomock.Any()).Return(&models.Ledger{
		Items: []models.InventoryItem{{Name: "Silk", OpeningQuantity: 5, RemainingQuantity: 5}},
	}, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	svc, err := NewLedgerService(ctx, repo)
	require.NoError(t, err)

	result, err := svc.ConfirmBatch(ctx, []models.ExtractedCandidate{
		{OriginalName: "silk", MatchedName: "Silk", Quantity: 9},
		{OriginalName: "Velvet Curtain", Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrNothingDeducted)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.SuccessCount)
	assert.Equal(t, 1, result.FailureCount)
	assert.Equal(t, 5.0, remaining(t, svc, "Silk"))

	_, err = svc.ConfirmBatch(ctx, nil)
	assert.ErrorIs(t, err, ErrNothingDeducted)
}

func TestConfirmBatchPersistsOnce(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repositories.NewMockLedgerRepo(ctrl)

	repo.EXPECT().Name().Return("mock").AnyTimes()
	repo.EXPECT().Load(gomock.Any()).Return(&models.Ledger{
		Items: []models.InventoryItem{
			{Name: "Silk", OpeningQuantity: 5, RemainingQuantity: 5},
			{Name: "Linen", OpeningQuantity: 8, RemainingQuantity: 8},
		},
	}, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, l *models.Ledger) error {
		assert.Len(t, l.Sales, 2)
		return nil
	}).Times(1)

	svc, err := NewLedgerService(ctx, repo)
	require.NoError(t, err)

	result, err := svc.ConfirmBatch(ctx, []models.ExtractedCandidate{
		{OriginalName: "silk", MatchedName: "Silk", Quantity: 1},
		{OriginalName: "linen", MatchedName: "Linen", Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
}

func TestFailedSaveLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := repositories.NewMockLedgerRepo(ctrl)

	repo.EXPECT().Name().Return("mock").AnyTimes()
	repo.EXPECT().Load(gomock.Any()).Return(&models.Ledger{
		Items: []models.InventoryItem{{Name: "Silk", OpeningQuantity: 5, RemainingQuantity: 5}},
	}, nil)
	diskFull := errors.New("disk full")
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(diskFull)

	svc, err := NewLedgerService(ctx, repo)
	require.NoError(t, err)

	_, err = svc.Deduct(ctx, "Silk", 1)
	assert.ErrorIs(t, err, diskFull)
	assert.Equal(t, 5.0, remaining(t, svc, "Silk"))
	assert.Empty(t, svc.Sales(nil))
}

func TestLoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repositories.NewMockLedgerRepo(ctrl)
	repo.EXPECT().Name().Return("mock").AnyTimes()
	repo.EXPECT().Load(gomock.Any()).Return(nil, errors.New("corrupt"))

	_, err := NewLedgerService(context.Background(), repo)
	assert.Error(t, err)
}

func TestReplaceInventoryKeepsSalesAndIDs(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededLedger(t)

	before := svc.Items()
	_, err := svc.Deduct(ctx, "Silk", 2)
	require.NoError(t, err)

	require.NoError(t, svc.ReplaceInventory(ctx, []models.InventoryItem{
		{Name: "Silk", OpeningQuantity: 20, RemainingQuantity: 20},
		{Name: "Linen", OpeningQuantity: 7, RemainingQuantity: 7},
	}))

	items := svc.Items()
	require.Len(t, items, 2)
	assert.Equal(t, before[1].ID, items[0].ID)
	assert.NotEqual(t, before[0].ID, items[1].ID)
	assert.Equal(t, 20.0, items[0].RemainingQuantity)
	assert.Equal(t, []string{"Silk", "Linen"}, svc.ItemNames())

	sales := svc.Sales(nil)
	require.Len(t, sales, 1)
	assert.Equal(t, items[0].ID, sales[0].ItemID)
}

func TestSalesWeekdayFilter(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededLedger(t)

	_, err := svc.Deduct(ctx, "Silk", 1)
	require.NoError(t, err)

	svc.WithClock(func() time.Time { return fixedNow.AddDate(0, 0, 1) })
	_, err = svc.Deduct(ctx, "Red Fabric", 2)
	require.NoError(t, err)

	monday := time.Monday
	tuesday := time.Tuesday
	friday := time.Friday

	assert.Len(t, svc.Sales(nil), 2)
	require.Len(t, svc.Sales(&monday), 1)
	assert.Equal(t, "Silk", svc.Sales(&monday)[0].ItemName)
	require.Len(t, svc.Sales(&tuesday), 1)
	assert.Equal(t, "Red Fabric", svc.Sales(&tuesday)[0].ItemName)
	assert.Empty(t, svc.Sales(&friday))
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededLedger(t)

	_, err := svc.Deduct(ctx, "Silk", 1)
	require.NoError(t, err)
	_, err = svc.Deduct(ctx, "Red Fabric", 2.5)
	require.NoError(t, err)
	_, err = svc.Deduct(ctx, "Red Fabric", 1)
	require.NoError(t, err)

	summary, err := svc.Summary("")
	require.NoError(t, err)
	assert.Equal(t, 4.5, summary.TotalQuantity)
	assert.Equal(t, 3, summary.EntryCount)
	assert.Equal(t, 2, summary.DistinctItems)
	assert.Equal(t, "Red Fabric", summary.TopItem)
	assert.Equal(t, 3, summary.PeriodEntries)

	_, err = svc.Summary("fortnight")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	svc, repo := seededLedger(t)

	_, err := svc.Deduct(ctx, "Silk", 1)
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx))

	assert.Empty(t, svc.Items())
	assert.Empty(t, svc.Sales(nil))

	reloaded, err := NewLedgerService(ctx, repo)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Items())
}
