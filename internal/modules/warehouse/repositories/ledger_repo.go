package repositories

//go:generate mockgen -source=ledger_repo.go -destination=ledger_repo_mock.go -package=repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/models"
	"github.com/google/uuid"
)

// LedgerRepo persists the whole ledger. Save replaces everything stored
// with the given snapshot; Reset discards it.
type LedgerRepo interface {
	Load(ctx context.Context) (*models.Ledger, error)
	Save(ctx context.Context, ledger *models.Ledger) error
	Reset(ctx context.Context) error
	Name() string
}

// LegacyItemID derives a stable id for items stored before ids existed, so
// old sales rows resolve to the same item on every load.
func LegacyItemID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("inventory-item:"+name))
}
