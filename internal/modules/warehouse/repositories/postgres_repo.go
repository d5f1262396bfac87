package repositories

import (
	"context"
	"fmt"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/models"
	"gorm.io/gorm"
)

type postgresLedgerRepo struct {
	db *gorm.DB
}

// NewPostgresLedgerRepo stores the ledger through GORM. The schema is owned
// by the migrations under migrations/ledger.
func NewPostgresLedgerRepo(db *gorm.DB) LedgerRepo {
	return &postgresLedgerRepo{db: db}
}

func (r *postgresLedgerRepo) Name() string { return "postgres" }

func (r *postgresLedgerRepo) Load(ctx context.Context) (*models.Ledger, error) {
	ledger := &models.Ledger{}
	db := r.db.WithContext(ctx)

	if err := db.Order("position ASC").Find(&ledger.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	if err := db.Order("seq ASC").Find(&ledger.Sales).Error; err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	return ledger, nil
}

// Save replaces both tables in a single transaction.
func (r *postgresLedgerRepo) Save(ctx context.Context, ledger *models.Ledger) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SaleEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.InventoryItem{}).Error; err != nil {
			return err
		}

		if len(ledger.Items) > 0 {
			items := make([]models.InventoryItem, len(ledger.Items))
			copy(items, ledger.Items)
			for i := range items {
				items[i].Position = i
			}
			if err := tx.CreateInBatches(items, 500).Error; err != nil {
				return fmt.Errorf("failed to insert inventory: %w", err)
			}
		}

		if len(ledger.Sales) > 0 {
			sales := make([]models.SaleEntry, len(ledger.Sales))
			copy(sales, ledger.Sales)
			if err := tx.CreateInBatches(sales, 500).Error; err != nil {
				return fmt.Errorf("failed to insert sales: %w", err)
			}
		}
		return nil
	})
}

func (r *postgresLedgerRepo) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("TRUNCATE TABLE sale_entries").Error; err != nil {
			return err
		}
		return tx.Exec("TRUNCATE TABLE inventory_items").Error
	})
}
