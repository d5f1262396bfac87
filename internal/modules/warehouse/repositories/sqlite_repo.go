package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/micro-warehouse-ledger/internal/modules/warehouse/models"
	"github.com/google/uuid"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS inventory_items (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	opening_quantity REAL NOT NULL DEFAULT 0,
	remaining_quantity REAL NOT NULL DEFAULT 0,
	position INTEGER NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sale_entries (
	id TEXT PRIMARY KEY,
	seq INTEGER NOT NULL,
	timestamp TEXT NOT NULL,
	item_id TEXT NOT NULL,
	item_name TEXT NOT NULL,
	quantity_deducted REAL NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	source_document TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sale_entries_seq ON sale_entries(seq);
`

type sqliteLedgerRepo struct {
	db *sql.DB
}

// NewSQLiteLedgerRepo ensures the schema exists on db (opened with the
// modernc.org/sqlite driver) and returns a repo over it.
func NewSQLiteLedgerRepo(ctx context.Context, db *sql.DB) (LedgerRepo, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return &sqliteLedgerRepo{db: db}, nil
}

func (r *sqliteLedgerRepo) Name() string { return "sqlite" }

func (r *sqliteLedgerRepo) Load(ctx context.Context) (*models.Ledger, error) {
	ledger := &models.Ledger{}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, opening_quantity, remaining_quantity, updated_at FROM inventory_items ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.InventoryItem
		var id, updated string
		if err := rows.Scan(&id, &item.Name, &item.OpeningQuantity, &item.RemainingQuantity, &updated); err != nil {
			return nil, err
		}
		if item.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid item id %q: %w", id, err)
		}
		if item.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("invalid updated_at %q: %w", updated, err)
		}
		ledger.Items = append(ledger.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	salesRows, err := r.db.QueryContext(ctx,
		`SELECT id, seq, timestamp, item_id, item_name, quantity_deducted, note, source_document
		 FROM sale_entries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer salesRows.Close()

	for salesRows.Next() {
		var s models.SaleEntry
		var id, itemID, ts string
		if err := salesRows.Scan(&id, &s.Seq, &ts, &itemID, &s.ItemName, &s.QuantityDeducted, &s.Note, &s.SourceDocument); err != nil {
			return nil, err
		}
		if s.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid sale id %q: %w", id, err)
		}
		if s.ItemID, err = uuid.Parse(itemID); err != nil {
			return nil, fmt.Errorf("invalid item id %q: %w", itemID, err)
		}
		if s.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", ts, err)
		}
		ledger.Sales = append(ledger.Sales, s)
	}
	return ledger, salesRows.Err()
}

// Save rewrites both tables inside one transaction.
func (r *sqliteLedgerRepo) Save(ctx context.Context, ledger *models.Ledger) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_items`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_entries`); err != nil {
		return err
	}

	itemStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO inventory_items (id, name, opening_quantity, remaining_quantity, position, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer itemStmt.Close()

	for i, item := range ledger.Items {
		if _, err := itemStmt.ExecContext(ctx, item.ID.String(), item.Name, item.OpeningQuantity,
			item.RemainingQuantity, i, item.UpdatedAt.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("failed to insert item %q: %w", item.Name, err)
		}
	}

	saleStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sale_entries (id, seq, timestamp, item_id, item_name, quantity_deducted, note, source_document)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer saleStmt.Close()

	for _, s := range ledger.Sales {
		if _, err := saleStmt.ExecContext(ctx, s.ID.String(), s.Seq, s.Timestamp.Format(time.RFC3339Nano),
			s.ItemID.String(), s.ItemName, s.QuantityDeducted, s.Note, s.SourceDocument); err != nil {
			return fmt.Errorf("failed to insert sale %s: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

func (r *sqliteLedgerRepo) Reset(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DROP TABLE IF EXISTS sale_entries; DROP TABLE IF EXISTS inventory_items;`+sqliteSchema)
	return err
}
