package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryItem is one fabric line in the warehouse, measured in meters
type InventoryItem struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"type:text;not null;uniqueIndex" json:"name"`

	OpeningQuantity   float64 `gorm:"type:numeric(14,4);not null;default:0" json:"opening_quantity"`
	RemainingQuantity float64 `gorm:"type:numeric(14,4);not null;default:0" json:"remaining_quantity"`

	UpdatedAt time.Time `json:"updated_at"`

	// listing order, rewritten on every save
	Position int `gorm:"not null;default:0" json:"-"`
}

// TableName specifies the table name
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// BeforeCreate sets UUID before creating
func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// SaleEntry records one accepted deduction. Entries are append-only.
type SaleEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`

	// copy of the item name at deduction time
	ItemName         string  `gorm:"type:text;not null" json:"item_name"`
	QuantityDeducted float64 `gorm:"type:numeric(14,4);not null" json:"quantity_deducted"`
	Note             string  `gorm:"type:text;not null;default:''" json:"note"`
	SourceDocument   string  `gorm:"type:text;not null;default:''" json:"source_document,omitempty"`

	// insertion order; timestamps can collide
	Seq int64 `gorm:"not null;index" json:"-"`
}

func (SaleEntry) TableName() string {
	return "sale_entries"
}

func (s *SaleEntry) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Ledger is the complete persisted state: inventory plus sales history.
type Ledger struct {
	Items []InventoryItem
	Sales []SaleEntry
}

// Clone returns a deep copy safe to mutate.
func (l *Ledger) Clone() *Ledger {
	if l == nil {
		return &Ledger{}
	}
	out := &Ledger{
		Items: make([]InventoryItem, len(l.Items)),
		Sales: make([]SaleEntry, len(l.Sales)),
	}
	copy(out.Items, l.Items)
	copy(out.Sales, l.Sales)
	return out
}

// ItemIndex returns the position of the item with the given name, or -1.
func (l *Ledger) ItemIndex(name string) int {
	for i := range l.Items {
		if l.Items[i].Name == name {
			return i
		}
	}
	return -1
}

// Names lists item names in inventory order.
func (l *Ledger) Names() []string {
	names := make([]string, len(l.Items))
	for i, item := range l.Items {
		names[i] = item.Name
	}
	return names
}
