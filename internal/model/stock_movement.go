package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovementKind tags a stock movement with its business reason. The sign of the
// stored quantity is derived from the kind, never chosen by the caller.
type MovementKind string

const (
	MovementStockIn    MovementKind = "stock_in"
	MovementSale       MovementKind = "sale"
	MovementReturn     MovementKind = "return"
	MovementAdjustment MovementKind = "adjustment"
)

// Outbound reports whether movements of this kind reduce stock.
func (k MovementKind) Outbound() bool { return k == MovementSale }

// StockMovement is one append-only ledger row: a signed quantity change for a
// product. The sum of a product's non-deleted rows IS its current stock.
// Rows are never updated in place, with one exception: the single stock_in row
// holding a product's opening balance, which product edits overwrite.
type StockMovement struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID     *uuid.UUID `gorm:"type:uuid;index"`
	ProductID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type       MovementKind `gorm:"not null"`
	Quantity   int          `gorm:"not null"` // signed: sale rows are negative
	UnitValue  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalValue decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes      *string
	CreatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (StockMovement) TableName() string { return "stock_movements" }
