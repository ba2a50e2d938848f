package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry. Current stock is NOT stored here — it is always
// derived by summing the product's stock movements, so it can never drift from
// the ledger.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"index;not null"`
	Description  *string
	SalePrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MinimumStock int             `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
