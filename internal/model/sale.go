package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleStatus string

const (
	SalePending   SaleStatus = "pending"
	SaleCompleted SaleStatus = "completed"
	SaleCancelled SaleStatus = "cancelled"
)

// Sale is the aggregate header. Status is derived from the installment set by
// the settlement reconciliation rule; the only direct status write paths are
// the lifecycle transitions (completed / cancelled).
type Sale struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod    string          `gorm:"not null"`
	InstallmentCount int             `gorm:"column:installments;not null;default:1"`
	Status           SaleStatus      `gorm:"not null;default:'pending';index"`
	SaleDate         time.Time       `gorm:"type:date;not null"`
	Notes            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`

	Customer     *Customer     `gorm:"foreignKey:CustomerID"`
	Items        []SaleItem    `gorm:"foreignKey:SaleID"`
	Installments []Installment `gorm:"foreignKey:SaleID"`
}

// SaleItem is one line entry of a sale. Immutable after creation.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
