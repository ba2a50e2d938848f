package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InstallmentStatus string

const (
	InstallmentPending   InstallmentStatus = "pending"
	InstallmentCompleted InstallmentStatus = "completed"
	InstallmentCancelled InstallmentStatus = "cancelled"
)

// Installment is one scheduled partial payment of a sale's total. The full set
// for a sale is generated once, at sale creation, from total and installment
// count; due dates advance by calendar months from the first due date.
type Installment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	Number      int               `gorm:"not null"` // 1-based position in the schedule
	Amount      decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	DueDate     time.Time         `gorm:"type:date;not null;index"`
	PaymentDate *time.Time        `gorm:"type:date"`
	PaidAmount  *decimal.Decimal  `gorm:"type:decimal(12,2)"`
	Status      InstallmentStatus `gorm:"not null;default:'pending';index"`
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Sale *Sale `gorm:"foreignKey:SaleID"`
}
