package dto

import "github.com/shopspring/decimal"

// SetInstallmentStatusRequest settles or reopens a single installment.
// PaymentDate defaults to today when settling and is cleared when reopening.
type SetInstallmentStatusRequest struct {
	Status      string  `json:"status"       validate:"required,oneof=pending completed"`
	PaymentDate *string `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
}

type InstallmentResponse struct {
	ID          string           `json:"id"`
	SaleID      string           `json:"sale_id"`
	Number      int              `json:"number"`
	Amount      decimal.Decimal  `json:"amount"`
	DueDate     string           `json:"due_date"`
	PaymentDate *string          `json:"payment_date,omitempty"`
	PaidAmount  *decimal.Decimal `json:"paid_amount,omitempty"`
	Status      string           `json:"status"`
	Notes       *string          `json:"notes,omitempty"`
}
