package dto

import "github.com/shopspring/decimal"

// ─── Requests ────────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"min=0"`
}

type CreateSaleRequest struct {
	CustomerID       string            `json:"customer_id"       validate:"required,uuid"`
	Items            []SaleItemRequest `json:"items"             validate:"required,min=1,dive"`
	Discount         decimal.Decimal   `json:"discount"          validate:"min=0"`
	PaymentMethod    string            `json:"payment_method"    validate:"required,oneof=cash card transfer credit"`
	InstallmentCount int               `json:"installments"      validate:"required,min=1,max=48"`
	SaleDate         string            `json:"sale_date"         validate:"required,datetime=2006-01-02"`
	FirstDueDate     string            `json:"first_due_date"    validate:"required,datetime=2006-01-02"`
	Notes            *string           `json:"notes"`
}

// UpdateSaleRequest carries optional lifecycle edits: a status transition, a
// notes change, and/or a shift of the first due date. Nil fields are left
// untouched. Only completed and cancelled are valid transition targets —
// pending is derived from the installment set by settlement, never set here.
type UpdateSaleRequest struct {
	Status       *string `json:"status"         validate:"omitempty,oneof=completed cancelled"`
	Notes        *string `json:"notes"`
	FirstDueDate *string `json:"first_due_date" validate:"omitempty,datetime=2006-01-02"`
}

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Status     string `form:"status"`      // pending | completed | cancelled | all
	CustomerID string `form:"customer_id"` // optional uuid
	Date       string `form:"date"`        // YYYY-MM-DD sale date; empty = any
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID               string                `json:"id"`
	CustomerID       string                `json:"customer_id"`
	Customer         string                `json:"customer,omitempty"`
	Items            []SaleItemResponse    `json:"items"`
	Subtotal         decimal.Decimal       `json:"subtotal"`
	Discount         decimal.Decimal       `json:"discount"`
	Total            decimal.Decimal       `json:"total"`
	PaymentMethod    string                `json:"payment_method"`
	InstallmentCount int                   `json:"installments"`
	Status           string                `json:"status"`
	SaleDate         string                `json:"sale_date"`
	Notes            *string               `json:"notes,omitempty"`
	Schedule         []InstallmentResponse `json:"schedule,omitempty"`
	CreatedAt        string                `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
