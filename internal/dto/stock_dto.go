package dto

import "github.com/shopspring/decimal"

// RegisterMovementRequest creates a manual ledger entry (stock_in, return or
// adjustment). Sale movements are never created through this path — they are
// written by sale creation only. Quantity and unit value are magnitudes; the
// stored sign comes from the movement kind.
type RegisterMovementRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Type      string          `json:"type"       validate:"required,oneof=stock_in return adjustment"`
	Quantity  int             `json:"quantity"   validate:"min=0"`
	UnitValue decimal.Decimal `json:"unit_value" validate:"min=0"`
	Notes     *string         `json:"notes"`
}

// MovementFilter is bound from the query string of GET /v1/stock/movements.
type MovementFilter struct {
	ProductID string `form:"product_id"`
	Type      string `form:"type"`
	Page      int    `form:"page,default=1"    validate:"min=1"`
	Limit     int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovementResponse struct {
	ID         string          `json:"id"`
	SaleID     *string         `json:"sale_id,omitempty"`
	ProductID  string          `json:"product_id"`
	Product    string          `json:"product,omitempty"`
	Type       string          `json:"type"`
	Quantity   int             `json:"quantity"`
	UnitValue  decimal.Decimal `json:"unit_value"`
	TotalValue decimal.Decimal `json:"total_value"`
	Notes      *string         `json:"notes,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// CurrentStockResponse is the derived stock aggregate for one product.
type CurrentStockResponse struct {
	ProductID    string `json:"product_id"`
	CurrentStock int    `json:"current_stock"`
}
