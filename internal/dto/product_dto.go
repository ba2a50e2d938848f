package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name         string          `json:"name"          validate:"required,min=1"`
	Description  *string         `json:"description"`
	SalePrice    decimal.Decimal `json:"sale_price"    validate:"required"`
	MinimumStock int             `json:"minimum_stock" validate:"min=0"`
	// Opening balance — written as the product's single stock_in ledger row.
	InitialStock int             `json:"initial_stock" validate:"min=0"`
	UnitCost     decimal.Decimal `json:"unit_cost"     validate:"min=0"`
}

// UpdateProductRequest edits the catalog entry. When InitialStock or UnitCost
// is present the opening-balance ledger row is overwritten in place — history
// is mutated, not appended to.
type UpdateProductRequest struct {
	Name         *string          `json:"name"          validate:"omitempty,min=1"`
	Description  *string          `json:"description"`
	SalePrice    *decimal.Decimal `json:"sale_price"`
	MinimumStock *int             `json:"minimum_stock" validate:"omitempty,min=0"`
	InitialStock *int             `json:"initial_stock" validate:"omitempty,min=0"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
}

type ProductFilter struct {
	Name  string `form:"name"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	MinimumStock int             `json:"minimum_stock"`
	CurrentStock int             `json:"current_stock"`
	LowStock     bool            `json:"low_stock"`
	CreatedAt    string          `json:"created_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
