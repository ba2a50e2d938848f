package repository

import (
	"context"

	"github.com/josecarlos19/top-vendas-sub000/internal/dto"
	"github.com/josecarlos19/top-vendas-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockMovementRepository is the data access contract for the ledger.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type StockMovementRepository interface {
	Create(ctx context.Context, m *model.StockMovement) error
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	// SumQuantityByProduct aggregates signed quantities over the product's
	// non-deleted rows. Zero when no rows exist.
	SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int, error)
	// DeleteBySaleTx physically removes every row referencing the sale.
	DeleteBySaleTx(tx *gorm.DB, saleID uuid.UUID) error
	// UpdateOpeningBalanceTx overwrites the single stock_in row of a product.
	// It never inserts; a product without an opening row is left unchanged.
	UpdateOpeningBalanceTx(tx *gorm.DB, productID uuid.UUID, quantity int, unitValue, totalValue decimal.Decimal) error
	List(ctx context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error)
	DB() *gorm.DB
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) DB() *gorm.DB { return r.db }

func (r *stockMovementRepo) Create(ctx context.Context, m *model.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockMovementRepo) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *stockMovementRepo) DeleteBySaleTx(tx *gorm.DB, saleID uuid.UUID) error {
	// Unscoped: reversal by deletion, not by soft delete or inverse entry.
	return tx.Unscoped().Where("sale_id = ?", saleID).Delete(&model.StockMovement{}).Error
}

func (r *stockMovementRepo) UpdateOpeningBalanceTx(tx *gorm.DB, productID uuid.UUID, quantity int, unitValue, totalValue decimal.Decimal) error {
	return tx.Model(&model.StockMovement{}).
		Where("product_id = ? AND type = ?", productID, model.MovementStockIn).
		Updates(map[string]interface{}{
			"quantity":    quantity,
			"unit_value":  unitValue,
			"total_value": totalValue,
		}).Error
}

func (r *stockMovementRepo) List(ctx context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).Preload("Product")
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movements []model.StockMovement
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movements).Error
	return movements, total, err
}
