package service

import (
	"context"
	"errors"

	"github.com/josecarlos19/top-vendas-sub000/internal/apierror"
	"github.com/josecarlos19/top-vendas-sub000/internal/dto"
	"github.com/josecarlos19/top-vendas-sub000/internal/model"
	"github.com/josecarlos19/top-vendas-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockService owns the movement ledger and the derived stock aggregate.
// The ledger is append-only with two sanctioned exceptions: the bulk delete of
// a cancelled sale's rows, and the in-place overwrite of a product's opening
// balance row.
type StockService interface {
	// AppendTx validates and writes one ledger row inside an open transaction.
	// The caller supplies quantity and unit value as magnitudes; the stored
	// sign is derived from the movement kind.
	AppendTx(tx *gorm.DB, m *model.StockMovement) error
	DeleteForSaleTx(tx *gorm.DB, saleID uuid.UUID) error
	OverwriteOpeningBalanceTx(tx *gorm.DB, productID uuid.UUID, quantity int, unitValue decimal.Decimal) error
	// CurrentStock is the derived aggregate: sum of the product's non-deleted
	// rows. It never fails for an unknown product — the sum is just zero.
	CurrentStock(ctx context.Context, productID uuid.UUID) (int, error)
	RegisterMovement(ctx context.Context, req dto.RegisterMovementRequest) (*dto.MovementResponse, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
}

type stockService struct {
	movements repository.StockMovementRepository
}

func NewStockService(movements repository.StockMovementRepository) StockService {
	return &stockService{movements: movements}
}

func (s *stockService) AppendTx(tx *gorm.DB, m *model.StockMovement) error {
	if m.ProductID == uuid.Nil {
		return apierror.Validationf("stock movement requires a product reference")
	}
	if m.Quantity < 0 || m.UnitValue.IsNegative() {
		return apierror.Validationf("stock movement quantity and unit value must be non-negative")
	}
	if m.Quantity == 0 && m.UnitValue.IsZero() {
		return apierror.Validationf("stock movement requires a quantity or a unit value")
	}

	if m.TotalValue.IsZero() {
		m.TotalValue = m.UnitValue.Mul(decimal.NewFromInt(int64(m.Quantity)))
	}
	if m.Type.Outbound() {
		m.Quantity = -m.Quantity
	}
	return s.movements.CreateTx(tx, m)
}

func (s *stockService) DeleteForSaleTx(tx *gorm.DB, saleID uuid.UUID) error {
	return s.movements.DeleteBySaleTx(tx, saleID)
}

func (s *stockService) OverwriteOpeningBalanceTx(tx *gorm.DB, productID uuid.UUID, quantity int, unitValue decimal.Decimal) error {
	if quantity < 0 || unitValue.IsNegative() {
		return apierror.Validationf("opening balance quantity and unit value must be non-negative")
	}
	totalValue := unitValue.Mul(decimal.NewFromInt(int64(quantity)))
	return s.movements.UpdateOpeningBalanceTx(tx, productID, quantity, unitValue, totalValue)
}

func (s *stockService) CurrentStock(ctx context.Context, productID uuid.UUID) (int, error) {
	return s.movements.SumQuantityByProduct(ctx, productID)
}

// RegisterMovement writes a manual ledger entry (stock_in / return /
// adjustment) through the same validation path the sale writer uses.
func (s *stockService) RegisterMovement(ctx context.Context, req dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validationf("invalid product_id: %s", req.ProductID)
	}
	kind := model.MovementKind(req.Type)
	if kind == model.MovementSale {
		return nil, apierror.Validationf("sale movements are created by sale registration only")
	}

	m := &model.StockMovement{
		ProductID: productID,
		Type:      kind,
		Quantity:  req.Quantity,
		UnitValue: req.UnitValue,
		Notes:     req.Notes,
	}

	txErr := runTx(ctx, s.movements.DB(), func(tx *gorm.DB) error {
		return s.AppendTx(tx, m)
	})
	if txErr != nil {
		var ve *apierror.ValidationError
		if errors.As(txErr, &ve) {
			return nil, ve
		}
		return nil, apierror.Failed("register_movement", txErr)
	}
	resp := movementToResponse(m)
	return &resp, nil
}

func (s *stockService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	movements, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, apierror.Failed("list_movements", err)
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, movementToResponse(&movements[i]))
	}
	return &dto.MovementListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func movementToResponse(m *model.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:         m.ID.String(),
		ProductID:  m.ProductID.String(),
		Type:       string(m.Type),
		Quantity:   m.Quantity,
		UnitValue:  m.UnitValue,
		TotalValue: m.TotalValue,
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if m.SaleID != nil {
		saleID := m.SaleID.String()
		resp.SaleID = &saleID
	}
	if m.Product != nil {
		resp.Product = m.Product.Name
	}
	return resp
}
