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

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) error
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	products repository.ProductRepository
	stock    StockService
}

func NewProductService(products repository.ProductRepository, stock StockService) ProductService {
	return &productService{products: products, stock: stock}
}

// Create inserts the catalog entry and, when an opening quantity or cost is
// given, appends the product's single stock_in ledger row in the same
// transaction. That row is the one later edits overwrite in place.
func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.SalePrice.IsNegative() {
		return nil, apierror.Validationf("sale price must be non-negative")
	}

	p := model.Product{
		Name:         req.Name,
		Description:  req.Description,
		SalePrice:    req.SalePrice,
		MinimumStock: req.MinimumStock,
	}

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.CreateTx(tx, &p); err != nil {
			return err
		}
		if req.InitialStock == 0 && req.UnitCost.IsZero() {
			return nil
		}
		return s.stock.AppendTx(tx, &model.StockMovement{
			ProductID: p.ID,
			Type:      model.MovementStockIn,
			Quantity:  req.InitialStock,
			UnitValue: req.UnitCost,
		})
	})
	if txErr != nil {
		var ve *apierror.ValidationError
		if errors.As(txErr, &ve) {
			return nil, ve
		}
		return nil, apierror.Failed("create_product", txErr)
	}

	return &dto.ProductResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		SalePrice:    p.SalePrice,
		MinimumStock: p.MinimumStock,
		CurrentStock: req.InitialStock,
		LowStock:     req.InitialStock <= p.MinimumStock,
		CreatedAt:    p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}, nil
}

// Update edits catalog fields; a changed opening quantity or unit cost
// overwrites the existing stock_in row rather than appending a new one, so
// re-editing initial stock mutates ledger history.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) error {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NewNotFound("product")
		}
		return apierror.Failed("update_product", err)
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.SalePrice != nil {
		if req.SalePrice.IsNegative() {
			return apierror.Validationf("sale price must be non-negative")
		}
		fields["sale_price"] = *req.SalePrice
	}
	if req.MinimumStock != nil {
		fields["minimum_stock"] = *req.MinimumStock
	}

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if err := s.products.UpdateTx(tx, p.ID, fields); err != nil {
			return err
		}
		if req.InitialStock == nil && req.UnitCost == nil {
			return nil
		}
		quantity := 0
		if req.InitialStock != nil {
			quantity = *req.InitialStock
		}
		unitCost := decimalOrZero(req.UnitCost)
		return s.stock.OverwriteOpeningBalanceTx(tx, p.ID, quantity, unitCost)
	})
	if txErr != nil {
		var ve *apierror.ValidationError
		if errors.As(txErr, &ve) {
			return ve
		}
		return apierror.Failed("update_product", txErr)
	}
	return nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("product")
		}
		return nil, apierror.Failed("get_product", err)
	}
	return s.toResponse(ctx, p)
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apierror.Failed("list_products", err)
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp, err := s.toResponse(ctx, &products[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.products.SoftDelete(ctx, id); err != nil {
		return apierror.Failed("remove_product", err)
	}
	return nil
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func (s *productService) toResponse(ctx context.Context, p *model.Product) (*dto.ProductResponse, error) {
	current, err := s.stock.CurrentStock(ctx, p.ID)
	if err != nil {
		return nil, apierror.Failed("current_stock", err)
	}
	return &dto.ProductResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		SalePrice:    p.SalePrice,
		MinimumStock: p.MinimumStock,
		CurrentStock: current,
		LowStock:     current <= p.MinimumStock,
		CreatedAt:    p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}, nil
}
