package service

import (
	"context"
	"errors"
	"time"

	"github.com/josecarlos19/top-vendas-sub000/internal/apierror"
	"github.com/josecarlos19/top-vendas-sub000/internal/dto"
	"github.com/josecarlos19/top-vendas-sub000/internal/model"
	"github.com/josecarlos19/top-vendas-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type SaleService interface {
	CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	UpdateSale(ctx context.Context, id uuid.UUID, req dto.UpdateSaleRequest) error
	RemoveSale(ctx context.Context, id uuid.UUID) error
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	sales        repository.SaleRepository
	installments repository.InstallmentRepository
	products     repository.ProductRepository
	stock        StockService
}

func NewSaleService(
	sales repository.SaleRepository,
	installments repository.InstallmentRepository,
	products repository.ProductRepository,
	stock StockService,
) SaleService {
	return &saleService{
		sales:        sales,
		installments: installments,
		products:     products,
		stock:        stock,
	}
}

// ── CreateSale ────────────────────────────────────────────────────────────────
// One ACID transaction:
//  1. pre-flight (no writes): resolve products, check availability, compute totals
//  2. BEGIN TX: insert header + items, append one negative sale ledger row per
//     item, generate and insert the installment schedule
//  3. COMMIT — any failure rolls the whole aggregate back
//
// The availability check reads the derived stock OUTSIDE the transaction, so
// two overlapping creations for the same product are not serialized against
// each other. Acceptable under the single local writer this store assumes; a
// multi-writer deployment would need the check (or row locks) inside the tx.

func (s *saleService) CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validationf("invalid customer_id: %s", req.CustomerID)
	}
	if len(req.Items) == 0 {
		return nil, apierror.Validationf("sale requires at least one item")
	}
	saleDate, err := time.Parse(dateLayout, req.SaleDate)
	if err != nil {
		return nil, apierror.Validationf("invalid sale_date: %s", req.SaleDate)
	}
	firstDueDate, err := time.Parse(dateLayout, req.FirstDueDate)
	if err != nil {
		return nil, apierror.Validationf("invalid first_due_date: %s", req.FirstDueDate)
	}
	if req.Discount.IsNegative() {
		return nil, apierror.Validationf("discount must be non-negative")
	}
	installmentCount := req.InstallmentCount
	if installmentCount < 1 {
		installmentCount = 1
	}

	type resolvedItem struct {
		productID uuid.UUID
		name      string
		quantity  int
		unitPrice decimal.Decimal
		subtotal  decimal.Decimal
	}

	var resolved []resolvedItem
	subtotal := decimal.Zero
	needed := make(map[uuid.UUID]int)
	productNames := make(map[uuid.UUID]string)

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.Validationf("invalid product_id: %s", item.ProductID)
		}
		p, err := s.products.FindByID(ctx, pid)
		if err != nil {
			return nil, apierror.Validationf("product %s not found", item.ProductID)
		}
		if item.Quantity < 1 {
			return nil, apierror.Validationf("item quantity must be at least 1")
		}

		unitPrice := item.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = p.SalePrice
		}

		lineSubtotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineSubtotal)
		needed[pid] += item.Quantity
		productNames[pid] = p.Name
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			quantity:  item.Quantity,
			unitPrice: unitPrice,
			subtotal:  lineSubtotal,
		})
	}

	// Availability is checked per product over the summed quantity of all its
	// lines, so a sale cannot oversell by splitting one product across items.
	for pid, qty := range needed {
		available, err := s.stock.CurrentStock(ctx, pid)
		if err != nil {
			return nil, apierror.Failed("create_sale", err)
		}
		if available < qty {
			return nil, apierror.Validationf("insufficient stock for %s: have %d, need %d", productNames[pid], available, qty)
		}
	}

	total := subtotal.Sub(req.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, apierror.Validationf("sale total must be greater than zero")
	}

	sale := model.Sale{
		CustomerID:       customerID,
		Subtotal:         subtotal,
		Discount:         req.Discount,
		Total:            total,
		PaymentMethod:    req.PaymentMethod,
		InstallmentCount: installmentCount,
		Status:           model.SalePending,
		SaleDate:         saleDate,
		Notes:            req.Notes,
	}
	for _, r := range resolved {
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID: r.productID,
			Quantity:  r.quantity,
			UnitPrice: r.unitPrice,
			Subtotal:  r.subtotal,
		})
	}

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		if err := s.sales.CreateTx(tx, &sale); err != nil {
			return err
		}

		for _, r := range resolved {
			saleRef := sale.ID
			mov := &model.StockMovement{
				SaleID:     &saleRef,
				ProductID:  r.productID,
				Type:       model.MovementSale,
				Quantity:   r.quantity,
				UnitValue:  r.unitPrice,
				TotalValue: r.subtotal,
			}
			if err := s.stock.AppendTx(tx, mov); err != nil {
				return err
			}
		}

		schedule := buildSchedule(sale.ID, total, installmentCount, firstDueDate)
		if err := s.installments.CreateBatchTx(tx, schedule); err != nil {
			return err
		}
		sale.Installments = schedule
		return nil
	})
	if txErr != nil {
		var ve *apierror.ValidationError
		if errors.As(txErr, &ve) {
			return nil, ve
		}
		return nil, apierror.Failed("create_sale", txErr)
	}

	resp := saleToResponse(&sale, true)
	for i, r := range resolved {
		resp.Items[i].Product = r.name
	}
	return resp, nil
}

// buildSchedule generates the installment rows for a sale. The per-installment
// amount is round2(total / n) for every row, including the last one — the
// naive equal split of the original system. For amounts that do not divide
// evenly the schedule sum can drift from the sale total by a few hundredths
// (10000 / 3 → 3 × 3333.33 = 9999.99).
func buildSchedule(saleID uuid.UUID, total decimal.Decimal, count int, firstDueDate time.Time) []model.Installment {
	amount := total.Div(decimal.NewFromInt(int64(count))).Round(2)
	schedule := make([]model.Installment, 0, count)
	for n := 1; n <= count; n++ {
		schedule = append(schedule, model.Installment{
			SaleID:  saleID,
			Number:  n,
			Amount:  amount,
			DueDate: firstDueDate.AddDate(0, n-1, 0),
			Status:  model.InstallmentPending,
		})
	}
	return schedule
}

// ── UpdateSale ────────────────────────────────────────────────────────────────
// Lifecycle edits, all in one transaction:
//   - first_due_date shift re-dates only installments still pending; settled
//     history keeps its original dates
//   - status → completed force-settles every pending installment today
//   - status → cancelled deletes the sale's ledger rows (stock reverts to
//     pre-sale levels) and its whole schedule; the header is only status-flagged
//
// pending is not a valid target: it is derived from the installment set by
// settlement reconciliation, and writing it here would detach the header from
// its schedule.

func (s *saleService) UpdateSale(ctx context.Context, id uuid.UUID, req dto.UpdateSaleRequest) error {
	if req.Status != nil {
		switch model.SaleStatus(*req.Status) {
		case model.SaleCompleted, model.SaleCancelled:
		default:
			return apierror.Validationf("status must be completed or cancelled")
		}
	}

	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NewNotFound("sale")
		}
		return apierror.Failed("update_sale", err)
	}

	var newFirstDue *time.Time
	if req.FirstDueDate != nil {
		parsed, err := time.Parse(dateLayout, *req.FirstDueDate)
		if err != nil {
			return apierror.Validationf("invalid first_due_date: %s", *req.FirstDueDate)
		}
		newFirstDue = &parsed
	}

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		if newFirstDue != nil && shiftRequired(sale.Installments, *newFirstDue) {
			for _, inst := range sale.Installments {
				if inst.Status != model.InstallmentPending {
					continue
				}
				redated := newFirstDue.AddDate(0, inst.Number-1, 0)
				if err := s.installments.UpdateTx(tx, inst.ID, map[string]interface{}{
					"due_date": redated,
				}); err != nil {
					return err
				}
			}
		}

		fields := map[string]interface{}{}
		if req.Notes != nil {
			fields["notes"] = *req.Notes
		}

		if req.Status != nil {
			switch model.SaleStatus(*req.Status) {
			case model.SaleCompleted:
				pending, err := s.installments.ListPendingBySaleTx(tx, sale.ID)
				if err != nil {
					return err
				}
				today := time.Now().Truncate(24 * time.Hour)
				for _, inst := range pending {
					if err := s.installments.UpdateTx(tx, inst.ID, map[string]interface{}{
						"status":       model.InstallmentCompleted,
						"payment_date": today,
						"paid_amount":  inst.Amount,
					}); err != nil {
						return err
					}
				}
			case model.SaleCancelled:
				if err := s.stock.DeleteForSaleTx(tx, sale.ID); err != nil {
					return err
				}
				if err := s.installments.DeleteBySaleTx(tx, sale.ID); err != nil {
					return err
				}
			}
			fields["status"] = *req.Status
		}

		return s.sales.UpdateFieldsTx(tx, sale.ID, fields)
	})
	if txErr != nil {
		return apierror.Failed("update_sale", txErr)
	}
	return nil
}

// shiftRequired reports whether newFirstDue differs from the schedule's
// current first due date.
func shiftRequired(installments []model.Installment, newFirstDue time.Time) bool {
	for _, inst := range installments {
		if inst.Number == 1 {
			return !sameDate(inst.DueDate, newFirstDue)
		}
	}
	return len(installments) > 0
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// RemoveSale soft-deletes the sale header and always deletes its ledger rows,
// reverting stock, regardless of the sale's current status.
func (s *saleService) RemoveSale(ctx context.Context, id uuid.UUID) error {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NewNotFound("sale")
		}
		return apierror.Failed("remove_sale", err)
	}

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		if err := s.stock.DeleteForSaleTx(tx, sale.ID); err != nil {
			return err
		}
		return s.sales.SoftDeleteTx(tx, sale.ID)
	})
	if txErr != nil {
		return apierror.Failed("remove_sale", txErr)
	}
	return nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewNotFound("sale")
		}
		return nil, apierror.Failed("get_sale", err)
	}
	return saleToResponse(sale, true), nil
}

func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, apierror.Failed("list_sales", err)
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i], false))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleToResponse(sale *model.Sale, withSchedule bool) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.SaleItemResponse{
			ProductID: item.ProductID.String(),
			Product:   name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}

	resp := &dto.SaleResponse{
		ID:               sale.ID.String(),
		CustomerID:       sale.CustomerID.String(),
		Items:            items,
		Subtotal:         sale.Subtotal,
		Discount:         sale.Discount,
		Total:            sale.Total,
		PaymentMethod:    sale.PaymentMethod,
		InstallmentCount: sale.InstallmentCount,
		Status:           string(sale.Status),
		SaleDate:         sale.SaleDate.Format(dateLayout),
		Notes:            sale.Notes,
		CreatedAt:        sale.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if sale.Customer != nil {
		resp.Customer = sale.Customer.Name
	}
	if withSchedule {
		resp.Schedule = make([]dto.InstallmentResponse, 0, len(sale.Installments))
		for i := range sale.Installments {
			resp.Schedule = append(resp.Schedule, installmentToResponse(&sale.Installments[i]))
		}
	}
	return resp
}
