package service_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/josecarlos19/top-vendas-sub000/internal/dto"
	"github.com/josecarlos19/top-vendas-sub000/internal/model"
	"github.com/josecarlos19/top-vendas-sub000/internal/repository"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. DB() returns nil so that runTx executes the
// transaction body directly, without a database.

type stubMovementRepo struct {
	rows map[uuid.UUID]*model.StockMovement
}

func newStubMovementRepo() *stubMovementRepo {
	return &stubMovementRepo{rows: make(map[uuid.UUID]*model.StockMovement)}
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	return r.CreateTx(nil, m)
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	cp := *m
	r.rows[m.ID] = &cp
	return nil
}

func (r *stubMovementRepo) SumQuantityByProduct(_ context.Context, productID uuid.UUID) (int, error) {
	sum := 0
	for _, m := range r.rows {
		if m.ProductID == productID {
			sum += m.Quantity
		}
	}
	return sum, nil
}

func (r *stubMovementRepo) DeleteBySaleTx(_ *gorm.DB, saleID uuid.UUID) error {
	for id, m := range r.rows {
		if m.SaleID != nil && *m.SaleID == saleID {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *stubMovementRepo) UpdateOpeningBalanceTx(_ *gorm.DB, productID uuid.UUID, quantity int, unitValue, totalValue decimal.Decimal) error {
	for _, m := range r.rows {
		if m.ProductID == productID && m.Type == model.MovementStockIn {
			m.Quantity = quantity
			m.UnitValue = unitValue
			m.TotalValue = totalValue
		}
	}
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.rows {
		if filter.ProductID != "" && m.ProductID.String() != filter.ProductID {
			continue
		}
		if filter.Type != "" && string(m.Type) != filter.Type {
			continue
		}
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) DB() *gorm.DB { return nil }

// rowsForSale returns the ledger rows referencing a sale, ordered by quantity
// for deterministic assertions.
func (r *stubMovementRepo) rowsForSale(saleID uuid.UUID) []model.StockMovement {
	var out []model.StockMovement
	for _, m := range r.rows {
		if m.SaleID != nil && *m.SaleID == saleID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	return out
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) UpdateTx(_ *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["name"]; ok {
		p.Name = v.(string)
	}
	if v, ok := fields["sale_price"]; ok {
		p.SalePrice = v.(decimal.Decimal)
	}
	if v, ok := fields["minimum_stock"]; ok {
		p.MinimumStock = v.(int)
	}
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

type stubSaleRepo struct {
	sales        map[uuid.UUID]*model.Sale
	deleted      map[uuid.UUID]bool
	statusWrites int
	installments *stubInstallmentRepo
}

func newStubSaleRepo(installments *stubInstallmentRepo) *stubSaleRepo {
	return &stubSaleRepo{
		sales:        make(map[uuid.UUID]*model.Sale),
		deleted:      make(map[uuid.UUID]bool),
		installments: installments,
	}
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok || r.deleted[id] {
		return nil, gorm.ErrRecordNotFound
	}
	// mirror the schedule preload
	s.Installments, _ = r.installments.ListBySale(context.Background(), id)
	return s, nil
}

func (r *stubSaleRepo) StatusTx(_ *gorm.DB, id uuid.UUID) (model.SaleStatus, error) {
	s, ok := r.sales[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return s.Status, nil
}

func (r *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status model.SaleStatus) error {
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	r.statusWrites++
	return nil
}

func (r *stubSaleRepo) UpdateFieldsTx(_ *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	s, ok := r.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			switch st := v.(type) {
			case string:
				s.Status = model.SaleStatus(st)
			case model.SaleStatus:
				s.Status = st
			}
		case "notes":
			n := v.(string)
			s.Notes = &n
		}
	}
	return nil
}

func (r *stubSaleRepo) SoftDeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.deleted[id] = true
	return nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for id, s := range r.sales {
		if r.deleted[id] {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

type stubInstallmentRepo struct {
	rows map[uuid.UUID]*model.Installment
}

func newStubInstallmentRepo() *stubInstallmentRepo {
	return &stubInstallmentRepo{rows: make(map[uuid.UUID]*model.Installment)}
}

func (r *stubInstallmentRepo) CreateBatchTx(_ *gorm.DB, installments []model.Installment) error {
	for i := range installments {
		if installments[i].ID == uuid.Nil {
			installments[i].ID = uuid.New()
		}
		cp := installments[i]
		r.rows[cp.ID] = &cp
	}
	return nil
}

func (r *stubInstallmentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Installment, error) {
	i, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *i
	return &cp, nil
}

func (r *stubInstallmentRepo) UpdateTx(_ *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	i, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			i.Status = v.(model.InstallmentStatus)
		case "payment_date":
			if v == nil {
				i.PaymentDate = nil
			} else {
				t := v.(time.Time)
				i.PaymentDate = &t
			}
		case "paid_amount":
			if v == nil {
				i.PaidAmount = nil
			} else {
				d := v.(decimal.Decimal)
				i.PaidAmount = &d
			}
		case "due_date":
			i.DueDate = v.(time.Time)
		}
	}
	return nil
}

func (r *stubInstallmentRepo) CountPendingBySaleTx(_ *gorm.DB, saleID uuid.UUID) (int64, error) {
	var count int64
	for _, i := range r.rows {
		if i.SaleID == saleID && i.Status == model.InstallmentPending {
			count++
		}
	}
	return count, nil
}

func (r *stubInstallmentRepo) ListBySale(_ context.Context, saleID uuid.UUID) ([]model.Installment, error) {
	var out []model.Installment
	for _, i := range r.rows {
		if i.SaleID == saleID {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Number < out[b].Number })
	return out, nil
}

func (r *stubInstallmentRepo) ListPendingBySaleTx(_ *gorm.DB, saleID uuid.UUID) ([]model.Installment, error) {
	var out []model.Installment
	for _, i := range r.rows {
		if i.SaleID == saleID && i.Status == model.InstallmentPending {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Number < out[b].Number })
	return out, nil
}

func (r *stubInstallmentRepo) DeleteBySaleTx(_ *gorm.DB, saleID uuid.UUID) error {
	for id, i := range r.rows {
		if i.SaleID == saleID {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *stubInstallmentRepo) ListOverdue(_ context.Context, asOf time.Time, limit int) ([]model.Installment, error) {
	var out []model.Installment
	for _, i := range r.rows {
		if i.Status == model.InstallmentPending && i.DueDate.Before(asOf) {
			out = append(out, *i)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubInstallmentRepo) DB() *gorm.DB { return nil }

var _ repository.InstallmentRepository = (*stubInstallmentRepo)(nil)
