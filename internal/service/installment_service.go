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
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type InstallmentService interface {
	SetStatus(ctx context.Context, id uuid.UUID, req dto.SetInstallmentStatusRequest) error
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]dto.InstallmentResponse, error)
}

type installmentService struct {
	installments repository.InstallmentRepository
	sales        repository.SaleRepository
}

func NewInstallmentService(
	installments repository.InstallmentRepository,
	sales repository.SaleRepository,
) InstallmentService {
	return &installmentService{installments: installments, sales: sales}
}

// SetStatus settles or reopens one installment, then reconciles the parent
// sale's status from the installment set. The reconciliation rule is
// deliberately narrow — it fires only at the pending-count boundary:
//
//	pendingCount == 0 and the update was a settlement  → sale completed
//	pendingCount > 0  and the update was a reopening   → sale pending
//	anything else                                      → sale untouched
//
// Settling one of several pending installments therefore does NOT move a
// pending sale; only exhausting the pending set does. Settlement never touches
// the stock ledger — inventory moved once, at sale creation.
func (s *installmentService) SetStatus(ctx context.Context, id uuid.UUID, req dto.SetInstallmentStatusRequest) error {
	newStatus := model.InstallmentStatus(req.Status)
	if newStatus != model.InstallmentPending && newStatus != model.InstallmentCompleted {
		return apierror.Validationf("status must be pending or completed")
	}

	inst, err := s.installments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown installment: return without reconciling.
			log.Debug().Str("installment_id", id.String()).Msg("set status on unknown installment ignored")
			return nil
		}
		return apierror.Failed("set_installment_status", err)
	}

	fields := map[string]interface{}{"status": newStatus}
	switch newStatus {
	case model.InstallmentCompleted:
		paymentDate := time.Now().Truncate(24 * time.Hour)
		if req.PaymentDate != nil {
			parsed, err := time.Parse(dateLayout, *req.PaymentDate)
			if err != nil {
				return apierror.Validationf("invalid payment_date: %s", *req.PaymentDate)
			}
			paymentDate = parsed
		}
		fields["payment_date"] = paymentDate
		fields["paid_amount"] = inst.Amount
	case model.InstallmentPending:
		fields["payment_date"] = nil
		fields["paid_amount"] = nil
	}

	txErr := runTx(ctx, s.installments.DB(), func(tx *gorm.DB) error {
		if err := s.installments.UpdateTx(tx, inst.ID, fields); err != nil {
			return err
		}

		pendingCount, err := s.installments.CountPendingBySaleTx(tx, inst.SaleID)
		if err != nil {
			return err
		}

		var target model.SaleStatus
		switch {
		case pendingCount == 0 && newStatus == model.InstallmentCompleted:
			target = model.SaleCompleted
		case pendingCount > 0 && newStatus == model.InstallmentPending:
			target = model.SalePending
		default:
			return nil
		}

		current, err := s.sales.StatusTx(tx, inst.SaleID)
		if err != nil {
			return err
		}
		if current == target {
			return nil
		}
		return s.sales.UpdateStatusTx(tx, inst.SaleID, target)
	})
	if txErr != nil {
		return apierror.Failed("set_installment_status", txErr)
	}
	return nil
}

func (s *installmentService) ListBySale(ctx context.Context, saleID uuid.UUID) ([]dto.InstallmentResponse, error) {
	installments, err := s.installments.ListBySale(ctx, saleID)
	if err != nil {
		return nil, apierror.Failed("list_installments", err)
	}
	items := make([]dto.InstallmentResponse, 0, len(installments))
	for i := range installments {
		items = append(items, installmentToResponse(&installments[i]))
	}
	return items, nil
}

func installmentToResponse(i *model.Installment) dto.InstallmentResponse {
	resp := dto.InstallmentResponse{
		ID:         i.ID.String(),
		SaleID:     i.SaleID.String(),
		Number:     i.Number,
		Amount:     i.Amount,
		DueDate:    i.DueDate.Format(dateLayout),
		PaidAmount: i.PaidAmount,
		Status:     string(i.Status),
		Notes:      i.Notes,
	}
	if i.PaymentDate != nil {
		d := i.PaymentDate.Format(dateLayout)
		resp.PaymentDate = &d
	}
	return resp
}
