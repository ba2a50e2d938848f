package repository

import (
	"context"
	"time"

	"github.com/josecarlos19/top-vendas-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InstallmentRepository interface {
	CreateBatchTx(tx *gorm.DB, installments []model.Installment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Installment, error)
	UpdateTx(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	// CountPendingBySaleTx counts installments still pending for the sale,
	// observing writes made earlier in the same transaction.
	CountPendingBySaleTx(tx *gorm.DB, saleID uuid.UUID) (int64, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]model.Installment, error)
	ListPendingBySaleTx(tx *gorm.DB, saleID uuid.UUID) ([]model.Installment, error)
	// DeleteBySaleTx physically removes the sale's whole schedule.
	DeleteBySaleTx(tx *gorm.DB, saleID uuid.UUID) error
	// ListOverdue returns pending installments due strictly before asOf,
	// with their sale and customer preloaded for the reminder worker.
	ListOverdue(ctx context.Context, asOf time.Time, limit int) ([]model.Installment, error)
	DB() *gorm.DB
}

type installmentRepo struct{ db *gorm.DB }

func NewInstallmentRepository(db *gorm.DB) InstallmentRepository {
	return &installmentRepo{db: db}
}

func (r *installmentRepo) DB() *gorm.DB { return r.db }

func (r *installmentRepo) CreateBatchTx(tx *gorm.DB, installments []model.Installment) error {
	if len(installments) == 0 {
		return nil
	}
	return tx.Create(&installments).Error
}

func (r *installmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Installment, error) {
	var i model.Installment
	err := r.db.WithContext(ctx).First(&i, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *installmentRepo) UpdateTx(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return tx.Model(&model.Installment{}).Where("id = ?", id).Updates(fields).Error
}

func (r *installmentRepo) CountPendingBySaleTx(tx *gorm.DB, saleID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&model.Installment{}).
		Where("sale_id = ? AND status = ?", saleID, model.InstallmentPending).
		Count(&count).Error
	return count, err
}

func (r *installmentRepo) ListBySale(ctx context.Context, saleID uuid.UUID) ([]model.Installment, error) {
	var installments []model.Installment
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("number ASC").
		Find(&installments).Error
	return installments, err
}

func (r *installmentRepo) ListPendingBySaleTx(tx *gorm.DB, saleID uuid.UUID) ([]model.Installment, error) {
	var installments []model.Installment
	err := tx.Where("sale_id = ? AND status = ?", saleID, model.InstallmentPending).
		Order("number ASC").
		Find(&installments).Error
	return installments, err
}

func (r *installmentRepo) DeleteBySaleTx(tx *gorm.DB, saleID uuid.UUID) error {
	return tx.Unscoped().Where("sale_id = ?", saleID).Delete(&model.Installment{}).Error
}

func (r *installmentRepo) ListOverdue(ctx context.Context, asOf time.Time, limit int) ([]model.Installment, error) {
	var installments []model.Installment
	err := r.db.WithContext(ctx).
		Preload("Sale.Customer").
		Where("status = ? AND due_date < ?", model.InstallmentPending, asOf.Format("2006-01-02")).
		Order("due_date ASC").
		Limit(limit).
		Find(&installments).Error
	return installments, err
}
