package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josecarlos19/top-vendas-sub000/internal/dto"
	"github.com/josecarlos19/top-vendas-sub000/internal/model"
	"github.com/josecarlos19/top-vendas-sub000/internal/service"
)

type settlementFixture struct {
	svc    service.InstallmentService
	sales  *stubSaleRepo
	insts  *stubInstallmentRepo
	saleID uuid.UUID
}

// newSettlementFixture seeds one pending sale with a pending schedule of n
// equal installments.
func newSettlementFixture(t *testing.T, n int) *settlementFixture {
	t.Helper()
	insts := newStubInstallmentRepo()
	sales := newStubSaleRepo(insts)

	sale := &model.Sale{
		CustomerID:    uuid.New(),
		Total:         decimal.RequireFromString("3000"),
		PaymentMethod: "credit",
		Status:        model.SalePending,
		SaleDate:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, sales.CreateTx(nil, sale))

	schedule := make([]model.Installment, 0, n)
	for i := 1; i <= n; i++ {
		schedule = append(schedule, model.Installment{
			SaleID:  sale.ID,
			Number:  i,
			Amount:  decimal.RequireFromString("1000"),
			DueDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, i-1, 0),
			Status:  model.InstallmentPending,
		})
	}
	require.NoError(t, insts.CreateBatchTx(nil, schedule))

	return &settlementFixture{
		svc:    service.NewInstallmentService(insts, sales),
		sales:  sales,
		insts:  insts,
		saleID: sale.ID,
	}
}

func (f *settlementFixture) schedule(t *testing.T) []model.Installment {
	t.Helper()
	out, err := f.insts.ListBySale(context.Background(), f.saleID)
	require.NoError(t, err)
	return out
}

func TestSettleOneOfManyLeavesSalePending(t *testing.T) {
	f := newSettlementFixture(t, 3)
	first := f.schedule(t)[0]

	payDate := "2026-09-01"
	require.NoError(t, f.svc.SetStatus(context.Background(), first.ID, dto.SetInstallmentStatusRequest{
		Status:      "completed",
		PaymentDate: &payDate,
	}))

	got := f.schedule(t)[0]
	assert.Equal(t, model.InstallmentCompleted, got.Status)
	require.NotNil(t, got.PaymentDate)
	assert.Equal(t, "2026-09-01", got.PaymentDate.Format("2006-01-02"))
	require.NotNil(t, got.PaidAmount)
	assert.True(t, got.PaidAmount.Equal(got.Amount))

	// two still pending — the sale does not move, and no status write happens
	assert.Equal(t, model.SalePending, f.sales.sales[f.saleID].Status)
	assert.Zero(t, f.sales.statusWrites)
}

func TestSettlingLastInstallmentCompletesSale(t *testing.T) {
	f := newSettlementFixture(t, 3)

	for _, inst := range f.schedule(t) {
		require.NoError(t, f.svc.SetStatus(context.Background(), inst.ID, dto.SetInstallmentStatusRequest{
			Status: "completed",
		}))
	}

	assert.Equal(t, model.SaleCompleted, f.sales.sales[f.saleID].Status)
	// only the final settlement crossed the boundary
	assert.Equal(t, 1, f.sales.statusWrites)
}

func TestReopeningInstallmentRevertsSaleToPending(t *testing.T) {
	f := newSettlementFixture(t, 2)

	for _, inst := range f.schedule(t) {
		require.NoError(t, f.svc.SetStatus(context.Background(), inst.ID, dto.SetInstallmentStatusRequest{
			Status: "completed",
		}))
	}
	require.Equal(t, model.SaleCompleted, f.sales.sales[f.saleID].Status)

	first := f.schedule(t)[0]
	require.NoError(t, f.svc.SetStatus(context.Background(), first.ID, dto.SetInstallmentStatusRequest{
		Status: "pending",
	}))

	got := f.schedule(t)[0]
	assert.Equal(t, model.InstallmentPending, got.Status)
	assert.Nil(t, got.PaymentDate)
	assert.Nil(t, got.PaidAmount)
	assert.Equal(t, model.SalePending, f.sales.sales[f.saleID].Status)
}

// The reconciliation rule is asymmetric: it only fires at the pending-count
// boundary for the direction of the update. Re-marking an already pending
// installment as pending while the sale is pending must not write anything.
func TestReconciliationSkipsRedundantStatusWrites(t *testing.T) {
	f := newSettlementFixture(t, 3)
	first := f.schedule(t)[0]

	require.NoError(t, f.svc.SetStatus(context.Background(), first.ID, dto.SetInstallmentStatusRequest{
		Status: "pending",
	}))

	assert.Equal(t, model.SalePending, f.sales.sales[f.saleID].Status)
	assert.Zero(t, f.sales.statusWrites)
}

func TestSetStatusUnknownInstallmentIsSilentNoOp(t *testing.T) {
	f := newSettlementFixture(t, 2)

	err := f.svc.SetStatus(context.Background(), uuid.New(), dto.SetInstallmentStatusRequest{
		Status: "completed",
	})
	require.NoError(t, err)

	// nothing reconciled, nothing written
	assert.Equal(t, model.SalePending, f.sales.sales[f.saleID].Status)
	assert.Zero(t, f.sales.statusWrites)
	for _, inst := range f.schedule(t) {
		assert.Equal(t, model.InstallmentPending, inst.Status)
	}
}

func TestSetStatusRejectsCancelled(t *testing.T) {
	f := newSettlementFixture(t, 1)
	first := f.schedule(t)[0]

	err := f.svc.SetStatus(context.Background(), first.ID, dto.SetInstallmentStatusRequest{
		Status: "cancelled",
	})
	require.Error(t, err)
	assert.Equal(t, model.InstallmentPending, f.schedule(t)[0].Status)
}

func TestListBySaleOrdersByNumber(t *testing.T) {
	f := newSettlementFixture(t, 3)

	out, err := f.svc.ListBySale(context.Background(), f.saleID)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, inst := range out {
		assert.Equal(t, i+1, inst.Number)
	}
}
