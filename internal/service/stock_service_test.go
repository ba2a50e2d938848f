package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josecarlos19/top-vendas-sub000/internal/apierror"
	"github.com/josecarlos19/top-vendas-sub000/internal/dto"
	"github.com/josecarlos19/top-vendas-sub000/internal/model"
	"github.com/josecarlos19/top-vendas-sub000/internal/service"
)

func newStockFixture() (service.StockService, *stubMovementRepo) {
	movements := newStubMovementRepo()
	return service.NewStockService(movements), movements
}

func TestRegisterMovementValidation(t *testing.T) {
	svc, movements := newStockFixture()
	productID := uuid.NewString()

	cases := []struct {
		name string
		req  dto.RegisterMovementRequest
	}{
		{"bad product id", dto.RegisterMovementRequest{ProductID: "nope", Type: "stock_in", Quantity: 1}},
		{"sale kind reserved", dto.RegisterMovementRequest{ProductID: productID, Type: "sale", Quantity: 1}},
		{"zero quantity and value", dto.RegisterMovementRequest{ProductID: productID, Type: "adjustment"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RegisterMovement(context.Background(), tc.req)
			var ve *apierror.ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}
	assert.Empty(t, movements.rows)
}

func TestAppendDerivesSignFromKind(t *testing.T) {
	svc, movements := newStockFixture()
	productID := uuid.New()

	// inbound kinds keep the magnitude
	for _, kind := range []model.MovementKind{model.MovementStockIn, model.MovementReturn, model.MovementAdjustment} {
		require.NoError(t, svc.AppendTx(nil, &model.StockMovement{
			ProductID: productID,
			Type:      kind,
			Quantity:  3,
			UnitValue: decimal.RequireFromString("10"),
		}))
	}
	// sale rows are stored negated, even though the caller passed a magnitude
	saleID := uuid.New()
	require.NoError(t, svc.AppendTx(nil, &model.StockMovement{
		SaleID:    &saleID,
		ProductID: productID,
		Type:      model.MovementSale,
		Quantity:  2,
		UnitValue: decimal.RequireFromString("10"),
	}))

	rows := movements.rowsForSale(saleID)
	require.Len(t, rows, 1)
	assert.Equal(t, -2, rows[0].Quantity)

	current, err := svc.CurrentStock(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, 7, current)
}

func TestAppendComputesTotalValueWhenMissing(t *testing.T) {
	svc, movements := newStockFixture()
	productID := uuid.New()

	m := &model.StockMovement{
		ProductID: productID,
		Type:      model.MovementStockIn,
		Quantity:  4,
		UnitValue: decimal.RequireFromString("2.50"),
	}
	require.NoError(t, svc.AppendTx(nil, m))

	require.Len(t, movements.rows, 1)
	assert.True(t, m.TotalValue.Equal(decimal.RequireFromString("10.00")))
}

func TestCurrentStockUnknownProductIsZero(t *testing.T) {
	svc, _ := newStockFixture()

	current, err := svc.CurrentStock(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, current)
}

func TestOverwriteOpeningBalanceTouchesOnlyStockInRow(t *testing.T) {
	svc, movements := newStockFixture()
	productID := uuid.New()

	require.NoError(t, svc.AppendTx(nil, &model.StockMovement{
		ProductID: productID,
		Type:      model.MovementStockIn,
		Quantity:  10,
		UnitValue: decimal.RequireFromString("5"),
	}))
	require.NoError(t, svc.AppendTx(nil, &model.StockMovement{
		ProductID: productID,
		Type:      model.MovementAdjustment,
		Quantity:  2,
		UnitValue: decimal.RequireFromString("5"),
	}))

	require.NoError(t, svc.OverwriteOpeningBalanceTx(nil, productID, 20, decimal.RequireFromString("4")))

	for _, m := range movements.rows {
		switch m.Type {
		case model.MovementStockIn:
			assert.Equal(t, 20, m.Quantity)
			assert.True(t, m.UnitValue.Equal(decimal.RequireFromString("4")))
			assert.True(t, m.TotalValue.Equal(decimal.RequireFromString("80")))
		case model.MovementAdjustment:
			assert.Equal(t, 2, m.Quantity)
		}
	}

	current, err := svc.CurrentStock(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, 22, current)
}

func TestOverwriteOpeningBalanceRejectsNegative(t *testing.T) {
	svc, _ := newStockFixture()

	err := svc.OverwriteOpeningBalanceTx(nil, uuid.New(), -1, decimal.Zero)
	var ve *apierror.ValidationError
	require.ErrorAs(t, err, &ve)
}
