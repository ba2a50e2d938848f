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

func newProductFixture() (service.ProductService, *stubProductRepo, *stubMovementRepo) {
	movements := newStubMovementRepo()
	products := newStubProductRepo()
	stock := service.NewStockService(movements)
	return service.NewProductService(products, stock), products, movements
}

func TestCreateProductWritesOpeningBalanceRow(t *testing.T) {
	svc, _, movements := newProductFixture()

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:         "Mixer",
		SalePrice:    decimal.RequireFromString("350"),
		MinimumStock: 2,
		InitialStock: 12,
		UnitCost:     decimal.RequireFromString("200"),
	})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.CurrentStock)
	assert.False(t, resp.LowStock)

	require.Len(t, movements.rows, 1)
	for _, m := range movements.rows {
		assert.Equal(t, model.MovementStockIn, m.Type)
		assert.Equal(t, 12, m.Quantity)
		assert.True(t, m.UnitValue.Equal(decimal.RequireFromString("200")))
		assert.True(t, m.TotalValue.Equal(decimal.RequireFromString("2400")))
	}
}

func TestCreateProductWithoutStockWritesNoLedgerRow(t *testing.T) {
	svc, _, movements := newProductFixture()

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:      "Service fee",
		SalePrice: decimal.RequireFromString("50"),
	})
	require.NoError(t, err)
	assert.Zero(t, resp.CurrentStock)
	assert.Empty(t, movements.rows)
}

func TestUpdateProductOverwritesOpeningBalanceInPlace(t *testing.T) {
	svc, _, movements := newProductFixture()

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:         "Heater",
		SalePrice:    decimal.RequireFromString("600"),
		InitialStock: 5,
		UnitCost:     decimal.RequireFromString("400"),
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	newStock := 9
	newCost := decimal.RequireFromString("380")
	require.NoError(t, svc.Update(context.Background(), id, dto.UpdateProductRequest{
		InitialStock: &newStock,
		UnitCost:     &newCost,
	}))

	// still exactly one ledger row — history was mutated, not appended to
	require.Len(t, movements.rows, 1)
	for _, m := range movements.rows {
		assert.Equal(t, 9, m.Quantity)
		assert.True(t, m.UnitValue.Equal(newCost))
	}

	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 9, got.CurrentStock)
}

func TestProductLowStockFlag(t *testing.T) {
	svc, _, _ := newProductFixture()

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:         "Toaster",
		SalePrice:    decimal.RequireFromString("120"),
		MinimumStock: 3,
		InitialStock: 3,
		UnitCost:     decimal.RequireFromString("80"),
	})
	require.NoError(t, err)
	// at the threshold counts as low
	assert.True(t, resp.LowStock)
}

func TestUpdateProductUnknownIsNotFound(t *testing.T) {
	svc, _, _ := newProductFixture()

	err := svc.Update(context.Background(), uuid.New(), dto.UpdateProductRequest{})
	assert.True(t, apierror.IsNotFound(err))
}
