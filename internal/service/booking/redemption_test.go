package booking

import (
	"context"
	"testing"
	"time"

	"github.com/kirinyoku/cinebook/internal/domain"
	"github.com/kirinyoku/cinebook/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedeemPointsForProduct(t *testing.T) {
	f := newFixture(t)
	popcorn := f.store.AddProduct(domain.Product{Name: "Popcorn", Stock: 3, PointsPrice: 40})
	water := f.store.AddProduct(domain.Product{Name: "Water", Stock: 10})
	c := f.store.AddCustomer(domain.Customer{
		Name:      "Iara",
		BirthDate: time.Date(1990, time.May, 1, 0, 0, 0, 0, time.UTC),
		Points:    100,
	})

	stock := func(id int64) int {
		t.Helper()
		p, err := f.store.Repos().Inventory().Product(context.Background(), id)
		require.NoError(t, err)
		return p.Stock
	}

	got, err := f.svc.RedeemPointsForProduct(context.Background(), c.ID, popcorn.ID, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 80, got.PointsSpent)
	assert.EqualValues(t, 20, got.PointsBalance)
	assert.Equal(t, 1, stock(popcorn.ID))
	assert.EqualValues(t, 20, f.customer(t, c.ID).Points)

	_, err = f.svc.RedeemPointsForProduct(context.Background(), c.ID, popcorn.ID, 2)
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = f.svc.RedeemPointsForProduct(context.Background(), c.ID, popcorn.ID, 1)
	assert.ErrorIs(t, err, pricing.ErrInsufficientPoints)
	assert.Equal(t, 1, stock(popcorn.ID))
	assert.EqualValues(t, 20, f.customer(t, c.ID).Points)

	_, err = f.svc.RedeemPointsForProduct(context.Background(), c.ID, water.ID, 1)
	assert.ErrorIs(t, err, ErrProductNotRedeemable)

	_, err = f.svc.RedeemPointsForProduct(context.Background(), c.ID, 999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.svc.RedeemPointsForProduct(context.Background(), c.ID, popcorn.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}
