package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ferremix/storefront/internal/models"
	"github.com/ferremix/storefront/internal/service"
	"github.com/ferremix/storefront/internal/store"
	"github.com/ferremix/storefront/internal/testutil"
)

func newCartService(t *testing.T) (*service.CartService, store.Store) {
	st := testutil.NewStore(t)
	return &service.CartService{Store: st}, st
}

func seedProduct(t *testing.T, st store.Store, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, st.Products().Create(context.Background(), p))
	return p
}

func TestGetOrCreateIsLazyAndStable(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestAddItemMergesSameProduct(t *testing.T) {
	svc, st := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, st, "Hammer", 12.5, 100)

	_, err := svc.AddItem(ctx, "user-1", p.ID, 2)
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, "user-1", p.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 5, item.Quantity)

	cart, err := st.Carts().ByUser(ctx, "user-1")
	require.NoError(t, err)
	items, err := st.Carts().Items(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestAddItemInsufficientStock(t *testing.T) {
	svc, st := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, st, "Rare Part", 99.0, 1)

	_, err := svc.AddItem(ctx, "user-1", p.ID, 2)
	require.ErrorIs(t, err, service.ErrValidation)
	require.Contains(t, err.Error(), "insufficient stock")

	cart, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	items, err := st.Carts().Items(ctx, cart.ID)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestAddItemCoercesQuantityBelowOne(t *testing.T) {
	svc, st := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, st, "Hammer", 12.5, 100)

	item, err := svc.AddItem(ctx, "user-1", p.ID, 0)
	require.NoError(t, err)
	require.Equal(t, 1, item.Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	svc, st := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, st, "Hammer", 12.5, 100)

	item, err := svc.AddItem(ctx, "user-1", p.ID, 2)
	require.NoError(t, err)

	// Any quantity >= 1 overwrites.
	require.NoError(t, svc.UpdateQuantity(ctx, "user-1", item.ID, 7))
	got, err := st.Carts().ItemByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, 7, got.Quantity)

	// Zero removes the line.
	require.NoError(t, svc.UpdateQuantity(ctx, "user-1", item.ID, 0))
	_, err = st.Carts().ItemByID(ctx, item.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateQuantityNegativeRemoves(t *testing.T) {
	svc, st := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, st, "Hammer", 12.5, 100)

	item, err := svc.AddItem(ctx, "user-1", p.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuantity(ctx, "user-1", item.ID, -1))
	_, err = st.Carts().ItemByID(ctx, item.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateQuantityForeignItemForbidden(t *testing.T) {
	svc, st := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, st, "Hammer", 12.5, 100)

	item, err := svc.AddItem(ctx, "owner", p.ID, 2)
	require.NoError(t, err)

	err = svc.UpdateQuantity(ctx, "intruder", item.ID, 5)
	require.ErrorIs(t, err, service.ErrForbidden)

	got, err := st.Carts().ItemByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.Quantity)
}

func TestSummaryAggregates(t *testing.T) {
	svc, st := newCartService(t)
	ctx := context.Background()
	a := seedProduct(t, st, "Product A", 10.00, 50)
	b := seedProduct(t, st, "Product B", 5.00, 50)

	_, err := svc.AddItem(ctx, "user-1", a.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "user-1", b.ID, 1)
	require.NoError(t, err)

	sum, err := svc.Summary(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 3, sum.Count)
	require.InDelta(t, 25.00, sum.Subtotal, 1e-9)
	require.Len(t, sum.Items, 2)
}

func TestSummaryUsesCurrentPrice(t *testing.T) {
	svc, st := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, st, "Hammer", 10.00, 50)

	_, err := svc.AddItem(ctx, "user-1", p.ID, 2)
	require.NoError(t, err)

	p.Price = 15.00
	require.NoError(t, st.Products().Update(ctx, p))

	sum, err := svc.Summary(ctx, "user-1")
	require.NoError(t, err)
	require.InDelta(t, 30.00, sum.Subtotal, 1e-9)
}
