package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ferremix/storefront/internal/models"
	"github.com/ferremix/storefront/internal/store"
	"github.com/ferremix/storefront/internal/testutil"
)

func seedCatalog(t *testing.T, st store.Store) (tools, garden models.Category) {
	t.Helper()
	ctx := context.Background()

	toolsCat := &models.Category{Name: "Tools", Slug: "tools"}
	gardenCat := &models.Category{Name: "Garden", Slug: "garden"}
	require.NoError(t, st.Categories().Create(ctx, toolsCat))
	require.NoError(t, st.Categories().Create(ctx, gardenCat))

	products := []models.Product{
		{Name: "Claw Hammer", Price: 12.50, Stock: 10, IsOffer: true, CategoryID: &toolsCat.ID},
		{Name: "Sledge Hammer", Price: 40.00, Stock: 3, IsOffer: false, CategoryID: &toolsCat.ID},
		{Name: "Garden Hose", Price: 18.00, Stock: 7, IsOffer: true, CategoryID: &gardenCat.ID},
		{Name: "Work Shirt", Price: 9.99, Stock: 20, IsOffer: true, CategoryID: &toolsCat.ID},
	}
	for i := range products {
		require.NoError(t, st.Products().Create(ctx, &products[i]))
	}
	return *toolsCat, *gardenCat
}

func TestFilterOfferAndCategory(t *testing.T) {
	st := testutil.NewStore(t)
	tools, _ := seedCatalog(t, st)

	isOffer := true
	got, err := st.Products().Filter(context.Background(), store.ProductFilter{
		IsOffer:    &isOffer,
		CategoryID: &tools.ID,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, p := range got {
		require.True(t, p.IsOffer)
		require.Equal(t, tools.ID, *p.CategoryID)
		require.Equal(t, "Tools", p.CategoryName)
	}
}

func TestFilterSearchCaseInsensitive(t *testing.T) {
	st := testutil.NewStore(t)
	seedCatalog(t, st)

	got, err := st.Products().Filter(context.Background(), store.ProductFilter{Search: "sHiRt"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Work Shirt", got[0].Name)

	got, err = st.Products().Filter(context.Background(), store.ProductFilter{Search: "hammer"})
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestFilterPriceBounds(t *testing.T) {
	st := testutil.NewStore(t)
	seedCatalog(t, st)

	min, max := 10.0, 20.0
	got, err := st.Products().Filter(context.Background(), store.ProductFilter{
		MinPrice: &min,
		MaxPrice: &max,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, p := range got {
		require.GreaterOrEqual(t, p.Price, min)
		require.LessOrEqual(t, p.Price, max)
	}
}

func TestFilterEmptyCriteriaReturnsAll(t *testing.T) {
	st := testutil.NewStore(t)
	seedCatalog(t, st)

	got, err := st.Products().Filter(context.Background(), store.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, got, 4)
}

func TestDuplicateEmailConflict(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()

	require.NoError(t, st.Users().Create(ctx, &models.User{Email: "a@b.com", PasswordHash: "x"}))
	err := st.Users().Create(ctx, &models.User{Email: "a@b.com", PasswordHash: "y"})
	require.ErrorIs(t, err, store.ErrConflict)

	n, err := st.Users().Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestDuplicateSlugConflict(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()

	require.NoError(t, st.Categories().Create(ctx, &models.Category{Name: "Tools", Slug: "tools"}))
	err := st.Categories().Create(ctx, &models.Category{Name: "Other", Slug: "tools"})
	require.ErrorIs(t, err, store.ErrConflict)
}

func TestNotFoundTranslation(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()

	_, err := st.Products().ByID(ctx, 999)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Users().ByID(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = st.Orders().UpdateStatus(ctx, 42, "shipped")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTransactionRollsBack(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()

	err := st.Transaction(ctx, func(tx store.Store) error {
		if err := tx.Products().Create(ctx, &models.Product{Name: "Ghost", Price: 1}); err != nil {
			return err
		}
		return context.Canceled
	})
	require.Error(t, err)

	n, err := st.Products().Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
}
