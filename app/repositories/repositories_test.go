package repositories_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neubistro/bistro/app/models"
	"github.com/neubistro/bistro/app/repositories"
	"github.com/neubistro/bistro/internal/dbtest"
)

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := dbtest.New(t)
	repo := repositories.NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "a@x.io", Password: "h"}))
	err := repo.Create(ctx, &models.User{Email: "a@x.io", Password: "h"})
	assert.Error(t, err)

	got, err := repo.FindByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", got.Email)

	_, err = repo.FindByEmail(ctx, "nobody@x.io")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestMenuRepositoryAvailability(t *testing.T) {
	db := dbtest.New(t)
	repo := repositories.NewMenuRepository(db)
	ctx := context.Background()

	burger := dbtest.Menu(t, db, "Burger", "12.99")
	pizza := dbtest.Menu(t, db, "Pizza", "15.50")

	found, err := repo.SetUnavailable(ctx, burger.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.SetUnavailable(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, found)

	items, err := repo.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, pizza.ID, items[0].ID)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("15.50")))

	_, err = repo.FindAvailable(ctx, burger.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestMenuRepositoryListEmptyIsNotNil(t *testing.T) {
	repo := repositories.NewMenuRepository(dbtest.New(t))
	items, err := repo.ListAvailable(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestGetOrCreateDraftIsSingletonUnderConcurrency(t *testing.T) {
	db := dbtest.New(t)
	user := dbtest.User(t, db, "c@x.io")
	repo := repositories.NewOrderRepository(db)
	ctx := context.Background()

	const workers = 8
	ids := make([]uint, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o, err := repo.GetOrCreateDraft(ctx, user.ID)
			if assert.NoError(t, err) {
				ids[i] = o.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	var drafts int64
	require.NoError(t, db.Model(&models.Order{}).
		Where("user_id = ? AND status = ?", user.ID, models.StatusDraft).
		Count(&drafts).Error)
	assert.EqualValues(t, 1, drafts)
}

func TestUpsertLineItemMergesAndKeepsFirstPrice(t *testing.T) {
	db := dbtest.New(t)
	user := dbtest.User(t, db, "m@x.io")
	burger := dbtest.Menu(t, db, "Burger", "12.99")
	repo := repositories.NewOrderRepository(db)
	ctx := context.Background()

	draft, err := repo.GetOrCreateDraft(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, repo.UpsertLineItem(ctx, draft.ID, burger.ID, 1, burger.Price))
	require.NoError(t, repo.UpsertLineItem(ctx, draft.ID, burger.ID, 2, decimal.RequireFromString("20.00")))

	got, err := repo.FindDraft(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("12.99")))
	require.NotNil(t, got.Items[0].MenuItem)
	assert.Equal(t, "Burger", got.Items[0].MenuItem.Name)
}

func TestUpsertLineItemConcurrentAddsSum(t *testing.T) {
	db := dbtest.New(t)
	user := dbtest.User(t, db, "p@x.io")
	item := dbtest.Menu(t, db, "Espresso", "3.50")
	repo := repositories.NewOrderRepository(db)
	ctx := context.Background()

	draft, err := repo.GetOrCreateDraft(ctx, user.ID)
	require.NoError(t, err)

	const adds = 10
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.UpsertLineItem(ctx, draft.ID, item.ID, 1, item.Price))
		}()
	}
	wg.Wait()

	got, err := repo.FindWithItems(ctx, draft.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, adds, got.Items[0].Quantity)
}

func TestDeleteLineItemMissingIsNoop(t *testing.T) {
	repo := repositories.NewOrderRepository(dbtest.New(t))
	assert.NoError(t, repo.DeleteLineItem(context.Background(), 12345))
}

func TestMarkCompletedReleasesDraftSlot(t *testing.T) {
	db := dbtest.New(t)
	user := dbtest.User(t, db, "k@x.io")
	item := dbtest.Menu(t, db, "Salad", "10.50")
	repo := repositories.NewOrderRepository(db)
	ctx := context.Background()

	draft, err := repo.GetOrCreateDraft(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, repo.UpsertLineItem(ctx, draft.ID, item.ID, 2, item.Price))

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ok, err := repo.MarkCompleted(ctx, draft.ID, decimal.RequireFromString("21.00"), at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkCompleted(ctx, draft.ID, decimal.RequireFromString("21.00"), at)
	require.NoError(t, err)
	assert.False(t, ok, "second completion must not match")

	_, err = repo.FindDraft(ctx, user.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	next, err := repo.GetOrCreateDraft(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, draft.ID, next.ID)
	assert.Empty(t, next.Items)

	done, err := repo.ListCompleted(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, models.StatusCompleted, done[0].Status)
	require.True(t, done[0].TotalAmount.Valid)
	assert.True(t, done[0].TotalAmount.Decimal.Equal(decimal.RequireFromString("21.00")))
	require.NotNil(t, done[0].CreatedAt)
	assert.True(t, done[0].CreatedAt.Equal(at))
}

func TestUpsertLineItemRejectsCompletedOrder(t *testing.T) {
	db := dbtest.New(t)
	user := dbtest.User(t, db, "late@x.io")
	item := dbtest.Menu(t, db, "Wrap", "8.00")
	repo := repositories.NewOrderRepository(db)
	ctx := context.Background()

	draft, err := repo.GetOrCreateDraft(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, repo.UpsertLineItem(ctx, draft.ID, item.ID, 1, item.Price))

	ok, err := repo.MarkCompleted(ctx, draft.ID, decimal.RequireFromString("8.00"), time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	// A writer that loaded the draft before checkout committed.
	err = repo.UpsertLineItem(ctx, draft.ID, item.ID, 2, item.Price)
	assert.ErrorIs(t, err, repositories.ErrNotDraft)

	placed, err := repo.FindWithItems(ctx, draft.ID)
	require.NoError(t, err)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, 1, placed.Items[0].Quantity)
	assert.True(t, placed.Sum().Equal(placed.TotalAmount.Decimal))
}

func TestClaimDraftOnlyMatchesDrafts(t *testing.T) {
	db := dbtest.New(t)
	user := dbtest.User(t, db, "claim@x.io")
	repo := repositories.NewOrderRepository(db)
	ctx := context.Background()

	draft, err := repo.GetOrCreateDraft(ctx, user.ID)
	require.NoError(t, err)

	ok, err := repo.ClaimDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.MarkCompleted(ctx, draft.ID, decimal.Zero, time.Now())
	require.NoError(t, err)

	ok, err = repo.ClaimDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListCompletedNewestFirstAndScopedToUser(t *testing.T) {
	db := dbtest.New(t)
	alice := dbtest.User(t, db, "alice@x.io")
	bob := dbtest.User(t, db, "bob@x.io")
	item := dbtest.Menu(t, db, "Pasta", "18.00")
	repo := repositories.NewOrderRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		d, err := repo.GetOrCreateDraft(ctx, alice.ID)
		require.NoError(t, err)
		require.NoError(t, repo.UpsertLineItem(ctx, d.ID, item.ID, i+1, item.Price))
		_, err = repo.MarkCompleted(ctx, d.ID, item.Price.Mul(decimal.NewFromInt(int64(i+1))), base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}
	_, err := repo.GetOrCreateDraft(ctx, alice.ID)
	require.NoError(t, err)

	orders, err := repo.ListCompleted(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
	assert.Equal(t, 1, orders[1].Items[0].Quantity)

	none, err := repo.ListCompleted(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTransactionRollsBack(t *testing.T) {
	db := dbtest.New(t)
	user := dbtest.User(t, db, "t@x.io")
	repo := repositories.NewOrderRepository(db)
	ctx := context.Background()

	draft, err := repo.GetOrCreateDraft(ctx, user.ID)
	require.NoError(t, err)

	sentinel := assert.AnError
	err = repo.Transaction(ctx, func(tx *repositories.OrderRepository) error {
		if _, err := tx.MarkCompleted(ctx, draft.ID, decimal.Zero, time.Now()); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	still, err := repo.FindDraft(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, still.ID)
}
