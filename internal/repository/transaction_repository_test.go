package repository

import (
	"context"
	"testing"
	"time"

	"github.com/avestra/bank-analytics/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTransactions(t *testing.T, repo *TransactionRepository, accountID int64, specs []struct {
	amount   float64
	category string
	merchant *string
	at       time.Time
}) {
	t.Helper()
	ctx := context.Background()
	for _, s := range specs {
		_, err := repo.Create(ctx, &model.Transaction{
			AccountID: accountID,
			Amount:    s.amount,
			Category:  s.category,
			Merchant:  s.merchant,
			Timestamp: s.at,
		})
		require.NoError(t, err)
	}
}

func TestTransactionRepository_CategoryBreakdown(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)
	ctx := context.Background()

	account := seedAccount(t, db, 1)
	now := time.Now().UTC()

	seedTransactions(t, repo, account.ID, []struct {
		amount   float64
		category string
		merchant *string
		at       time.Time
	}{
		{10, "Food", nil, now},
		{30, "Food", nil, now},
		{100, "Rent", nil, now},
	})

	t.Run("count sum and average per category", func(t *testing.T) {
		rows, err := repo.CategoryBreakdown(ctx, nil, nil, nil)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "Food", rows[0].Category)
		assert.Equal(t, int64(2), rows[0].Count)
		assert.InDelta(t, 40.0, rows[0].Total, 0.001)
		assert.InDelta(t, 20.0, rows[0].Average, 0.001)

		assert.Equal(t, "Rent", rows[1].Category)
		assert.Equal(t, int64(1), rows[1].Count)
		assert.InDelta(t, 100.0, rows[1].Total, 0.001)
		assert.InDelta(t, 100.0, rows[1].Average, 0.001)
	})

	t.Run("window excluding all rows yields empty breakdown", func(t *testing.T) {
		from := now.Add(24 * time.Hour)
		to := now.Add(48 * time.Hour)
		rows, err := repo.CategoryBreakdown(ctx, nil, &from, &to)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestTransactionRepository_MerchantBreakdown(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)
	ctx := context.Background()

	account := seedAccount(t, db, 1)
	now := time.Now().UTC()

	seedTransactions(t, repo, account.ID, []struct {
		amount   float64
		category string
		merchant *string
		at       time.Time
	}{
		{50, "Dining", strPtr("Cafe One"), now},
		{70, "Dining", strPtr("Cafe One"), now},
		{200, "Groceries", strPtr("MegaMart"), now},
		{5, "Transfer", nil, now},
	})

	rows, err := repo.MerchantBreakdown(ctx, nil, nil, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2, "merchantless rows are skipped")

	assert.Equal(t, "MegaMart", rows[0].Merchant)
	assert.InDelta(t, 200.0, rows[0].Total, 0.001)
	assert.Equal(t, "Cafe One", rows[1].Merchant)
	assert.Equal(t, int64(2), rows[1].Count)
	assert.InDelta(t, 120.0, rows[1].Total, 0.001)

	top1, err := repo.MerchantBreakdown(ctx, nil, nil, nil, 1)
	require.NoError(t, err)
	require.Len(t, top1, 1)
	assert.Equal(t, "MegaMart", top1[0].Merchant)
}

func TestTransactionRepository_Totals(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)
	ctx := context.Background()

	account := seedAccount(t, db, 1)
	now := time.Now().UTC()

	t.Run("sum over no rows is zero not null", func(t *testing.T) {
		total, err := repo.TotalByAccount(ctx, account.ID, nil, nil)
		require.NoError(t, err)
		assert.Zero(t, total)

		avg, err := repo.AverageAmount(ctx, &account.ID, nil, nil)
		require.NoError(t, err)
		assert.Zero(t, avg)
	})

	seedTransactions(t, repo, account.ID, []struct {
		amount   float64
		category string
		merchant *string
		at       time.Time
	}{
		{-250, "Rent", nil, now.Add(-48 * time.Hour)},
		{1000, "Salary", nil, now},
	})

	t.Run("signed amounts sum", func(t *testing.T) {
		total, err := repo.TotalByAccount(ctx, account.ID, nil, nil)
		require.NoError(t, err)
		assert.InDelta(t, 750.0, total, 0.001)
	})

	t.Run("window bounds the sum", func(t *testing.T) {
		from := now.Add(-1 * time.Hour)
		to := now.Add(1 * time.Hour)
		total, err := repo.TotalByAccount(ctx, account.ID, &from, &to)
		require.NoError(t, err)
		assert.InDelta(t, 1000.0, total, 0.001)
	})

	t.Run("total by category", func(t *testing.T) {
		total, err := repo.TotalByCategory(ctx, "Rent", nil, nil)
		require.NoError(t, err)
		assert.InDelta(t, -250.0, total, 0.001)
	})
}

func TestTransactionRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)
	ctx := context.Background()

	account := seedAccount(t, db, 1)
	now := time.Now().UTC()

	seedTransactions(t, repo, account.ID, []struct {
		amount   float64
		category string
		merchant *string
		at       time.Time
	}{
		{-42.5, "Dining", strPtr("Cafe One"), now.Add(-2 * time.Hour)},
		{-9.99, "Groceries", strPtr("MegaMart"), now.Add(-1 * time.Hour)},
		{1500, "Salary", nil, now},
	})

	t.Run("newest first", func(t *testing.T) {
		txns, total, err := repo.List(ctx, model.TransactionFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, txns, 3)
		assert.Equal(t, "Salary", txns[0].Category)
		assert.Equal(t, "Dining", txns[2].Category)
	})

	t.Run("amount range", func(t *testing.T) {
		txns, _, err := repo.List(ctx, model.TransactionFilter{
			MinAmount: floatPtr(-50),
			MaxAmount: floatPtr(0),
		})
		require.NoError(t, err)
		require.Len(t, txns, 2)
	})

	t.Run("search over category and merchant", func(t *testing.T) {
		txns, _, err := repo.List(ctx, model.TransactionFilter{Search: strPtr("mega")})
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, "Groceries", txns[0].Category)

		txns, _, err = repo.List(ctx, model.TransactionFilter{Search: strPtr("salary")})
		require.NoError(t, err)
		require.Len(t, txns, 1)
	})

	t.Run("largest within window", func(t *testing.T) {
		txns, err := repo.Largest(ctx, 2, nil, nil)
		require.NoError(t, err)
		require.Len(t, txns, 2)
		assert.InDelta(t, 1500.0, txns[0].Amount, 0.001)
		assert.InDelta(t, -9.99, txns[1].Amount, 0.001)
	})
}

func TestTransactionRepository_DeleteByAccount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)
	ctx := context.Background()

	first := seedAccount(t, db, 1)
	second := seedAccount(t, db, 2)
	now := time.Now().UTC()

	seedTransactions(t, repo, first.ID, []struct {
		amount   float64
		category string
		merchant *string
		at       time.Time
	}{
		{10, "Food", nil, now},
		{20, "Food", nil, now},
	})
	seedTransactions(t, repo, second.ID, []struct {
		amount   float64
		category string
		merchant *string
		at       time.Time
	}{
		{30, "Rent", nil, now},
	})

	removed, err := repo.DeleteByAccount(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	remaining, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), remaining)

	removed, err = repo.DeleteByAccount(ctx, first.ID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestTransactionRepository_BulkCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTransactionRepository(db.DB)
	ctx := context.Background()

	account := seedAccount(t, db, 1)
	now := time.Now().UTC()

	batch := []*model.Transaction{
		{AccountID: account.ID, Amount: 1, Category: "Transfer", Timestamp: now},
		{AccountID: account.ID, Amount: 2, Category: "Transfer", Timestamp: now},
		{AccountID: account.ID, Amount: 3, Category: "Transfer", Timestamp: now},
	}

	created, err := repo.BulkCreate(ctx, batch)
	require.NoError(t, err)
	require.Len(t, created, 3)
	for _, txn := range created {
		assert.NotZero(t, txn.ID)
	}

	count, err := repo.CountByAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
