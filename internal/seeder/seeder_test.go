package seeder

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyTransactions(t *testing.T) {
	t.Run("salary credited on the first of the month", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

		txns := dailyTransactions(rng, 7, day)

		require.NotEmpty(t, txns)
		salary := txns[0]
		assert.Equal(t, "Salary", salary.Category)
		assert.GreaterOrEqual(t, salary.Amount, 2500.0)
		assert.Less(t, salary.Amount, 5000.0)
		assert.Equal(t, int64(7), salary.AccountID)
		assert.Equal(t, 9, salary.Timestamp.Hour())
	})

	t.Run("spends are negative and carry a merchant", func(t *testing.T) {
		rng := rand.New(rand.NewSource(2))
		day := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

		var spends int
		for i := 0; i < 50; i++ {
			for _, txn := range dailyTransactions(rng, 1, day.AddDate(0, 0, i)) {
				if txn.Category == "Salary" {
					continue
				}
				spends++
				assert.Negative(t, txn.Amount)
				assert.GreaterOrEqual(t, txn.Amount, -200.0)
				require.NotNil(t, txn.Merchant)
				assert.Contains(t, spendCategories, txn.Category)
				assert.True(t, txn.Timestamp.After(day), "spend must land inside the window")
			}
		}
		assert.NotZero(t, spends)
	})

	t.Run("deterministic for a fixed source", func(t *testing.T) {
		day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
		a := dailyTransactions(rand.New(rand.NewSource(42)), 3, day)
		b := dailyTransactions(rand.New(rand.NewSource(42)), 3, day)

		require.Equal(t, len(a), len(b))
		for i := range a {
			assert.Equal(t, a[i].Amount, b[i].Amount)
			assert.Equal(t, a[i].Category, b[i].Category)
		}
	})
}

func TestAccountNumber(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := accountNumber()
		assert.True(t, strings.HasPrefix(n, "ACC-"))
		assert.Len(t, n, 12)
		assert.False(t, seen[n], "numbers must not repeat")
		seen[n] = true
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	s := New(nil, Config{})
	assert.Equal(t, 5, s.cfg.Branches)
	assert.Equal(t, 50, s.cfg.Customers)
	assert.Equal(t, 30, s.cfg.Days)
	assert.Equal(t, 4, s.cfg.Workers)
}
