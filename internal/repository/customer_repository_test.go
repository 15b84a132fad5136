package repository

import (
	"context"
	"testing"

	"github.com/avestra/bank-analytics/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }
func int64Ptr(v int64) *int64     { return &v }
func floatPtr(v float64) *float64 { return &v }

func seedCustomers(t *testing.T, repo *CustomerRepository) []*model.Customer {
	t.Helper()
	ctx := context.Background()

	specs := []struct {
		name    string
		email   string
		score   *int
		segment *string
	}{
		{"Ada Lovelace", "ada@example.com", intPtr(800), strPtr("Wealth Management")},
		{"Bob Martin", "bob@example.com", intPtr(650), strPtr("Retail")},
		{"Carol Jones", "carol@work.net", intPtr(500), strPtr("Retail")},
		{"Dan NoScore", "dan@example.com", nil, nil},
	}

	out := make([]*model.Customer, 0, len(specs))
	for _, s := range specs {
		c, err := repo.Create(ctx, &model.Customer{
			FullName:    s.name,
			Email:       s.email,
			CreditScore: s.score,
			Segment:     s.segment,
		})
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func TestCustomerRepository_CreditScoreRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db.DB)
	ctx := context.Background()

	seedCustomers(t, repo)

	t.Run("inclusive range returns exactly the matching customers", func(t *testing.T) {
		customers, total, err := repo.List(ctx, model.CustomerFilter{
			MinScore: intPtr(500),
			MaxScore: intPtr(650),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		emails := make([]string, 0, len(customers))
		for _, c := range customers {
			emails = append(emails, c.Email)
		}
		assert.ElementsMatch(t, []string{"bob@example.com", "carol@work.net"}, emails)
	})

	t.Run("boundary values are included", func(t *testing.T) {
		customers, _, err := repo.List(ctx, model.CustomerFilter{
			MinScore: intPtr(800),
			MaxScore: intPtr(800),
		})
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, "ada@example.com", customers[0].Email)
	})

	t.Run("null scores never match a range", func(t *testing.T) {
		_, total, err := repo.List(ctx, model.CustomerFilter{
			MinScore: intPtr(model.CreditScoreMin),
			MaxScore: intPtr(model.CreditScoreMax),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})
}

func TestCustomerRepository_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db.DB)
	ctx := context.Background()

	seedCustomers(t, repo)

	t.Run("matches name case-insensitively", func(t *testing.T) {
		customers, _, err := repo.List(ctx, model.CustomerFilter{Search: strPtr("ADA")})
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, "Ada Lovelace", customers[0].FullName)
	})

	t.Run("matches email substring", func(t *testing.T) {
		customers, _, err := repo.List(ctx, model.CustomerFilter{Search: strPtr("work.net")})
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, "Carol Jones", customers[0].FullName)
	})

	t.Run("no match returns empty", func(t *testing.T) {
		customers, total, err := repo.List(ctx, model.CustomerFilter{Search: strPtr("zzz")})
		require.NoError(t, err)
		assert.Empty(t, customers)
		assert.Zero(t, total)
	})
}

func TestCustomerRepository_Aggregates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db.DB)
	ctx := context.Background()

	t.Run("average credit score over no rows is zero", func(t *testing.T) {
		avg, err := repo.AverageCreditScore(ctx)
		require.NoError(t, err)
		assert.Zero(t, avg)
	})

	seedCustomers(t, repo)

	t.Run("average ignores null scores", func(t *testing.T) {
		avg, err := repo.AverageCreditScore(ctx)
		require.NoError(t, err)
		assert.InDelta(t, (800.0+650.0+500.0)/3.0, avg, 0.001)
	})

	t.Run("high value ordered by score descending", func(t *testing.T) {
		customers, err := repo.HighValue(ctx, 600)
		require.NoError(t, err)
		require.Len(t, customers, 2)
		assert.Equal(t, "ada@example.com", customers[0].Email)
		assert.Equal(t, "bob@example.com", customers[1].Email)
	})

	t.Run("segments are distinct and non-null", func(t *testing.T) {
		segments, err := repo.Segments(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Retail", "Wealth Management"}, segments)
	})

	t.Run("count by segment", func(t *testing.T) {
		count, err := repo.CountBySegment(ctx, "Retail")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestCustomerRepository_AccountCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db.DB)
	ctx := context.Background()

	customers := seedCustomers(t, repo)

	branch := &BranchEntity{Name: "HQ", Code: "BR-0001"}
	require.NoError(t, db.rawDB.Create(branch).Error)

	for i := 0; i < 2; i++ {
		acc := &AccountEntity{
			CustomerID: customers[0].ID,
			BranchID:   branch.ID,
			Number:     uniqueNumber(int64(i)),
			Type:       "CHECKING",
			Active:     true,
		}
		require.NoError(t, db.rawDB.Create(acc).Error)
	}

	t.Run("left join keeps accountless customers at min zero", func(t *testing.T) {
		counts, err := repo.AccountCounts(ctx, 0)
		require.NoError(t, err)
		require.Len(t, counts, len(customers))
		assert.Equal(t, int64(2), counts[0].AccountCount)
		assert.Equal(t, int64(0), counts[1].AccountCount)
	})

	t.Run("minimum filter drops accountless customers", func(t *testing.T) {
		counts, err := repo.AccountCounts(ctx, 1)
		require.NoError(t, err)
		require.Len(t, counts, 1)
		assert.Equal(t, customers[0].ID, counts[0].Customer.ID)
	})
}

func TestCustomerRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCustomerRepository(db.DB)
	ctx := context.Background()

	customers := seedCustomers(t, repo)

	ok, err := repo.Delete(ctx, customers[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, customers[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err = repo.Delete(ctx, customers[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
