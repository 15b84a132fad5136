package services

import (
	"context"
	"testing"
	"time"

	"github.com/avestra/bank-analytics/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDailyBalanceRepository struct {
	mock.Mock
}

func (m *MockDailyBalanceRepository) List(ctx context.Context, f model.DailyBalanceFilter) ([]*model.DailyBalance, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.DailyBalance), args.Get(1).(int64), args.Error(2)
}

func (m *MockDailyBalanceRepository) GetByID(ctx context.Context, id int64) (*model.DailyBalance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyBalance), args.Error(1)
}

func (m *MockDailyBalanceRepository) GetByAccountAndDate(ctx context.Context, accountID int64, date time.Time) (*model.DailyBalance, error) {
	args := m.Called(ctx, accountID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyBalance), args.Error(1)
}

func (m *MockDailyBalanceRepository) GetByDateRange(ctx context.Context, accountID int64, start, end time.Time) ([]*model.DailyBalance, error) {
	args := m.Called(ctx, accountID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DailyBalance), args.Error(1)
}

func (m *MockDailyBalanceRepository) Latest(ctx context.Context, accountID int64) (*model.DailyBalance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyBalance), args.Error(1)
}

func (m *MockDailyBalanceRepository) BalancesOn(ctx context.Context, date time.Time) ([]*model.DailyBalance, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DailyBalance), args.Error(1)
}

func (m *MockDailyBalanceRepository) Average(ctx context.Context, accountID int64, start, end time.Time) (float64, error) {
	args := m.Called(ctx, accountID, start, end)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockDailyBalanceRepository) Min(ctx context.Context, accountID int64, start, end time.Time) (float64, error) {
	args := m.Called(ctx, accountID, start, end)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockDailyBalanceRepository) Max(ctx context.Context, accountID int64, start, end time.Time) (float64, error) {
	args := m.Called(ctx, accountID, start, end)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockDailyBalanceRepository) BelowThreshold(ctx context.Context, threshold float64, date time.Time) ([]*model.DailyBalance, error) {
	args := m.Called(ctx, threshold, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DailyBalance), args.Error(1)
}

func (m *MockDailyBalanceRepository) Create(ctx context.Context, b *model.DailyBalance) (*model.DailyBalance, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyBalance), args.Error(1)
}

func (m *MockDailyBalanceRepository) BulkCreate(ctx context.Context, balances []*model.DailyBalance) ([]*model.DailyBalance, error) {
	args := m.Called(ctx, balances)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DailyBalance), args.Error(1)
}

func (m *MockDailyBalanceRepository) Update(ctx context.Context, b *model.DailyBalance) (*model.DailyBalance, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyBalance), args.Error(1)
}

func (m *MockDailyBalanceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDailyBalanceRepository) DeleteByAccountAndDateRange(ctx context.Context, accountID int64, start, end time.Time) (int64, error) {
	args := m.Called(ctx, accountID, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDailyBalanceRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDailyBalanceRepository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func TestBalanceService_Record(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("stores a fresh snapshot", func(t *testing.T) {
		repo := new(MockDailyBalanceRepository)
		service := NewBalanceService(repo)

		repo.On("GetByAccountAndDate", ctx, int64(1), day).Return(nil, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(b *model.DailyBalance) bool {
			return b.AccountID == 1 && b.Date.Equal(day)
		})).Return(&model.DailyBalance{ID: 5, AccountID: 1, Date: day, EndingBalance: 100}, nil)

		created, err := service.Record(ctx, model.DailyBalanceCreateRequest{
			AccountID:     1,
			Date:          day,
			EndingBalance: 100,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), created.ID)
	})

	t.Run("rejects a second snapshot for the same date", func(t *testing.T) {
		repo := new(MockDailyBalanceRepository)
		service := NewBalanceService(repo)

		repo.On("GetByAccountAndDate", ctx, int64(1), day).
			Return(&model.DailyBalance{ID: 5, AccountID: 1, Date: day}, nil)

		created, err := service.Record(ctx, model.DailyBalanceCreateRequest{
			AccountID:     1,
			Date:          day,
			EndingBalance: 200,
		})
		assert.ErrorIs(t, err, ErrDuplicateSnapshot)
		assert.Nil(t, created)
		repo.AssertNotCalled(t, "Create")
	})
}

func TestBalanceService_Trend(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("returns the windowed series oldest first", func(t *testing.T) {
		repo := new(MockDailyBalanceRepository)
		service := NewBalanceService(repo)
		service.now = func() time.Time { return today }

		start := today.AddDate(0, 0, -6)
		balances := make([]*model.DailyBalance, 7)
		for i := range balances {
			balances[i] = &model.DailyBalance{
				AccountID:     1,
				Date:          start.AddDate(0, 0, i),
				EndingBalance: 100 + 10*float64(i),
			}
		}
		repo.On("GetByDateRange", ctx, int64(1), start, today).Return(balances, nil)

		series, err := service.Trend(ctx, 1, 7)
		require.NoError(t, err)
		require.Len(t, series, 7)
		assert.Equal(t, start, series[0].Date)
		assert.Equal(t, today, series[6].Date)
	})

	t.Run("no snapshots yields an empty series, not an error", func(t *testing.T) {
		repo := new(MockDailyBalanceRepository)
		service := NewBalanceService(repo)
		service.now = func() time.Time { return today }

		repo.On("GetByDateRange", ctx, int64(1), mock.Anything, mock.Anything).Return(nil, nil)

		series, err := service.Trend(ctx, 1, 7)
		require.NoError(t, err)
		assert.NotNil(t, series)
		assert.Empty(t, series)
	})
}

func TestBalanceService_TrendLine(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("fits the windowed series and carries it along", func(t *testing.T) {
		repo := new(MockDailyBalanceRepository)
		service := NewBalanceService(repo)
		service.now = func() time.Time { return today }

		start := today.AddDate(0, 0, -6)
		balances := make([]*model.DailyBalance, 7)
		for i := range balances {
			balances[i] = &model.DailyBalance{
				AccountID:     1,
				Date:          start.AddDate(0, 0, i),
				EndingBalance: 100 + 10*float64(i),
			}
		}
		repo.On("GetByDateRange", ctx, int64(1), start, today).Return(balances, nil)

		trend, err := service.TrendLine(ctx, 1, 7)
		require.NoError(t, err)
		assert.InDelta(t, 10.0, trend.Slope, 0.001)
		assert.InDelta(t, 100.0, trend.Intercept, 0.001)
		assert.Equal(t, 7, trend.Points)
		assert.Len(t, trend.Series, 7)

		repo.AssertExpectations(t)
	})

	t.Run("empty history fits to zeros with an empty series", func(t *testing.T) {
		repo := new(MockDailyBalanceRepository)
		service := NewBalanceService(repo)
		service.now = func() time.Time { return today }

		repo.On("GetByDateRange", ctx, int64(1), mock.Anything, mock.Anything).Return(nil, nil)

		trend, err := service.TrendLine(ctx, 1, 30)
		require.NoError(t, err)
		assert.Zero(t, trend.Slope)
		assert.Zero(t, trend.Intercept)
		assert.Zero(t, trend.Points)
		assert.NotNil(t, trend.Series)
		assert.Empty(t, trend.Series)
	})
}

func TestFitTrendLine(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("empty history", func(t *testing.T) {
		trend := fitTrendLine(nil)
		assert.Zero(t, trend.Slope)
		assert.Zero(t, trend.Intercept)
		assert.Zero(t, trend.Points)
	})

	t.Run("single point is a flat line at the value", func(t *testing.T) {
		trend := fitTrendLine([]*model.DailyBalance{
			{Date: day, EndingBalance: 250},
		})
		assert.Zero(t, trend.Slope)
		assert.InDelta(t, 250.0, trend.Intercept, 0.001)
		assert.Equal(t, 1, trend.Points)
	})

	t.Run("declining series has negative slope", func(t *testing.T) {
		trend := fitTrendLine([]*model.DailyBalance{
			{Date: day, EndingBalance: 300},
			{Date: day.AddDate(0, 0, 1), EndingBalance: 280},
			{Date: day.AddDate(0, 0, 2), EndingBalance: 260},
			{Date: day.AddDate(0, 0, 3), EndingBalance: 240},
		})
		assert.InDelta(t, -20.0, trend.Slope, 0.001)
		assert.InDelta(t, 300.0, trend.Intercept, 0.001)
		assert.Equal(t, 4, trend.Points)
	})

	t.Run("noisy series still fits", func(t *testing.T) {
		trend := fitTrendLine([]*model.DailyBalance{
			{Date: day, EndingBalance: 100},
			{Date: day.AddDate(0, 0, 1), EndingBalance: 140},
			{Date: day.AddDate(0, 0, 2), EndingBalance: 120},
		})
		assert.InDelta(t, 10.0, trend.Slope, 0.001)
		assert.Equal(t, 3, trend.Points)
	})
}

func TestBalanceService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockDailyBalanceRepository)
	service := NewBalanceService(repo)

	repo.On("GetByID", ctx, int64(9)).Return(nil, nil)

	updated, err := service.Update(ctx, 9, 500)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, updated)
}
