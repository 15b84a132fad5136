package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/avestra/bank-analytics/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) Record(ctx context.Context, p model.DailyBalanceCreateRequest) (*model.DailyBalance, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyBalance), args.Error(1)
}

func (m *MockBalanceService) BulkRecord(ctx context.Context, reqs []model.DailyBalanceCreateRequest) ([]*model.DailyBalance, error) {
	args := m.Called(ctx, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DailyBalance), args.Error(1)
}

func (m *MockBalanceService) Get(ctx context.Context, id int64) (*model.DailyBalance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyBalance), args.Error(1)
}

func (m *MockBalanceService) List(ctx context.Context, f model.DailyBalanceFilter) ([]*model.DailyBalance, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.DailyBalance), args.Get(1).(int64), args.Error(2)
}

func (m *MockBalanceService) History(ctx context.Context, accountID int64, start, end time.Time) ([]*model.DailyBalance, error) {
	args := m.Called(ctx, accountID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DailyBalance), args.Error(1)
}

func (m *MockBalanceService) Latest(ctx context.Context, accountID int64) (*model.DailyBalance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyBalance), args.Error(1)
}

func (m *MockBalanceService) BalancesOn(ctx context.Context, date time.Time) ([]*model.DailyBalance, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DailyBalance), args.Error(1)
}

func (m *MockBalanceService) Average(ctx context.Context, accountID int64, start, end time.Time) (float64, error) {
	args := m.Called(ctx, accountID, start, end)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockBalanceService) Min(ctx context.Context, accountID int64, start, end time.Time) (float64, error) {
	args := m.Called(ctx, accountID, start, end)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockBalanceService) Max(ctx context.Context, accountID int64, start, end time.Time) (float64, error) {
	args := m.Called(ctx, accountID, start, end)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockBalanceService) BelowThreshold(ctx context.Context, threshold float64, date time.Time) ([]*model.DailyBalance, error) {
	args := m.Called(ctx, threshold, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DailyBalance), args.Error(1)
}

func (m *MockBalanceService) Trend(ctx context.Context, accountID int64, days int) ([]*model.DailyBalance, error) {
	args := m.Called(ctx, accountID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DailyBalance), args.Error(1)
}

func (m *MockBalanceService) TrendLine(ctx context.Context, accountID int64, days int) (*model.TrendLine, error) {
	args := m.Called(ctx, accountID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrendLine), args.Error(1)
}

func (m *MockBalanceService) Update(ctx context.Context, id int64, endingBalance float64) (*model.DailyBalance, error) {
	args := m.Called(ctx, id, endingBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyBalance), args.Error(1)
}

func (m *MockBalanceService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBalanceService) DeleteRange(ctx context.Context, accountID int64, start, end time.Time) (int64, error) {
	args := m.Called(ctx, accountID, start, end)
	return args.Get(0).(int64), args.Error(1)
}

func TestBalanceHandler_DeleteAccountHistory(t *testing.T) {
	t.Run("refuses to delete without an explicit window", func(t *testing.T) {
		svc := new(MockBalanceService)
		handler := NewBalanceHandler(svc)

		ctx := setupTestContext("DELETE", "/api/v1/accounts/1/balances", nil)
		ctx.SetUserValue("id", "1")
		handler.DeleteAccountHistory(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "DeleteRange")
	})

	t.Run("refuses a half-open window", func(t *testing.T) {
		svc := new(MockBalanceService)
		handler := NewBalanceHandler(svc)

		ctx := setupTestContext("DELETE", "/api/v1/accounts/1/balances?from=2025-03-01", nil)
		ctx.SetUserValue("id", "1")
		handler.DeleteAccountHistory(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "DeleteRange")
	})

	t.Run("deletes inside the given window", func(t *testing.T) {
		svc := new(MockBalanceService)
		handler := NewBalanceHandler(svc)

		from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
		svc.On("DeleteRange", mock.Anything, int64(1), from, to).Return(int64(3), nil)

		ctx := setupTestContext("DELETE", "/api/v1/accounts/1/balances?from=2025-03-01&to=2025-03-07", nil)
		ctx.SetUserValue("id", "1")
		handler.DeleteAccountHistory(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response map[string]int64
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, int64(3), response["deleted"])

		svc.AssertExpectations(t)
	})
}

func TestBalanceHandler_AccountTrend(t *testing.T) {
	t.Run("serves the fit with its series", func(t *testing.T) {
		svc := new(MockBalanceService)
		handler := NewBalanceHandler(svc)

		day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		svc.On("TrendLine", mock.Anything, int64(1), 7).Return(&model.TrendLine{
			Slope:     10,
			Intercept: 100,
			Points:    2,
			Series: []*model.DailyBalance{
				{AccountID: 1, Date: day, EndingBalance: 100},
				{AccountID: 1, Date: day.AddDate(0, 0, 1), EndingBalance: 110},
			},
		}, nil)

		ctx := setupTestContext("GET", "/api/v1/accounts/1/balances/trend?days=7", nil)
		ctx.SetUserValue("id", "1")
		handler.AccountTrend(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response model.TrendLine
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, 2, response.Points)
		require.Len(t, response.Series, 2)
		assert.InDelta(t, 110.0, response.Series[1].EndingBalance, 0.001)
	})

	t.Run("fit=false serves the bare series", func(t *testing.T) {
		svc := new(MockBalanceService)
		handler := NewBalanceHandler(svc)

		svc.On("Trend", mock.Anything, int64(1), 30).Return([]*model.DailyBalance{}, nil)

		ctx := setupTestContext("GET", "/api/v1/accounts/1/balances/trend?fit=false", nil)
		ctx.SetUserValue("id", "1")
		handler.AccountTrend(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		assert.Equal(t, "[]", string(ctx.Response.Body()))
		svc.AssertNotCalled(t, "TrendLine")
	})
}
