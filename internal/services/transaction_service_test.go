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

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Largest(ctx context.Context, n int, from, to *time.Time) ([]*model.Transaction, error) {
	args := m.Called(ctx, n, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) TotalByAccount(ctx context.Context, accountID int64, from, to *time.Time) (float64, error) {
	args := m.Called(ctx, accountID, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockTransactionRepository) TotalByCategory(ctx context.Context, category string, from, to *time.Time) (float64, error) {
	args := m.Called(ctx, category, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockTransactionRepository) AverageAmount(ctx context.Context, accountID *int64, from, to *time.Time) (float64, error) {
	args := m.Called(ctx, accountID, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockTransactionRepository) CategoryBreakdown(ctx context.Context, accountID *int64, from, to *time.Time) ([]*model.CategoryBreakdown, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CategoryBreakdown), args.Error(1)
}

func (m *MockTransactionRepository) MerchantBreakdown(ctx context.Context, accountID *int64, from, to *time.Time, n int) ([]*model.MerchantBreakdown, error) {
	args := m.Called(ctx, accountID, from, to, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MerchantBreakdown), args.Error(1)
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) BulkCreate(ctx context.Context, txns []*model.Transaction) ([]*model.Transaction, error) {
	args := m.Called(ctx, txns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Update(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) DeleteByAccount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(int64), args.Error(1)
}

type MockAccountLookup struct {
	mock.Mock
}

func (m *MockAccountLookup) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func TestTransactionService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults the timestamp", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		accounts := new(MockAccountLookup)
		service := NewTransactionService(repo, accounts)

		accounts.On("GetByID", ctx, int64(1)).
			Return(&model.Account{ID: 1, Active: true}, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(txn *model.Transaction) bool {
			return txn.AccountID == 1 && !txn.Timestamp.IsZero()
		})).Return(&model.Transaction{ID: 10, AccountID: 1, Amount: -25, Category: "Food"}, nil)

		created, err := service.Record(ctx, model.TransactionCreateRequest{
			AccountID: 1,
			Amount:    -25,
			Category:  "Food",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(10), created.ID)

		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown account", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		accounts := new(MockAccountLookup)
		service := NewTransactionService(repo, accounts)

		accounts.On("GetByID", ctx, int64(99)).Return(nil, nil)

		created, err := service.Record(ctx, model.TransactionCreateRequest{
			AccountID: 99,
			Amount:    10,
			Category:  "Food",
		})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, created)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects inactive account", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		accounts := new(MockAccountLookup)
		service := NewTransactionService(repo, accounts)

		accounts.On("GetByID", ctx, int64(2)).
			Return(&model.Account{ID: 2, Active: false}, nil)

		created, err := service.Record(ctx, model.TransactionCreateRequest{
			AccountID: 2,
			Amount:    10,
			Category:  "Food",
		})
		assert.ErrorIs(t, err, ErrAccountInactive)
		assert.Nil(t, created)
	})

	t.Run("rejects empty category", func(t *testing.T) {
		repo := new(MockTransactionRepository)
		accounts := new(MockAccountLookup)
		service := NewTransactionService(repo, accounts)

		created, err := service.Record(ctx, model.TransactionCreateRequest{
			AccountID: 1,
			Amount:    10,
			Category:  "  ",
		})
		assert.Error(t, err)
		assert.Nil(t, created)
		accounts.AssertNotCalled(t, "GetByID")
	})
}

func TestTransactionService_BulkRecord(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTransactionRepository)
	accounts := new(MockAccountLookup)
	service := NewTransactionService(repo, accounts)

	accounts.On("GetByID", ctx, int64(1)).
		Return(&model.Account{ID: 1, Active: true}, nil).Once()
	repo.On("BulkCreate", ctx, mock.MatchedBy(func(txns []*model.Transaction) bool {
		return len(txns) == 3
	})).Return([]*model.Transaction{{ID: 1}, {ID: 2}, {ID: 3}}, nil)

	now := time.Now()
	reqs := []model.TransactionCreateRequest{
		{AccountID: 1, Amount: 1, Category: "Transfer", Timestamp: &now},
		{AccountID: 1, Amount: 2, Category: "Transfer", Timestamp: &now},
		{AccountID: 1, Amount: 3, Category: "Transfer", Timestamp: &now},
	}

	created, err := service.BulkRecord(ctx, reqs)
	require.NoError(t, err)
	assert.Len(t, created, 3)

	// account vetted once despite three rows
	accounts.AssertExpectations(t)
}

func TestTransactionService_TopMerchants_DefaultsLimit(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTransactionRepository)
	accounts := new(MockAccountLookup)
	service := NewTransactionService(repo, accounts)

	repo.On("MerchantBreakdown", ctx, (*int64)(nil), (*time.Time)(nil), (*time.Time)(nil), defaultTopMerchants).
		Return([]*model.MerchantBreakdown{}, nil)

	_, err := service.TopMerchants(ctx, nil, nil, nil, 0)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}
