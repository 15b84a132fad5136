package services

import (
	"context"
	"strings"
	"time"

	"github.com/avestra/bank-analytics/internal/model"
)

type TransactionRepository interface {
	List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Transaction, error)
	Largest(ctx context.Context, n int, from, to *time.Time) ([]*model.Transaction, error)
	TotalByAccount(ctx context.Context, accountID int64, from, to *time.Time) (float64, error)
	TotalByCategory(ctx context.Context, category string, from, to *time.Time) (float64, error)
	AverageAmount(ctx context.Context, accountID *int64, from, to *time.Time) (float64, error)
	CategoryBreakdown(ctx context.Context, accountID *int64, from, to *time.Time) ([]*model.CategoryBreakdown, error)
	MerchantBreakdown(ctx context.Context, accountID *int64, from, to *time.Time, n int) ([]*model.MerchantBreakdown, error)
	Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	BulkCreate(ctx context.Context, txns []*model.Transaction) ([]*model.Transaction, error)
	Update(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteByAccount(ctx context.Context, accountID int64) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountByAccount(ctx context.Context, accountID int64) (int64, error)
	CountByCategory(ctx context.Context, category string) (int64, error)
}

// TransactionAccountRepository is the slice of the account store the
// transaction service needs to vet the target account.
type TransactionAccountRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Account, error)
}

const defaultTopMerchants = 10

type TransactionService struct {
	repo        TransactionRepository
	accountRepo TransactionAccountRepository
}

func NewTransactionService(repo TransactionRepository, accountRepo TransactionAccountRepository) *TransactionService {
	return &TransactionService{
		repo:        repo,
		accountRepo: accountRepo,
	}
}

// Record books a transaction against an existing active account. A
// missing timestamp defaults to the current time.
func (s *TransactionService) Record(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.vetAccount(ctx, p.AccountID); err != nil {
		return nil, err
	}

	ts := time.Now().UTC()
	if p.Timestamp != nil {
		ts = *p.Timestamp
	}

	return s.repo.Create(ctx, &model.Transaction{
		AccountID: p.AccountID,
		Amount:    p.Amount,
		Category:  strings.TrimSpace(p.Category),
		Merchant:  p.Merchant,
		Timestamp: ts,
	})
}

// BulkRecord books a batch in one insert. Every request is validated and
// every distinct account vetted before anything is written.
func (s *TransactionService) BulkRecord(ctx context.Context, reqs []model.TransactionCreateRequest) ([]*model.Transaction, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	vetted := make(map[int64]bool, 4)
	txns := make([]*model.Transaction, len(reqs))
	for i, p := range reqs {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if !vetted[p.AccountID] {
			if err := s.vetAccount(ctx, p.AccountID); err != nil {
				return nil, err
			}
			vetted[p.AccountID] = true
		}

		ts := time.Now().UTC()
		if p.Timestamp != nil {
			ts = *p.Timestamp
		}
		txns[i] = &model.Transaction{
			AccountID: p.AccountID,
			Amount:    p.Amount,
			Category:  strings.TrimSpace(p.Category),
			Merchant:  p.Merchant,
			Timestamp: ts,
		}
	}

	return s.repo.BulkCreate(ctx, txns)
}

func (s *TransactionService) vetAccount(ctx context.Context, id int64) error {
	acc, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if acc == nil {
		return ErrNotFound
	}
	if !acc.Active {
		return ErrAccountInactive
	}
	return nil
}

func (s *TransactionService) Get(ctx context.Context, id int64) (*model.Transaction, error) {
	txn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrNotFound
	}
	return txn, nil
}

func (s *TransactionService) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error) {
	return s.repo.List(ctx, f)
}

func (s *TransactionService) Largest(ctx context.Context, n int, from, to *time.Time) ([]*model.Transaction, error) {
	if n <= 0 {
		n = defaultTopMerchants
	}
	return s.repo.Largest(ctx, n, from, to)
}

func (s *TransactionService) TotalByAccount(ctx context.Context, accountID int64, from, to *time.Time) (float64, error) {
	return s.repo.TotalByAccount(ctx, accountID, from, to)
}

func (s *TransactionService) TotalByCategory(ctx context.Context, category string, from, to *time.Time) (float64, error) {
	return s.repo.TotalByCategory(ctx, category, from, to)
}

func (s *TransactionService) AverageAmount(ctx context.Context, accountID *int64, from, to *time.Time) (float64, error) {
	return s.repo.AverageAmount(ctx, accountID, from, to)
}

func (s *TransactionService) CategoryBreakdown(ctx context.Context, accountID *int64, from, to *time.Time) ([]*model.CategoryBreakdown, error) {
	return s.repo.CategoryBreakdown(ctx, accountID, from, to)
}

func (s *TransactionService) TopMerchants(ctx context.Context, accountID *int64, from, to *time.Time, n int) ([]*model.MerchantBreakdown, error) {
	if n <= 0 {
		n = defaultTopMerchants
	}
	return s.repo.MerchantBreakdown(ctx, accountID, from, to, n)
}

// Update rewrites the mutable fields of a booked transaction.
func (s *TransactionService) Update(ctx context.Context, id int64, p model.TransactionCreateRequest) (*model.Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	existing.Amount = p.Amount
	existing.Category = strings.TrimSpace(p.Category)
	existing.Merchant = p.Merchant
	if p.Timestamp != nil {
		existing.Timestamp = *p.Timestamp
	}

	return s.repo.Update(ctx, existing)
}

func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// DeleteByAccount purges an account's transactions and reports how many
// rows went away. Zero is not an error.
func (s *TransactionService) DeleteByAccount(ctx context.Context, accountID int64) (int64, error) {
	return s.repo.DeleteByAccount(ctx, accountID)
}

func (s *TransactionService) CountAll(ctx context.Context) (int64, error) {
	return s.repo.CountAll(ctx)
}

func (s *TransactionService) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	return s.repo.CountByAccount(ctx, accountID)
}

func (s *TransactionService) CountByCategory(ctx context.Context, category string) (int64, error) {
	return s.repo.CountByCategory(ctx, category)
}
