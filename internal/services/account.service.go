package services

import (
	"context"
	"strings"

	"github.com/avestra/bank-analytics/internal/model"
)

type AccountRepository interface {
	List(ctx context.Context, f model.AccountFilter) ([]*model.Account, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Account, error)
	GetByNumber(ctx context.Context, number string) (*model.Account, error)
	Create(ctx context.Context, acc *model.Account) (*model.Account, error)
	UpdateStatus(ctx context.Context, id int64, active bool) (bool, error)
	HardDelete(ctx context.Context, id int64) (bool, error)
	CountAll(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type AccountService struct {
	repo AccountRepository
}

func NewAccountService(repo AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

// Open creates an account. New accounts always start active.
func (s *AccountService) Open(ctx context.Context, p model.AccountCreateRequest) (*model.Account, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	number := strings.TrimSpace(p.Number)
	existing, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateNumber
	}

	return s.repo.Create(ctx, &model.Account{
		CustomerID: p.CustomerID,
		BranchID:   p.BranchID,
		Number:     number,
		Type:       p.Type,
		Active:     true,
	})
}

func (s *AccountService) Get(ctx context.Context, id int64) (*model.Account, error) {
	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrNotFound
	}
	return acc, nil
}

func (s *AccountService) GetByNumber(ctx context.Context, number string) (*model.Account, error) {
	acc, err := s.repo.GetByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrNotFound
	}
	return acc, nil
}

func (s *AccountService) List(ctx context.Context, f model.AccountFilter) ([]*model.Account, int64, error) {
	return s.repo.List(ctx, f)
}

// Deactivate soft-deletes an account. The row and its history stay
// queryable.
func (s *AccountService) Deactivate(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, false)
}

func (s *AccountService) Reactivate(ctx context.Context, id int64) error {
	return s.setStatus(ctx, id, true)
}

func (s *AccountService) setStatus(ctx context.Context, id int64, active bool) error {
	ok, err := s.repo.UpdateStatus(ctx, id, active)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *AccountService) HardDelete(ctx context.Context, id int64) error {
	ok, err := s.repo.HardDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *AccountService) CountAll(ctx context.Context) (int64, error) {
	return s.repo.CountAll(ctx)
}

func (s *AccountService) CountActive(ctx context.Context) (int64, error) {
	return s.repo.CountActive(ctx)
}
