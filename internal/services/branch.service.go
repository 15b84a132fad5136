package services

import (
	"context"
	"strings"

	"github.com/avestra/bank-analytics/internal/model"
)

type BranchRepository interface {
	List(ctx context.Context, f model.BranchFilter) ([]*model.Branch, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Branch, error)
	GetByCode(ctx context.Context, code string) (*model.Branch, error)
	Create(ctx context.Context, b *model.Branch) (*model.Branch, error)
	Update(ctx context.Context, b *model.Branch) (*model.Branch, error)
	Delete(ctx context.Context, id int64) (bool, error)
	AccountCounts(ctx context.Context, minAccounts int64) ([]*model.BranchAccountCount, error)
	CountAll(ctx context.Context) (int64, error)
	CountByRegion(ctx context.Context, region string) (int64, error)
	Regions(ctx context.Context) ([]string, error)
}

type BranchService struct {
	repo BranchRepository
}

func NewBranchService(repo BranchRepository) *BranchService {
	return &BranchService{repo: repo}
}

func (s *BranchService) Create(ctx context.Context, p model.BranchCreateRequest) (*model.Branch, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(p.Code))
	existing, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateCode
	}

	return s.repo.Create(ctx, &model.Branch{
		Name:   strings.TrimSpace(p.Name),
		Code:   code,
		Region: p.Region,
	})
}

func (s *BranchService) Get(ctx context.Context, id int64) (*model.Branch, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *BranchService) GetByCode(ctx context.Context, code string) (*model.Branch, error) {
	b, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *BranchService) List(ctx context.Context, f model.BranchFilter) ([]*model.Branch, int64, error) {
	return s.repo.List(ctx, f)
}

func (s *BranchService) Update(ctx context.Context, id int64, p model.BranchCreateRequest) (*model.Branch, error) {
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

	code := strings.ToUpper(strings.TrimSpace(p.Code))
	if code != existing.Code {
		other, err := s.repo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, ErrDuplicateCode
		}
	}

	existing.Name = strings.TrimSpace(p.Name)
	existing.Code = code
	existing.Region = p.Region

	return s.repo.Update(ctx, existing)
}

func (s *BranchService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *BranchService) AccountCounts(ctx context.Context, minAccounts int64) ([]*model.BranchAccountCount, error) {
	if minAccounts < 0 {
		minAccounts = 0
	}
	return s.repo.AccountCounts(ctx, minAccounts)
}

func (s *BranchService) Regions(ctx context.Context) ([]string, error) {
	return s.repo.Regions(ctx)
}

func (s *BranchService) CountAll(ctx context.Context) (int64, error) {
	return s.repo.CountAll(ctx)
}

func (s *BranchService) CountByRegion(ctx context.Context, region string) (int64, error) {
	return s.repo.CountByRegion(ctx, region)
}
