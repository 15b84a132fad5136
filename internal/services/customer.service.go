package services

import (
	"context"
	"strings"

	"github.com/avestra/bank-analytics/internal/model"
)

type CustomerRepository interface {
	List(ctx context.Context, f model.CustomerFilter) ([]*model.Customer, int64, error) // results, totalCount
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)
	HighValue(ctx context.Context, minScore int) ([]*model.Customer, error)
	AccountCounts(ctx context.Context, minAccounts int64) ([]*model.CustomerAccountCount, error)
	Create(ctx context.Context, c *model.Customer) (*model.Customer, error)
	Update(ctx context.Context, c *model.Customer) (*model.Customer, error)
	Delete(ctx context.Context, id int64) (bool, error)
	CountAll(ctx context.Context) (int64, error)
	CountBySegment(ctx context.Context, segment string) (int64, error)
	Segments(ctx context.Context) ([]string, error)
	AverageCreditScore(ctx context.Context) (float64, error)
}

type CustomerService struct {
	repo CustomerRepository
}

func NewCustomerService(repo CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

func (s *CustomerService) Create(ctx context.Context, p model.CustomerCreateRequest) (*model.Customer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(p.Email))
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	return s.repo.Create(ctx, &model.Customer{
		FullName:    strings.TrimSpace(p.FullName),
		Email:       email,
		CreditScore: p.CreditScore,
		Segment:     p.Segment,
	})
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *CustomerService) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	c, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *CustomerService) List(ctx context.Context, f model.CustomerFilter) ([]*model.Customer, int64, error) {
	return s.repo.List(ctx, f)
}

// Update replaces the mutable fields of an existing customer. The email
// stays unique across the table.
func (s *CustomerService) Update(ctx context.Context, id int64, p model.CustomerCreateRequest) (*model.Customer, error) {
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

	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email != existing.Email {
		other, err := s.repo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, ErrDuplicateEmail
		}
	}

	existing.FullName = strings.TrimSpace(p.FullName)
	existing.Email = email
	existing.CreditScore = p.CreditScore
	existing.Segment = p.Segment

	return s.repo.Update(ctx, existing)
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// HighValue returns customers at or above minScore, best score first.
func (s *CustomerService) HighValue(ctx context.Context, minScore int) ([]*model.Customer, error) {
	return s.repo.HighValue(ctx, minScore)
}

func (s *CustomerService) AccountCounts(ctx context.Context, minAccounts int64) ([]*model.CustomerAccountCount, error) {
	if minAccounts < 0 {
		minAccounts = 0
	}
	return s.repo.AccountCounts(ctx, minAccounts)
}

func (s *CustomerService) Segments(ctx context.Context) ([]string, error) {
	return s.repo.Segments(ctx)
}

func (s *CustomerService) CountAll(ctx context.Context) (int64, error) {
	return s.repo.CountAll(ctx)
}

func (s *CustomerService) CountBySegment(ctx context.Context, segment string) (int64, error) {
	return s.repo.CountBySegment(ctx, segment)
}

func (s *CustomerService) AverageCreditScore(ctx context.Context) (float64, error) {
	return s.repo.AverageCreditScore(ctx)
}
