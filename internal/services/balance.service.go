package services

import (
	"context"
	"time"

	"github.com/avestra/bank-analytics/internal/model"
)

type DailyBalanceRepository interface {
	List(ctx context.Context, f model.DailyBalanceFilter) ([]*model.DailyBalance, int64, error)
	GetByID(ctx context.Context, id int64) (*model.DailyBalance, error)
	GetByAccountAndDate(ctx context.Context, accountID int64, date time.Time) (*model.DailyBalance, error)
	GetByDateRange(ctx context.Context, accountID int64, start, end time.Time) ([]*model.DailyBalance, error)
	Latest(ctx context.Context, accountID int64) (*model.DailyBalance, error)
	BalancesOn(ctx context.Context, date time.Time) ([]*model.DailyBalance, error)
	Average(ctx context.Context, accountID int64, start, end time.Time) (float64, error)
	Min(ctx context.Context, accountID int64, start, end time.Time) (float64, error)
	Max(ctx context.Context, accountID int64, start, end time.Time) (float64, error)
	BelowThreshold(ctx context.Context, threshold float64, date time.Time) ([]*model.DailyBalance, error)
	Create(ctx context.Context, b *model.DailyBalance) (*model.DailyBalance, error)
	BulkCreate(ctx context.Context, balances []*model.DailyBalance) ([]*model.DailyBalance, error)
	Update(ctx context.Context, b *model.DailyBalance) (*model.DailyBalance, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteByAccountAndDateRange(ctx context.Context, accountID int64, start, end time.Time) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountByAccount(ctx context.Context, accountID int64) (int64, error)
}

type BalanceService struct {
	repo DailyBalanceRepository
	now  func() time.Time
}

func NewBalanceService(repo DailyBalanceRepository) *BalanceService {
	return &BalanceService{
		repo: repo,
		now:  time.Now,
	}
}

// Record stores one end-of-day snapshot. Each account gets at most one
// snapshot per calendar date.
func (s *BalanceService) Record(ctx context.Context, p model.DailyBalanceCreateRequest) (*model.DailyBalance, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByAccountAndDate(ctx, p.AccountID, p.Date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateSnapshot
	}

	return s.repo.Create(ctx, &model.DailyBalance{
		AccountID:     p.AccountID,
		Date:          model.DateOnly(p.Date),
		EndingBalance: p.EndingBalance,
	})
}

func (s *BalanceService) Get(ctx context.Context, id int64) (*model.DailyBalance, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *BalanceService) GetByAccountAndDate(ctx context.Context, accountID int64, date time.Time) (*model.DailyBalance, error) {
	b, err := s.repo.GetByAccountAndDate(ctx, accountID, date)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *BalanceService) List(ctx context.Context, f model.DailyBalanceFilter) ([]*model.DailyBalance, int64, error) {
	return s.repo.List(ctx, f)
}

// History returns an account's snapshots in [start, end], oldest first.
// Days without a snapshot are simply absent.
func (s *BalanceService) History(ctx context.Context, accountID int64, start, end time.Time) ([]*model.DailyBalance, error) {
	return s.repo.GetByDateRange(ctx, accountID, start, end)
}

func (s *BalanceService) Latest(ctx context.Context, accountID int64) (*model.DailyBalance, error) {
	b, err := s.repo.Latest(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *BalanceService) BalancesOn(ctx context.Context, date time.Time) ([]*model.DailyBalance, error) {
	return s.repo.BalancesOn(ctx, date)
}

func (s *BalanceService) Average(ctx context.Context, accountID int64, start, end time.Time) (float64, error) {
	return s.repo.Average(ctx, accountID, start, end)
}

func (s *BalanceService) Min(ctx context.Context, accountID int64, start, end time.Time) (float64, error) {
	return s.repo.Min(ctx, accountID, start, end)
}

func (s *BalanceService) Max(ctx context.Context, accountID int64, start, end time.Time) (float64, error) {
	return s.repo.Max(ctx, accountID, start, end)
}

func (s *BalanceService) BelowThreshold(ctx context.Context, threshold float64, date time.Time) ([]*model.DailyBalance, error) {
	return s.repo.BelowThreshold(ctx, threshold, date)
}

// Trend returns the account's snapshots over the last `days` calendar
// days ending today, oldest first. An account with no snapshots in the
// window yields an empty slice, never an error.
func (s *BalanceService) Trend(ctx context.Context, accountID int64, days int) ([]*model.DailyBalance, error) {
	start, end := s.trendWindow(days)
	balances, err := s.repo.GetByDateRange(ctx, accountID, start, end)
	if err != nil {
		return nil, err
	}
	if balances == nil {
		balances = []*model.DailyBalance{}
	}
	return balances, nil
}

// TrendLine fits a least-squares line over the same window Trend
// serves, carrying the series along for plotting.
func (s *BalanceService) TrendLine(ctx context.Context, accountID int64, days int) (*model.TrendLine, error) {
	balances, err := s.Trend(ctx, accountID, days)
	if err != nil {
		return nil, err
	}

	trend := fitTrendLine(balances)
	trend.Series = balances
	return &trend, nil
}

func (s *BalanceService) trendWindow(days int) (time.Time, time.Time) {
	if days <= 0 {
		days = 30
	}
	end := model.DateOnly(s.now())
	return end.AddDate(0, 0, -(days - 1)), end
}

// fitTrendLine computes an ordinary least-squares fit with x being the
// snapshot index in date order. Fewer than two points yields a flat line
// at the single value, or all zeros for an empty history.
func fitTrendLine(balances []*model.DailyBalance) model.TrendLine {
	n := len(balances)
	switch n {
	case 0:
		return model.TrendLine{}
	case 1:
		return model.TrendLine{Intercept: balances[0].EndingBalance, Points: 1}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, b := range balances {
		x := float64(i)
		sumX += x
		sumY += b.EndingBalance
		sumXY += x * b.EndingBalance
		sumXX += x * x
	}

	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn

	return model.TrendLine{
		Slope:     slope,
		Intercept: intercept,
		Points:    n,
	}
}

func (s *BalanceService) BulkRecord(ctx context.Context, reqs []model.DailyBalanceCreateRequest) ([]*model.DailyBalance, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	balances := make([]*model.DailyBalance, len(reqs))
	for i, p := range reqs {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		balances[i] = &model.DailyBalance{
			AccountID:     p.AccountID,
			Date:          model.DateOnly(p.Date),
			EndingBalance: p.EndingBalance,
		}
	}

	return s.repo.BulkCreate(ctx, balances)
}

func (s *BalanceService) Update(ctx context.Context, id int64, endingBalance float64) (*model.DailyBalance, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	existing.EndingBalance = endingBalance
	return s.repo.Update(ctx, existing)
}

func (s *BalanceService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *BalanceService) DeleteRange(ctx context.Context, accountID int64, start, end time.Time) (int64, error) {
	return s.repo.DeleteByAccountAndDateRange(ctx, accountID, start, end)
}

func (s *BalanceService) CountAll(ctx context.Context) (int64, error) {
	return s.repo.CountAll(ctx)
}

func (s *BalanceService) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	return s.repo.CountByAccount(ctx, accountID)
}
