package services

import (
	"context"
	"time"

	"github.com/avestra/bank-analytics/internal/model"
)

type DateDimRepository interface {
	List(ctx context.Context, limit, offset int) ([]*model.DateDim, error)
	GetByDate(ctx context.Context, day time.Time) (*model.DateDim, error)
	GetByYear(ctx context.Context, year int) ([]*model.DateDim, error)
	GetByQuarter(ctx context.Context, year, quarter int) ([]*model.DateDim, error)
	GetByMonth(ctx context.Context, year, month int) ([]*model.DateDim, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*model.DateDim, error)
	Weekends(ctx context.Context, start, end time.Time) ([]*model.DateDim, error)
	Weekdays(ctx context.Context, start, end time.Time) ([]*model.DateDim, error)
	GetByDayOfWeek(ctx context.Context, dayOfWeek string, start, end time.Time) ([]*model.DateDim, error)
	PopulateRange(ctx context.Context, start, end time.Time) ([]*model.DateDim, error)
	Delete(ctx context.Context, day time.Time) (bool, error)
	Exists(ctx context.Context, day time.Time) (bool, error)
	MinDate(ctx context.Context) (*time.Time, error)
	MaxDate(ctx context.Context) (*time.Time, error)
}

// CalendarService serves the pre-populated date dimension used for
// report range filtering.
type CalendarService struct {
	repo DateDimRepository
	now  func() time.Time
}

func NewCalendarService(repo DateDimRepository) *CalendarService {
	return &CalendarService{
		repo: repo,
		now:  time.Now,
	}
}

// Populate fills the dimension for [start, end], one row per day.
func (s *CalendarService) Populate(ctx context.Context, start, end time.Time) ([]*model.DateDim, error) {
	return s.repo.PopulateRange(ctx, start, end)
}

func (s *CalendarService) List(ctx context.Context, limit, offset int) ([]*model.DateDim, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *CalendarService) Get(ctx context.Context, day time.Time) (*model.DateDim, error) {
	d, err := s.repo.GetByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *CalendarService) Year(ctx context.Context, year int) ([]*model.DateDim, error) {
	return s.repo.GetByYear(ctx, year)
}

func (s *CalendarService) Quarter(ctx context.Context, year, quarter int) ([]*model.DateDim, error) {
	return s.repo.GetByQuarter(ctx, year, quarter)
}

func (s *CalendarService) Month(ctx context.Context, year, month int) ([]*model.DateDim, error) {
	return s.repo.GetByMonth(ctx, year, month)
}

func (s *CalendarService) Range(ctx context.Context, start, end time.Time) ([]*model.DateDim, error) {
	return s.repo.GetByDateRange(ctx, start, end)
}

func (s *CalendarService) Weekends(ctx context.Context, start, end time.Time) ([]*model.DateDim, error) {
	return s.repo.Weekends(ctx, start, end)
}

func (s *CalendarService) Weekdays(ctx context.Context, start, end time.Time) ([]*model.DateDim, error) {
	return s.repo.Weekdays(ctx, start, end)
}

func (s *CalendarService) DayOfWeek(ctx context.Context, dayOfWeek string, start, end time.Time) ([]*model.DateDim, error) {
	return s.repo.GetByDayOfWeek(ctx, dayOfWeek, start, end)
}

// CurrentMonth returns the dimension rows for the month containing
// today.
func (s *CalendarService) CurrentMonth(ctx context.Context) ([]*model.DateDim, error) {
	today := model.DateOnly(s.now())
	return s.repo.GetByMonth(ctx, today.Year(), int(today.Month()))
}

func (s *CalendarService) CurrentQuarter(ctx context.Context) ([]*model.DateDim, error) {
	today := model.DateOnly(s.now())
	quarter := (int(today.Month())-1)/3 + 1
	return s.repo.GetByQuarter(ctx, today.Year(), quarter)
}

func (s *CalendarService) CurrentYear(ctx context.Context) ([]*model.DateDim, error) {
	today := model.DateOnly(s.now())
	return s.repo.GetByYear(ctx, today.Year())
}

// LastNDays returns the trailing n-day window ending today.
func (s *CalendarService) LastNDays(ctx context.Context, n int) ([]*model.DateDim, error) {
	if n <= 0 {
		n = 30
	}
	end := model.DateOnly(s.now())
	start := end.AddDate(0, 0, -(n - 1))
	return s.repo.GetByDateRange(ctx, start, end)
}

func (s *CalendarService) Delete(ctx context.Context, day time.Time) error {
	ok, err := s.repo.Delete(ctx, day)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *CalendarService) Exists(ctx context.Context, day time.Time) (bool, error) {
	return s.repo.Exists(ctx, day)
}

// Coverage reports the populated range, nil bounds when the dimension is
// empty.
func (s *CalendarService) Coverage(ctx context.Context) (*time.Time, *time.Time, error) {
	min, err := s.repo.MinDate(ctx)
	if err != nil {
		return nil, nil, err
	}
	max, err := s.repo.MaxDate(ctx)
	if err != nil {
		return nil, nil, err
	}
	return min, max, nil
}
