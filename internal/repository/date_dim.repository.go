package repository

import (
	"context"
	"errors"
	"time"

	"github.com/avestra/bank-analytics/internal/model"
	"github.com/avestra/bank-analytics/pkg/pg"
	"gorm.io/gorm"
)

type DateDimRepository struct {
	*pg.DB
}

func NewDateDimRepository(db *pg.DB) *DateDimRepository {
	return &DateDimRepository{
		db,
	}
}

func (r *DateDimRepository) List(ctx context.Context, limit, offset int) ([]*model.DateDim, error) {
	limit, offset = clampPage(limit, offset)

	var entities []*DateDimEntity
	err := r.Read(ctx).
		Order("date_key ASC").
		Limit(limit).Offset(offset).
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toDateDimModels(entities), nil
}

func (r *DateDimRepository) GetByDate(ctx context.Context, day time.Time) (*model.DateDim, error) {
	var entity DateDimEntity
	err := r.Read(ctx).Where("date_key = ?", model.DateOnly(day)).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDateDimModel(&entity), nil
}

func (r *DateDimRepository) GetByYear(ctx context.Context, year int) ([]*model.DateDim, error) {
	return r.find(ctx, "year = ?", year)
}

func (r *DateDimRepository) GetByQuarter(ctx context.Context, year, quarter int) ([]*model.DateDim, error) {
	return r.find(ctx, "year = ? AND quarter = ?", year, quarter)
}

func (r *DateDimRepository) GetByMonth(ctx context.Context, year, month int) ([]*model.DateDim, error) {
	return r.find(ctx, "year = ? AND month = ?", year, month)
}

func (r *DateDimRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*model.DateDim, error) {
	return r.find(ctx, "date_key >= ? AND date_key <= ?", model.DateOnly(start), model.DateOnly(end))
}

func (r *DateDimRepository) Weekends(ctx context.Context, start, end time.Time) ([]*model.DateDim, error) {
	return r.find(ctx, "date_key >= ? AND date_key <= ? AND is_weekend = ?",
		model.DateOnly(start), model.DateOnly(end), true)
}

func (r *DateDimRepository) Weekdays(ctx context.Context, start, end time.Time) ([]*model.DateDim, error) {
	return r.find(ctx, "date_key >= ? AND date_key <= ? AND is_weekend = ?",
		model.DateOnly(start), model.DateOnly(end), false)
}

func (r *DateDimRepository) GetByDayOfWeek(ctx context.Context, dayOfWeek string, start, end time.Time) ([]*model.DateDim, error) {
	return r.find(ctx, "date_key >= ? AND date_key <= ? AND day_of_week = ?",
		model.DateOnly(start), model.DateOnly(end), dayOfWeek)
}

func (r *DateDimRepository) find(ctx context.Context, cond string, args ...any) ([]*model.DateDim, error) {
	var entities []*DateDimEntity
	err := r.Read(ctx).
		Where(cond, args...).
		Order("date_key ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toDateDimModels(entities), nil
}

func (r *DateDimRepository) Create(ctx context.Context, d *model.DateDim) (*model.DateDim, error) {
	entity := toDateDimEntity(d)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toDateDimModel(entity), nil
}

func (r *DateDimRepository) BulkCreate(ctx context.Context, dims []*model.DateDim) ([]*model.DateDim, error) {
	if len(dims) == 0 {
		return nil, nil
	}
	entities := make([]*DateDimEntity, len(dims))
	for i, d := range dims {
		entities[i] = toDateDimEntity(d)
	}

	if err := r.Write(ctx).Create(&entities).Error; err != nil {
		return nil, err
	}

	return toDateDimModels(entities), nil
}

// PopulateRange inserts one row per calendar day in [start, end] with the
// derived attributes computed at insert time.
func (r *DateDimRepository) PopulateRange(ctx context.Context, start, end time.Time) ([]*model.DateDim, error) {
	var dims []*model.DateDim
	for day := model.DateOnly(start); !day.After(model.DateOnly(end)); day = day.AddDate(0, 0, 1) {
		dims = append(dims, model.NewDateDim(day))
	}
	return r.BulkCreate(ctx, dims)
}

func (r *DateDimRepository) Delete(ctx context.Context, day time.Time) (bool, error) {
	res := r.Write(ctx).Where("date_key = ?", model.DateOnly(day)).Delete(&DateDimEntity{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DateDimRepository) Exists(ctx context.Context, day time.Time) (bool, error) {
	var count int64
	err := r.Read(ctx).Model(&DateDimEntity{}).
		Where("date_key = ?", model.DateOnly(day)).
		Count(&count).Error
	return count > 0, err
}

func (r *DateDimRepository) MinDate(ctx context.Context) (*time.Time, error) {
	return r.boundary(ctx, "date_key ASC")
}

func (r *DateDimRepository) MaxDate(ctx context.Context) (*time.Time, error) {
	return r.boundary(ctx, "date_key DESC")
}

func (r *DateDimRepository) boundary(ctx context.Context, order string) (*time.Time, error) {
	var entity DateDimEntity
	err := r.Read(ctx).Order(order).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entity.DateKey, nil
}
