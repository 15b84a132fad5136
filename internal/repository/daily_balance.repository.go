package repository

import (
	"context"
	"errors"
	"time"

	"github.com/avestra/bank-analytics/internal/model"
	"github.com/avestra/bank-analytics/pkg/pg"
	"gorm.io/gorm"
)

type DailyBalanceRepository struct {
	*pg.DB
}

func NewDailyBalanceRepository(db *pg.DB) *DailyBalanceRepository {
	return &DailyBalanceRepository{
		db,
	}
}

// List returns snapshots newest date first, plus the total match count
// before pagination.
func (r *DailyBalanceRepository) List(ctx context.Context, f model.DailyBalanceFilter) ([]*model.DailyBalance, int64, error) {
	q := r.Read(ctx).Model(&DailyBalanceEntity{})

	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := clampPage(f.Limit, f.Offset)

	var entities []*DailyBalanceEntity
	err := q.Order("balance_date DESC, id DESC").Limit(limit).Offset(offset).Find(&entities).Error
	if err != nil {
		return nil, 0, err
	}

	return toDailyBalanceModels(entities), total, nil
}

func (r *DailyBalanceRepository) GetByID(ctx context.Context, id int64) (*model.DailyBalance, error) {
	var entity DailyBalanceEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDailyBalanceModel(&entity), nil
}

func (r *DailyBalanceRepository) GetByAccountAndDate(ctx context.Context, accountID int64, date time.Time) (*model.DailyBalance, error) {
	var entity DailyBalanceEntity
	err := r.Read(ctx).
		Where("account_id = ? AND balance_date = ?", accountID, model.DateOnly(date)).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDailyBalanceModel(&entity), nil
}

// GetByDateRange returns one account's snapshots within [start, end] in
// ascending date order. Missing calendar days simply do not appear.
func (r *DailyBalanceRepository) GetByDateRange(ctx context.Context, accountID int64, start, end time.Time) ([]*model.DailyBalance, error) {
	var entities []*DailyBalanceEntity
	err := r.Read(ctx).
		Where("account_id = ? AND balance_date >= ? AND balance_date <= ?",
			accountID, model.DateOnly(start), model.DateOnly(end)).
		Order("balance_date ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toDailyBalanceModels(entities), nil
}

func (r *DailyBalanceRepository) Latest(ctx context.Context, accountID int64) (*model.DailyBalance, error) {
	var entity DailyBalanceEntity
	err := r.Read(ctx).
		Where("account_id = ?", accountID).
		Order("balance_date DESC").
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDailyBalanceModel(&entity), nil
}

// BalancesOn returns every account's snapshot for one date.
func (r *DailyBalanceRepository) BalancesOn(ctx context.Context, date time.Time) ([]*model.DailyBalance, error) {
	var entities []*DailyBalanceEntity
	err := r.Read(ctx).
		Where("balance_date = ?", model.DateOnly(date)).
		Order("account_id").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toDailyBalanceModels(entities), nil
}

func (r *DailyBalanceRepository) Average(ctx context.Context, accountID int64, start, end time.Time) (float64, error) {
	return r.rangeAggregate(ctx, "AVG", accountID, start, end)
}

func (r *DailyBalanceRepository) Min(ctx context.Context, accountID int64, start, end time.Time) (float64, error) {
	return r.rangeAggregate(ctx, "MIN", accountID, start, end)
}

func (r *DailyBalanceRepository) Max(ctx context.Context, accountID int64, start, end time.Time) (float64, error) {
	return r.rangeAggregate(ctx, "MAX", accountID, start, end)
}

func (r *DailyBalanceRepository) rangeAggregate(ctx context.Context, fn string, accountID int64, start, end time.Time) (float64, error) {
	var value float64
	err := r.Read(ctx).Model(&DailyBalanceEntity{}).
		Select("COALESCE("+fn+"(ending_balance), 0)").
		Where("account_id = ? AND balance_date >= ? AND balance_date <= ?",
			accountID, model.DateOnly(start), model.DateOnly(end)).
		Scan(&value).Error
	return value, err
}

// BelowThreshold scans all accounts for snapshots under the threshold on
// one date.
func (r *DailyBalanceRepository) BelowThreshold(ctx context.Context, threshold float64, date time.Time) ([]*model.DailyBalance, error) {
	var entities []*DailyBalanceEntity
	err := r.Read(ctx).
		Where("balance_date = ? AND ending_balance < ?", model.DateOnly(date), threshold).
		Order("account_id").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toDailyBalanceModels(entities), nil
}

func (r *DailyBalanceRepository) Create(ctx context.Context, b *model.DailyBalance) (*model.DailyBalance, error) {
	entity := toDailyBalanceEntity(b)
	entity.Date = model.DateOnly(entity.Date)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toDailyBalanceModel(entity), nil
}

func (r *DailyBalanceRepository) BulkCreate(ctx context.Context, balances []*model.DailyBalance) ([]*model.DailyBalance, error) {
	if len(balances) == 0 {
		return nil, nil
	}
	entities := make([]*DailyBalanceEntity, len(balances))
	for i, b := range balances {
		entities[i] = toDailyBalanceEntity(b)
		entities[i].Date = model.DateOnly(entities[i].Date)
	}

	if err := r.Write(ctx).Create(&entities).Error; err != nil {
		return nil, err
	}

	return toDailyBalanceModels(entities), nil
}

func (r *DailyBalanceRepository) Update(ctx context.Context, b *model.DailyBalance) (*model.DailyBalance, error) {
	entity := toDailyBalanceEntity(b)
	entity.Date = model.DateOnly(entity.Date)

	if err := r.Write(ctx).Save(entity).Error; err != nil {
		return nil, err
	}

	return toDailyBalanceModel(entity), nil
}

func (r *DailyBalanceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.Write(ctx).Where("id = ?", id).Delete(&DailyBalanceEntity{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DailyBalanceRepository) DeleteByAccountAndDateRange(ctx context.Context, accountID int64, start, end time.Time) (int64, error) {
	res := r.Write(ctx).
		Where("account_id = ? AND balance_date >= ? AND balance_date <= ?",
			accountID, model.DateOnly(start), model.DateOnly(end)).
		Delete(&DailyBalanceEntity{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *DailyBalanceRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.Read(ctx).Model(&DailyBalanceEntity{}).Count(&count).Error
	return count, err
}

func (r *DailyBalanceRepository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	var count int64
	err := r.Read(ctx).Model(&DailyBalanceEntity{}).
		Where("account_id = ?", accountID).
		Count(&count).Error
	return count, err
}
