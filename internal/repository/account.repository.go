package repository

import (
	"context"
	"errors"

	"github.com/avestra/bank-analytics/internal/model"
	"github.com/avestra/bank-analytics/pkg/pg"
	"gorm.io/gorm"
)

type AccountRepository struct {
	*pg.DB
}

func NewAccountRepository(db *pg.DB) *AccountRepository {
	return &AccountRepository{
		db,
	}
}

// List returns accounts matching the filter with their owning customer and
// branch preloaded, plus the total match count before pagination.
func (r *AccountRepository) List(ctx context.Context, f model.AccountFilter) ([]*model.Account, int64, error) {
	q := r.Read(ctx).Model(&AccountEntity{})

	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}
	if f.Type != nil {
		q = q.Where("account_type = ?", string(*f.Type))
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := clampPage(f.Limit, f.Offset)

	var entities []*AccountEntity
	err := q.Preload("Customer").Preload("Branch").
		Order("id").Limit(limit).Offset(offset).
		Find(&entities).Error
	if err != nil {
		return nil, 0, err
	}

	return toAccountModels(entities), total, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	var entity AccountEntity
	err := r.Read(ctx).
		Preload("Customer").Preload("Branch").
		Where("id = ?", id).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toAccountModel(&entity), nil
}

func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*model.Account, error) {
	var entity AccountEntity
	err := r.Read(ctx).
		Preload("Customer").Preload("Branch").
		Where("account_number = ?", number).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toAccountModel(&entity), nil
}

func (r *AccountRepository) Create(ctx context.Context, acc *model.Account) (*model.Account, error) {
	entity := toAccountEntity(acc)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toAccountModel(entity), nil
}

// UpdateStatus flips the active flag. Returns false when the id does not
// exist; no row is touched in that case.
func (r *AccountRepository) UpdateStatus(ctx context.Context, id int64, active bool) (bool, error) {
	res := r.Write(ctx).Model(&AccountEntity{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HardDelete removes the row; transactions and daily balances follow via
// the cascading foreign keys.
func (r *AccountRepository) HardDelete(ctx context.Context, id int64) (bool, error) {
	res := r.Write(ctx).Where("id = ?", id).Delete(&AccountEntity{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AccountRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.Read(ctx).Model(&AccountEntity{}).Count(&count).Error
	return count, err
}

func (r *AccountRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.Read(ctx).Model(&AccountEntity{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
