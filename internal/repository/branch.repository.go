package repository

import (
	"context"
	"errors"

	"github.com/avestra/bank-analytics/internal/model"
	"github.com/avestra/bank-analytics/pkg/pg"
	"gorm.io/gorm"
)

type BranchRepository struct {
	*pg.DB
}

func NewBranchRepository(db *pg.DB) *BranchRepository {
	return &BranchRepository{
		db,
	}
}

func (r *BranchRepository) List(ctx context.Context, f model.BranchFilter) ([]*model.Branch, int64, error) {
	q := r.Read(ctx).Model(&BranchEntity{})

	if f.Region != nil {
		q = q.Where("region = ?", *f.Region)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := clampPage(f.Limit, f.Offset)

	var entities []*BranchEntity
	if err := q.Order("id").Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toBranchModels(entities), total, nil
}

func (r *BranchRepository) GetByID(ctx context.Context, id int64) (*model.Branch, error) {
	var entity BranchEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toBranchModel(&entity), nil
}

func (r *BranchRepository) GetByCode(ctx context.Context, code string) (*model.Branch, error) {
	var entity BranchEntity
	err := r.Read(ctx).Where("branch_code = ?", code).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toBranchModel(&entity), nil
}

func (r *BranchRepository) Create(ctx context.Context, b *model.Branch) (*model.Branch, error) {
	entity := toBranchEntity(b)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toBranchModel(entity), nil
}

func (r *BranchRepository) Update(ctx context.Context, b *model.Branch) (*model.Branch, error) {
	entity := toBranchEntity(b)

	if err := r.Write(ctx).Save(entity).Error; err != nil {
		return nil, err
	}

	return toBranchModel(entity), nil
}

func (r *BranchRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.Write(ctx).Where("id = ?", id).Delete(&BranchEntity{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type branchAccountCountRow struct {
	ID           int64   `gorm:"column:id"`
	Name         string  `gorm:"column:branch_name"`
	Code         string  `gorm:"column:branch_code"`
	Region       *string `gorm:"column:region"`
	AccountCount int64   `gorm:"column:account_count"`
}

// AccountCounts joins branches to the number of accounts they own,
// keeping branches with at least minAccounts (zero keeps empty branches).
func (r *BranchRepository) AccountCounts(ctx context.Context, minAccounts int64) ([]*model.BranchAccountCount, error) {
	var rows []*branchAccountCountRow
	err := r.Read(ctx).
		Table("dim_branches AS b").
		Select("b.id, b.branch_name, b.branch_code, b.region, COUNT(a.id) AS account_count").
		Joins("LEFT JOIN dim_accounts AS a ON a.branch_id = b.id").
		Group("b.id, b.branch_name, b.branch_code, b.region").
		Having("COUNT(a.id) >= ?", minAccounts).
		Order("b.id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*model.BranchAccountCount, len(rows))
	for i, row := range rows {
		out[i] = &model.BranchAccountCount{
			Branch: model.Branch{
				ID:     row.ID,
				Name:   row.Name,
				Code:   row.Code,
				Region: row.Region,
			},
			AccountCount: row.AccountCount,
		}
	}
	return out, nil
}

func (r *BranchRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.Read(ctx).Model(&BranchEntity{}).Count(&count).Error
	return count, err
}

func (r *BranchRepository) CountByRegion(ctx context.Context, region string) (int64, error) {
	var count int64
	err := r.Read(ctx).Model(&BranchEntity{}).
		Where("region = ?", region).
		Count(&count).Error
	return count, err
}

// Regions returns the distinct non-null region labels.
func (r *BranchRepository) Regions(ctx context.Context) ([]string, error) {
	var regions []string
	err := r.Read(ctx).Model(&BranchEntity{}).
		Where("region IS NOT NULL").
		Distinct().
		Order("region").
		Pluck("region", &regions).Error
	return regions, err
}
