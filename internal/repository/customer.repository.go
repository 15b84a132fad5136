package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/avestra/bank-analytics/internal/model"
	"github.com/avestra/bank-analytics/pkg/pg"
	"gorm.io/gorm"
)

type CustomerRepository struct {
	*pg.DB
}

func NewCustomerRepository(db *pg.DB) *CustomerRepository {
	return &CustomerRepository{
		db,
	}
}

func (r *CustomerRepository) List(ctx context.Context, f model.CustomerFilter) ([]*model.Customer, int64, error) {
	q := r.Read(ctx).Model(&CustomerEntity{})

	if f.Segment != nil {
		q = q.Where("customer_segment = ?", *f.Segment)
	}
	if f.MinScore != nil {
		q = q.Where("credit_score >= ?", *f.MinScore)
	}
	if f.MaxScore != nil {
		q = q.Where("credit_score <= ?", *f.MaxScore)
	}
	if f.Search != nil && *f.Search != "" {
		// LOWER+LIKE instead of ILIKE so the query runs on sqlite too
		pattern := "%" + strings.ToLower(*f.Search) + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := clampPage(f.Limit, f.Offset)

	var entities []*CustomerEntity
	if err := q.Order("id").Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toCustomerModels(entities), total, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).Where("email = ?", email).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

// HighValue returns customers at or above the credit-score threshold,
// best score first.
func (r *CustomerRepository) HighValue(ctx context.Context, minScore int) ([]*model.Customer, error) {
	var entities []*CustomerEntity
	err := r.Read(ctx).
		Where("credit_score >= ?", minScore).
		Order("credit_score DESC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toCustomerModels(entities), nil
}

type customerAccountCountRow struct {
	ID           int64   `gorm:"column:id"`
	FullName     string  `gorm:"column:full_name"`
	Email        string  `gorm:"column:email"`
	CreditScore  *int    `gorm:"column:credit_score"`
	Segment      *string `gorm:"column:customer_segment"`
	AccountCount int64   `gorm:"column:account_count"`
}

func (r *CustomerRepository) AccountCounts(ctx context.Context, minAccounts int64) ([]*model.CustomerAccountCount, error) {
	var rows []*customerAccountCountRow
	err := r.Read(ctx).
		Table("dim_customers AS c").
		Select("c.id, c.full_name, c.email, c.credit_score, c.customer_segment, COUNT(a.id) AS account_count").
		Joins("LEFT JOIN dim_accounts AS a ON a.customer_id = c.id").
		Group("c.id, c.full_name, c.email, c.credit_score, c.customer_segment").
		Having("COUNT(a.id) >= ?", minAccounts).
		Order("c.id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*model.CustomerAccountCount, len(rows))
	for i, row := range rows {
		out[i] = &model.CustomerAccountCount{
			Customer: model.Customer{
				ID:          row.ID,
				FullName:    row.FullName,
				Email:       row.Email,
				CreditScore: row.CreditScore,
				Segment:     row.Segment,
			},
			AccountCount: row.AccountCount,
		}
	}
	return out, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	entity := toCustomerEntity(c)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toCustomerModel(entity), nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	entity := toCustomerEntity(c)

	if err := r.Write(ctx).Save(entity).Error; err != nil {
		return nil, err
	}

	return toCustomerModel(entity), nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.Write(ctx).Where("id = ?", id).Delete(&CustomerEntity{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CustomerRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.Read(ctx).Model(&CustomerEntity{}).Count(&count).Error
	return count, err
}

func (r *CustomerRepository) CountBySegment(ctx context.Context, segment string) (int64, error) {
	var count int64
	err := r.Read(ctx).Model(&CustomerEntity{}).
		Where("customer_segment = ?", segment).
		Count(&count).Error
	return count, err
}

func (r *CustomerRepository) Segments(ctx context.Context) ([]string, error) {
	var segments []string
	err := r.Read(ctx).Model(&CustomerEntity{}).
		Where("customer_segment IS NOT NULL").
		Distinct().
		Order("customer_segment").
		Pluck("customer_segment", &segments).Error
	return segments, err
}

// AverageCreditScore is the mean over all customers with a score; zero
// when there are none.
func (r *CustomerRepository) AverageCreditScore(ctx context.Context) (float64, error) {
	var avg float64
	err := r.Read(ctx).Model(&CustomerEntity{}).
		Select("COALESCE(AVG(credit_score), 0)").
		Scan(&avg).Error
	return avg, err
}
