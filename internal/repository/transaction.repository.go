package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/avestra/bank-analytics/internal/model"
	"github.com/avestra/bank-analytics/pkg/pg"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	*pg.DB
}

func NewTransactionRepository(db *pg.DB) *TransactionRepository {
	return &TransactionRepository{
		db,
	}
}

// List returns transactions matching the filter, newest first, plus the
// total match count before pagination.
func (r *TransactionRepository) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error) {
	q := r.Read(ctx).Model(&TransactionEntity{})

	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.Merchant != nil {
		q = q.Where("merchant_name = ?", *f.Merchant)
	}
	if f.From != nil {
		q = q.Where("timestamp >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("timestamp <= ?", *f.To)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	if f.Search != nil && *f.Search != "" {
		pattern := "%" + strings.ToLower(*f.Search) + "%"
		q = q.Where("LOWER(category) LIKE ? OR LOWER(COALESCE(merchant_name, '')) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := clampPage(f.Limit, f.Offset)

	var entities []*TransactionEntity
	err := q.Order("timestamp DESC, id DESC").Limit(limit).Offset(offset).Find(&entities).Error
	if err != nil {
		return nil, 0, err
	}

	return toTransactionModels(entities), total, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	var entity TransactionEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toTransactionModel(&entity), nil
}

// Largest returns the n biggest transactions by amount, optionally bounded
// to a time window.
func (r *TransactionRepository) Largest(ctx context.Context, n int, from, to *time.Time) ([]*model.Transaction, error) {
	if n <= 0 {
		n = 10
	}
	q := r.Read(ctx).Model(&TransactionEntity{})
	if from != nil && to != nil {
		q = q.Where("timestamp >= ? AND timestamp <= ?", *from, *to)
	}

	var entities []*TransactionEntity
	if err := q.Order("amount DESC").Limit(n).Find(&entities).Error; err != nil {
		return nil, err
	}
	return toTransactionModels(entities), nil
}

func (r *TransactionRepository) TotalByAccount(ctx context.Context, accountID int64, from, to *time.Time) (float64, error) {
	q := r.Read(ctx).Model(&TransactionEntity{}).Where("account_id = ?", accountID)
	if from != nil && to != nil {
		q = q.Where("timestamp >= ? AND timestamp <= ?", *from, *to)
	}

	var total float64
	err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

func (r *TransactionRepository) TotalByCategory(ctx context.Context, category string, from, to *time.Time) (float64, error) {
	q := r.Read(ctx).Model(&TransactionEntity{}).Where("category = ?", category)
	if from != nil && to != nil {
		q = q.Where("timestamp >= ? AND timestamp <= ?", *from, *to)
	}

	var total float64
	err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

func (r *TransactionRepository) AverageAmount(ctx context.Context, accountID *int64, from, to *time.Time) (float64, error) {
	q := r.Read(ctx).Model(&TransactionEntity{})
	if accountID != nil {
		q = q.Where("account_id = ?", *accountID)
	}
	if from != nil && to != nil {
		q = q.Where("timestamp >= ? AND timestamp <= ?", *from, *to)
	}

	var avg float64
	err := q.Select("COALESCE(AVG(amount), 0)").Scan(&avg).Error
	return avg, err
}

type categoryBreakdownRow struct {
	Category string  `gorm:"column:category"`
	Count    int64   `gorm:"column:cnt"`
	Total    float64 `gorm:"column:total"`
	Average  float64 `gorm:"column:average"`
}

// CategoryBreakdown aggregates count/sum/average per category, optionally
// bounded to one account and a time window.
func (r *TransactionRepository) CategoryBreakdown(ctx context.Context, accountID *int64, from, to *time.Time) ([]*model.CategoryBreakdown, error) {
	q := r.Read(ctx).Model(&TransactionEntity{}).
		Select("category, COUNT(id) AS cnt, COALESCE(SUM(amount), 0) AS total, COALESCE(AVG(amount), 0) AS average").
		Group("category").
		Order("category")

	if accountID != nil {
		q = q.Where("account_id = ?", *accountID)
	}
	if from != nil && to != nil {
		q = q.Where("timestamp >= ? AND timestamp <= ?", *from, *to)
	}

	var rows []*categoryBreakdownRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*model.CategoryBreakdown, len(rows))
	for i, row := range rows {
		out[i] = &model.CategoryBreakdown{
			Category: row.Category,
			Count:    row.Count,
			Total:    row.Total,
			Average:  row.Average,
		}
	}
	return out, nil
}

type merchantBreakdownRow struct {
	Merchant string  `gorm:"column:merchant_name"`
	Count    int64   `gorm:"column:cnt"`
	Total    float64 `gorm:"column:total"`
}

// MerchantBreakdown aggregates count/sum per merchant, biggest total
// first, limited to the top n. Rows without a merchant are skipped.
func (r *TransactionRepository) MerchantBreakdown(ctx context.Context, accountID *int64, from, to *time.Time, n int) ([]*model.MerchantBreakdown, error) {
	if n <= 0 {
		n = 10
	}
	q := r.Read(ctx).Model(&TransactionEntity{}).
		Select("merchant_name, COUNT(id) AS cnt, COALESCE(SUM(amount), 0) AS total").
		Where("merchant_name IS NOT NULL").
		Group("merchant_name").
		Order("total DESC").
		Limit(n)

	if accountID != nil {
		q = q.Where("account_id = ?", *accountID)
	}
	if from != nil && to != nil {
		q = q.Where("timestamp >= ? AND timestamp <= ?", *from, *to)
	}

	var rows []*merchantBreakdownRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*model.MerchantBreakdown, len(rows))
	for i, row := range rows {
		out[i] = &model.MerchantBreakdown{
			Merchant: row.Merchant,
			Count:    row.Count,
			Total:    row.Total,
		}
	}
	return out, nil
}

func (r *TransactionRepository) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	entity := toTransactionEntity(txn)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toTransactionModel(entity), nil
}

// BulkCreate inserts the batch in one statement; it commits or fails as a
// whole.
func (r *TransactionRepository) BulkCreate(ctx context.Context, txns []*model.Transaction) ([]*model.Transaction, error) {
	if len(txns) == 0 {
		return nil, nil
	}
	entities := make([]*TransactionEntity, len(txns))
	for i, t := range txns {
		entities[i] = toTransactionEntity(t)
	}

	if err := r.Write(ctx).Create(&entities).Error; err != nil {
		return nil, err
	}

	return toTransactionModels(entities), nil
}

func (r *TransactionRepository) Update(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	entity := toTransactionEntity(txn)

	if err := r.Write(ctx).Save(entity).Error; err != nil {
		return nil, err
	}

	return toTransactionModel(entity), nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.Write(ctx).Where("id = ?", id).Delete(&TransactionEntity{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteByAccount removes every transaction of one account and reports how
// many rows went away.
func (r *TransactionRepository) DeleteByAccount(ctx context.Context, accountID int64) (int64, error) {
	res := r.Write(ctx).Where("account_id = ?", accountID).Delete(&TransactionEntity{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *TransactionRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.Read(ctx).Model(&TransactionEntity{}).Count(&count).Error
	return count, err
}

func (r *TransactionRepository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	var count int64
	err := r.Read(ctx).Model(&TransactionEntity{}).
		Where("account_id = ?", accountID).
		Count(&count).Error
	return count, err
}

func (r *TransactionRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	var count int64
	err := r.Read(ctx).Model(&TransactionEntity{}).
		Where("category = ?", category).
		Count(&count).Error
	return count, err
}
