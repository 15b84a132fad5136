package repository

import (
	"time"

	"github.com/avestra/bank-analytics/internal/model"
)

type CustomerEntity struct {
	ID          int64     `db:"id"               gorm:"primaryKey;autoIncrement;column:id"`
	FullName    string    `db:"full_name"        gorm:"column:full_name;not null;size:255"`
	Email       string    `db:"email"            gorm:"column:email;not null;unique;size:255"`
	CreditScore *int      `db:"credit_score"     gorm:"column:credit_score"`
	Segment     *string   `db:"customer_segment" gorm:"column:customer_segment;size:50"`
	CreatedAt   time.Time `db:"created_at"       gorm:"column:created_at;autoCreateTime"`
}

func (CustomerEntity) TableName() string {
	return "dim_customers"
}

func toCustomerEntity(m *model.Customer) *CustomerEntity {
	if m == nil {
		return nil
	}
	return &CustomerEntity{
		ID:          m.ID,
		FullName:    m.FullName,
		Email:       m.Email,
		CreditScore: m.CreditScore,
		Segment:     m.Segment,
		CreatedAt:   m.CreatedAt,
	}
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:          e.ID,
		FullName:    e.FullName,
		Email:       e.Email,
		CreditScore: e.CreditScore,
		Segment:     e.Segment,
		CreatedAt:   e.CreatedAt,
	}
}

func toCustomerModels(entities []*CustomerEntity) []*model.Customer {
	if entities == nil {
		return nil
	}
	models := make([]*model.Customer, len(entities))
	for i, e := range entities {
		models[i] = toCustomerModel(e)
	}
	return models
}
