package repository

import (
	"time"

	"github.com/avestra/bank-analytics/internal/model"
)

type TransactionEntity struct {
	ID        int64          `db:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	AccountID int64          `db:"account_id"    gorm:"column:account_id;not null;index"`
	Amount    float64        `db:"amount"        gorm:"column:amount;not null"`
	Category  string         `db:"category"      gorm:"column:category;not null;size:100"`
	Merchant  *string        `db:"merchant_name" gorm:"column:merchant_name;size:255"`
	Timestamp time.Time      `db:"timestamp"     gorm:"column:timestamp;autoCreateTime;index"`
	Account   *AccountEntity `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

func (TransactionEntity) TableName() string {
	return "fact_transactions"
}

func toTransactionEntity(m *model.Transaction) *TransactionEntity {
	if m == nil {
		return nil
	}
	return &TransactionEntity{
		ID:        m.ID,
		AccountID: m.AccountID,
		Amount:    m.Amount,
		Category:  m.Category,
		Merchant:  m.Merchant,
		Timestamp: m.Timestamp,
	}
}

func toTransactionModel(e *TransactionEntity) *model.Transaction {
	if e == nil {
		return nil
	}
	return &model.Transaction{
		ID:        e.ID,
		AccountID: e.AccountID,
		Amount:    e.Amount,
		Category:  e.Category,
		Merchant:  e.Merchant,
		Timestamp: e.Timestamp,
	}
}

func toTransactionModels(entities []*TransactionEntity) []*model.Transaction {
	if entities == nil {
		return nil
	}
	models := make([]*model.Transaction, len(entities))
	for i, e := range entities {
		models[i] = toTransactionModel(e)
	}
	return models
}
