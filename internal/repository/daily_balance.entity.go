package repository

import (
	"time"

	"github.com/avestra/bank-analytics/internal/model"
)

// One snapshot per account per calendar day; the composite unique index
// rejects duplicate snapshots, corrections go through Update.
type DailyBalanceEntity struct {
	ID            int64          `db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	AccountID     int64          `db:"account_id"     gorm:"column:account_id;not null;uniqueIndex:idx_daily_balance_account_date"`
	Date          time.Time      `db:"balance_date"   gorm:"column:balance_date;type:date;not null;uniqueIndex:idx_daily_balance_account_date"`
	EndingBalance float64        `db:"ending_balance" gorm:"column:ending_balance;not null"`
	Account       *AccountEntity `gorm:"foreignKey:AccountID;references:ID;constraint:OnDelete:CASCADE"`
}

func (DailyBalanceEntity) TableName() string {
	return "fact_daily_balances"
}

func toDailyBalanceEntity(m *model.DailyBalance) *DailyBalanceEntity {
	if m == nil {
		return nil
	}
	return &DailyBalanceEntity{
		ID:            m.ID,
		AccountID:     m.AccountID,
		Date:          m.Date,
		EndingBalance: m.EndingBalance,
	}
}

func toDailyBalanceModel(e *DailyBalanceEntity) *model.DailyBalance {
	if e == nil {
		return nil
	}
	return &model.DailyBalance{
		ID:            e.ID,
		AccountID:     e.AccountID,
		Date:          e.Date,
		EndingBalance: e.EndingBalance,
	}
}

func toDailyBalanceModels(entities []*DailyBalanceEntity) []*model.DailyBalance {
	if entities == nil {
		return nil
	}
	models := make([]*model.DailyBalance, len(entities))
	for i, e := range entities {
		models[i] = toDailyBalanceModel(e)
	}
	return models
}
