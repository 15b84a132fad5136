package repository

import (
	"github.com/avestra/bank-analytics/internal/model"
)

type AccountEntity struct {
	ID         int64           `db:"id"             gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID int64           `db:"customer_id"    gorm:"column:customer_id;not null;index"`
	BranchID   int64           `db:"branch_id"      gorm:"column:branch_id;not null;index"`
	Number     string          `db:"account_number" gorm:"column:account_number;not null;unique;size:50"`
	Type       string          `db:"account_type"   gorm:"column:account_type;not null;size:50"`
	Active     bool            `db:"is_active"      gorm:"column:is_active;not null;default:true"`
	Customer   *CustomerEntity `gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
	Branch     *BranchEntity   `gorm:"foreignKey:BranchID;references:ID;constraint:OnDelete:CASCADE"`
}

func (AccountEntity) TableName() string {
	return "dim_accounts"
}

func toAccountEntity(m *model.Account) *AccountEntity {
	if m == nil {
		return nil
	}
	return &AccountEntity{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		BranchID:   m.BranchID,
		Number:     m.Number,
		Type:       string(m.Type),
		Active:     m.Active,
	}
}

func toAccountModel(e *AccountEntity) *model.Account {
	if e == nil {
		return nil
	}
	return &model.Account{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		BranchID:   e.BranchID,
		Number:     e.Number,
		Type:       model.AccountType(e.Type),
		Active:     e.Active,
		Customer:   toCustomerModel(e.Customer),
		Branch:     toBranchModel(e.Branch),
	}
}

func toAccountModels(entities []*AccountEntity) []*model.Account {
	if entities == nil {
		return nil
	}
	models := make([]*model.Account, len(entities))
	for i, e := range entities {
		models[i] = toAccountModel(e)
	}
	return models
}
