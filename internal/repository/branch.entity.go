package repository

import (
	"github.com/avestra/bank-analytics/internal/model"
)

type BranchEntity struct {
	ID     int64   `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	Name   string  `db:"branch_name" gorm:"column:branch_name;not null;size:100"`
	Code   string  `db:"branch_code" gorm:"column:branch_code;not null;unique;size:20"`
	Region *string `db:"region"      gorm:"column:region;size:50"`
}

func (BranchEntity) TableName() string {
	return "dim_branches"
}

func toBranchEntity(m *model.Branch) *BranchEntity {
	if m == nil {
		return nil
	}
	return &BranchEntity{
		ID:     m.ID,
		Name:   m.Name,
		Code:   m.Code,
		Region: m.Region,
	}
}

func toBranchModel(e *BranchEntity) *model.Branch {
	if e == nil {
		return nil
	}
	return &model.Branch{
		ID:     e.ID,
		Name:   e.Name,
		Code:   e.Code,
		Region: e.Region,
	}
}

func toBranchModels(entities []*BranchEntity) []*model.Branch {
	if entities == nil {
		return nil
	}
	models := make([]*model.Branch, len(entities))
	for i, e := range entities {
		models[i] = toBranchModel(e)
	}
	return models
}
