package repository

import (
	"time"

	"github.com/avestra/bank-analytics/internal/model"
)

type DateDimEntity struct {
	DateKey   time.Time `db:"date_key"    gorm:"primaryKey;column:date_key;type:date"`
	Year      int       `db:"year"        gorm:"column:year;not null"`
	Quarter   int       `db:"quarter"     gorm:"column:quarter;not null"`
	Month     int       `db:"month"       gorm:"column:month;not null"`
	DayOfWeek string    `db:"day_of_week" gorm:"column:day_of_week;not null;size:10"`
	IsWeekend bool      `db:"is_weekend"  gorm:"column:is_weekend;not null;default:false"`
}

func (DateDimEntity) TableName() string {
	return "dim_date"
}

func toDateDimEntity(m *model.DateDim) *DateDimEntity {
	if m == nil {
		return nil
	}
	return &DateDimEntity{
		DateKey:   m.DateKey,
		Year:      m.Year,
		Quarter:   m.Quarter,
		Month:     m.Month,
		DayOfWeek: m.DayOfWeek,
		IsWeekend: m.IsWeekend,
	}
}

func toDateDimModel(e *DateDimEntity) *model.DateDim {
	if e == nil {
		return nil
	}
	return &model.DateDim{
		DateKey:   e.DateKey,
		Year:      e.Year,
		Quarter:   e.Quarter,
		Month:     e.Month,
		DayOfWeek: e.DayOfWeek,
		IsWeekend: e.IsWeekend,
	}
}

func toDateDimModels(entities []*DateDimEntity) []*model.DateDim {
	if entities == nil {
		return nil
	}
	models := make([]*model.DateDim, len(entities))
	for i, e := range entities {
		models[i] = toDateDimModel(e)
	}
	return models
}
