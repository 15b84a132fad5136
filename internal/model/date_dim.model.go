package model

import "time"

// DateDim is a pre-populated calendar row used for range and
// weekday/weekend filtering in reports.
type DateDim struct {
	DateKey   time.Time `json:"date_key"`
	Year      int       `json:"year"`
	Quarter   int       `json:"quarter"`
	Month     int       `json:"month"`
	DayOfWeek string    `json:"day_of_week"`
	IsWeekend bool      `json:"is_weekend"`
}

// NewDateDim derives the calendar attributes for one day.
func NewDateDim(day time.Time) *DateDim {
	day = DateOnly(day)
	wd := day.Weekday()
	return &DateDim{
		DateKey:   day,
		Year:      day.Year(),
		Quarter:   (int(day.Month())-1)/3 + 1,
		Month:     int(day.Month()),
		DayOfWeek: wd.String(),
		IsWeekend: wd == time.Saturday || wd == time.Sunday,
	}
}
