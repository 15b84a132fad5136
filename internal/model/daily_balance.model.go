package model

import (
	"errors"
	"time"
)

// DailyBalance is one recorded ending balance for one account on one
// calendar date. One row per (account, date) is enforced in storage.
type DailyBalance struct {
	ID            int64     `json:"id"`
	AccountID     int64     `json:"account_id"`
	Date          time.Time `json:"date"`
	EndingBalance float64   `json:"ending_balance"`
}

type DailyBalanceCreateRequest struct {
	AccountID     int64
	Date          time.Time
	EndingBalance float64
}

func (p DailyBalanceCreateRequest) Validate() error {
	if p.AccountID == 0 {
		return errors.New("account_id is required")
	}
	if p.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

type DailyBalanceFilter struct {
	AccountID *int64
	Limit     int // default 25
	Offset    int
}

// TrendLine is a least-squares linear fit over a balance history, with x
// being the day index of each snapshot in range order. Series carries
// the fitted snapshots so consumers can plot the line over the data.
type TrendLine struct {
	Slope     float64         `json:"slope"`
	Intercept float64         `json:"intercept"`
	Points    int             `json:"points"`
	Series    []*DailyBalance `json:"series"`
}

// DateOnly truncates t to midnight UTC so calendar-date equality behaves
// the same on postgres and sqlite.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
