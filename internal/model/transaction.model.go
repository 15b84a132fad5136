package model

import (
	"errors"
	"strings"
	"time"
)

type Transaction struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Amount    float64   `json:"amount"` // signed: negative for spend, positive for income
	Category  string    `json:"category"`
	Merchant  *string   `json:"merchant,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type TransactionCreateRequest struct {
	AccountID int64
	Amount    float64
	Category  string
	Merchant  *string
	Timestamp *time.Time // defaults to now
}

func (p TransactionCreateRequest) Validate() error {
	if p.AccountID == 0 {
		return errors.New("account_id is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return errors.New("category is required")
	}
	return nil
}

// TransactionFilter controls transaction list queries. Results are always
// ordered newest first.
type TransactionFilter struct {
	AccountID *int64
	Category  *string
	Merchant  *string
	From      *time.Time // inclusive
	To        *time.Time // inclusive
	MinAmount *float64
	MaxAmount *float64
	Search    *string // case-insensitive substring over category and merchant
	Limit     int     // default 25
	Offset    int
}
