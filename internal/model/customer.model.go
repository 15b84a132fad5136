package model

import (
	"errors"
	"strings"
	"time"
)

const (
	CreditScoreMin = 300
	CreditScoreMax = 850
)

type Customer struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	CreditScore *int      `json:"credit_score,omitempty"`
	Segment     *string   `json:"segment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CustomerCreateRequest is the input for creating a customer.
type CustomerCreateRequest struct {
	FullName    string
	Email       string
	CreditScore *int
	Segment     *string
}

func (p CustomerCreateRequest) Validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return errors.New("full_name is required")
	}
	if !strings.Contains(p.Email, "@") {
		return errors.New("email is not valid")
	}
	if p.CreditScore != nil && (*p.CreditScore < CreditScoreMin || *p.CreditScore > CreditScoreMax) {
		return errors.New("credit_score must be between 300 and 850")
	}
	return nil
}

// CustomerFilter controls customer list queries.
type CustomerFilter struct {
	Segment  *string
	MinScore *int // inclusive
	MaxScore *int // inclusive
	Search   *string // case-insensitive substring over full_name and email
	Limit    int     // default 25
	Offset   int
}
