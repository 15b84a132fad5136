package model

import (
	"errors"
	"strings"
)

// AccountType is the product class of an account.
type AccountType string

const (
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeChecking AccountType = "CHECKING"
)

func (t AccountType) Valid() bool {
	return t == AccountTypeSavings || t == AccountTypeChecking
}

type Account struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customer_id"`
	BranchID   int64       `json:"branch_id"`
	Number     string      `json:"number"`
	Type       AccountType `json:"type"`
	Active     bool        `json:"active"`
	Customer   *Customer   `json:"customer,omitempty"`
	Branch     *Branch     `json:"branch,omitempty"`
}

// AccountCreateRequest is the input for opening an account. Foreign keys
// are not pre-validated; a bad customer or branch id surfaces as a
// constraint error from storage.
type AccountCreateRequest struct {
	CustomerID int64
	BranchID   int64
	Number     string
	Type       AccountType
}

func (p AccountCreateRequest) Validate() error {
	if p.CustomerID == 0 {
		return errors.New("customer_id is required")
	}
	if p.BranchID == 0 {
		return errors.New("branch_id is required")
	}
	if strings.TrimSpace(p.Number) == "" {
		return errors.New("number is required")
	}
	if !p.Type.Valid() {
		return errors.New("type must be SAVINGS or CHECKING")
	}
	return nil
}

// AccountFilter controls account list queries.
type AccountFilter struct {
	CustomerID *int64
	BranchID   *int64
	Type       *AccountType
	Active     *bool
	Limit      int // default 25
	Offset     int
}
