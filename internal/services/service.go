package services

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateCode     = errors.New("branch code already in use")
	ErrDuplicateNumber   = errors.New("account number already in use")
	ErrDuplicateSnapshot = errors.New("balance snapshot already recorded for this date")
	ErrAccountInactive   = errors.New("account is not active")
)
