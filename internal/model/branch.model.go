package model

import (
	"errors"
	"strings"
)

type Branch struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Code   string  `json:"code"`
	Region *string `json:"region,omitempty"`
}

type BranchCreateRequest struct {
	Name   string
	Code   string
	Region *string
}

func (p BranchCreateRequest) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(p.Code) == "" {
		return errors.New("code is required")
	}
	return nil
}

type BranchFilter struct {
	Region *string
	Limit  int // default 25
	Offset int
}
