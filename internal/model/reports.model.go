package model

// Named report records for joined/grouped query results.

// CategoryBreakdown is the per-category transaction aggregate.
type CategoryBreakdown struct {
	Category string  `json:"category"`
	Count    int64   `json:"count"`
	Total    float64 `json:"total"`
	Average  float64 `json:"average"`
}

// MerchantBreakdown is the per-merchant transaction aggregate, ranked by
// total amount.
type MerchantBreakdown struct {
	Merchant string  `json:"merchant"`
	Count    int64   `json:"count"`
	Total    float64 `json:"total"`
}

// BranchAccountCount pairs a branch with the number of accounts it owns.
type BranchAccountCount struct {
	Branch       Branch `json:"branch"`
	AccountCount int64  `json:"account_count"`
}

// CustomerAccountCount pairs a customer with the number of accounts they own.
type CustomerAccountCount struct {
	Customer     Customer `json:"customer"`
	AccountCount int64    `json:"account_count"`
}
