package handlers

import (
	"context"
	"time"

	xhttp "github.com/avestra/bank-analytics/pkg/http"
	"github.com/avestra/bank-analytics/pkg/prom"
	"github.com/fasthttp/router"
)

// ReportCounters is the slice of each service the summary report needs.
type ReportCounters interface {
	CountAll(ctx context.Context) (int64, error)
}

type ReportScoreSource interface {
	AverageCreditScore(ctx context.Context) (float64, error)
}

type ReportsHandler struct {
	customers    ReportCounters
	branches     ReportCounters
	accounts     ReportCounters
	transactions ReportCounters
	balances     ReportCounters
	scores       ReportScoreSource
}

func RegisterReportRoutes(e *router.Group, h *ReportsHandler) {
	e.GET("/reports/summary", h.Summary)
}

func NewReportsHandler(customers, branches, accounts, transactions, balances ReportCounters, scores ReportScoreSource) *ReportsHandler {
	return &ReportsHandler{
		customers:    customers,
		branches:     branches,
		accounts:     accounts,
		transactions: transactions,
		balances:     balances,
		scores:       scores,
	}
}

type summaryResponse struct {
	Customers          int64   `json:"customers"`
	Branches           int64   `json:"branches"`
	Accounts           int64   `json:"accounts"`
	Transactions       int64   `json:"transactions"`
	BalanceSnapshots   int64   `json:"balance_snapshots"`
	AverageCreditScore float64 `json:"average_credit_score"`
}

func (h *ReportsHandler) Summary(ctx *xhttp.RequestCtx) {
	var (
		resp summaryResponse
		err  error
	)

	start := time.Now()
	defer func() {
		prom.AddReportQueryDuration(time.Since(start).Seconds(), "summary")
	}()

	if resp.Customers, err = h.customers.CountAll(ctx); err != nil {
		writeError(ctx, 500, err.Error())
		return
	}
	if resp.Branches, err = h.branches.CountAll(ctx); err != nil {
		writeError(ctx, 500, err.Error())
		return
	}
	if resp.Accounts, err = h.accounts.CountAll(ctx); err != nil {
		writeError(ctx, 500, err.Error())
		return
	}
	if resp.Transactions, err = h.transactions.CountAll(ctx); err != nil {
		writeError(ctx, 500, err.Error())
		return
	}
	if resp.BalanceSnapshots, err = h.balances.CountAll(ctx); err != nil {
		writeError(ctx, 500, err.Error())
		return
	}
	if resp.AverageCreditScore, err = h.scores.AverageCreditScore(ctx); err != nil {
		writeError(ctx, 500, err.Error())
		return
	}

	writeJSON(ctx, 200, resp)
}
