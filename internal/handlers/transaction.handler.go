package handlers

import (
	"context"
	"time"

	"github.com/avestra/bank-analytics/internal/model"
	xhttp "github.com/avestra/bank-analytics/pkg/http"
	"github.com/fasthttp/router"
)

type TransactionService interface {
	Record(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error)
	BulkRecord(ctx context.Context, reqs []model.TransactionCreateRequest) ([]*model.Transaction, error)
	Get(ctx context.Context, id int64) (*model.Transaction, error)
	List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error)
	Largest(ctx context.Context, n int, from, to *time.Time) ([]*model.Transaction, error)
	TotalByAccount(ctx context.Context, accountID int64, from, to *time.Time) (float64, error)
	AverageAmount(ctx context.Context, accountID *int64, from, to *time.Time) (float64, error)
	CategoryBreakdown(ctx context.Context, accountID *int64, from, to *time.Time) ([]*model.CategoryBreakdown, error)
	TopMerchants(ctx context.Context, accountID *int64, from, to *time.Time, n int) ([]*model.MerchantBreakdown, error)
	Update(ctx context.Context, id int64, p model.TransactionCreateRequest) (*model.Transaction, error)
	Delete(ctx context.Context, id int64) error
	DeleteByAccount(ctx context.Context, accountID int64) (int64, error)
}

type TransactionHandler struct {
	svc TransactionService
}

func RegisterTransactionRoutes(e *router.Group, h *TransactionHandler) {
	e.POST("/transactions", h.RecordTransaction)
	e.POST("/transactions/bulk", h.BulkRecordTransactions)
	e.GET("/transactions", h.ListTransactions)
	e.GET("/transactions/largest", h.LargestTransactions)
	e.GET("/transactions/category-breakdown", h.CategoryBreakdown)
	e.GET("/transactions/top-merchants", h.TopMerchants)
	e.GET("/transactions/{id}", h.GetTransaction)
	e.PUT("/transactions/{id}", h.UpdateTransaction)
	e.DELETE("/transactions/{id}", h.DeleteTransaction)
	e.DELETE("/accounts/{id}/transactions", h.DeleteAccountTransactions)
	e.GET("/accounts/{id}/transactions/total", h.AccountTotal)
}

func NewTransactionHandler(svc TransactionService) *TransactionHandler {
	return &TransactionHandler{
		svc: svc,
	}
}

type recordTransactionRequest struct {
	AccountID int64      `json:"account_id"`
	Amount    float64    `json:"amount"`
	Category  string     `json:"category"`
	Merchant  *string    `json:"merchant"`
	Timestamp *time.Time `json:"timestamp"`
}

func (r recordTransactionRequest) toCreateRequest() model.TransactionCreateRequest {
	return model.TransactionCreateRequest{
		AccountID: r.AccountID,
		Amount:    r.Amount,
		Category:  r.Category,
		Merchant:  r.Merchant,
		Timestamp: r.Timestamp,
	}
}

type transactionListResponse struct {
	Items []*model.Transaction `json:"items"`
	Total int64                `json:"total"`
}

func (h *TransactionHandler) RecordTransaction(ctx *xhttp.RequestCtx) {
	var req recordTransactionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	txn, err := h.svc.Record(ctx, req.toCreateRequest())
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, txn)
}

func (h *TransactionHandler) BulkRecordTransactions(ctx *xhttp.RequestCtx) {
	var reqs []recordTransactionRequest
	if err := readJSON(ctx, &reqs); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	creates := make([]model.TransactionCreateRequest, len(reqs))
	for i, r := range reqs {
		creates[i] = r.toCreateRequest()
	}
	txns, err := h.svc.BulkRecord(ctx, creates)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, txns)
}

func (h *TransactionHandler) ListTransactions(ctx *xhttp.RequestCtx) {
	var f model.TransactionFilter

	f.AccountID = queryInt64Ptr(ctx, "account_id")
	f.Category = queryStrPtr(ctx, "category")
	f.Merchant = queryStrPtr(ctx, "merchant")
	f.Search = queryStrPtr(ctx, "search")
	f.From = queryTimePtr(ctx, "from")
	f.To = queryTimePtr(ctx, "to")
	// days=N is a shortcut for from=now-N days
	if d, ok := queryInt(ctx, "days"); ok && d > 0 && f.From == nil {
		from := time.Now().UTC().AddDate(0, 0, -d)
		f.From = &from
	}
	f.MinAmount = queryFloatPtr(ctx, "min_amount")
	f.MaxAmount = queryFloatPtr(ctx, "max_amount")
	if n, ok := queryInt(ctx, "limit"); ok {
		f.Limit = n
	}
	if n, ok := queryInt(ctx, "offset"); ok {
		f.Offset = n
	}

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, transactionListResponse{Items: items, Total: total})
}

func (h *TransactionHandler) GetTransaction(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	txn, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, txn)
}

func (h *TransactionHandler) UpdateTransaction(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	var req recordTransactionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	txn, err := h.svc.Update(ctx, id, req.toCreateRequest())
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, txn)
}

func (h *TransactionHandler) DeleteTransaction(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}

func (h *TransactionHandler) DeleteAccountTransactions(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	removed, err := h.svc.DeleteByAccount(ctx, id)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, map[string]int64{"deleted": removed})
}

func (h *TransactionHandler) LargestTransactions(ctx *xhttp.RequestCtx) {
	n := 10
	if v, ok := queryInt(ctx, "n"); ok {
		n = v
	}
	items, err := h.svc.Largest(ctx, n, queryTimePtr(ctx, "from"), queryTimePtr(ctx, "to"))
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, items)
}

func (h *TransactionHandler) CategoryBreakdown(ctx *xhttp.RequestCtx) {
	items, err := h.svc.CategoryBreakdown(ctx,
		queryInt64Ptr(ctx, "account_id"),
		queryTimePtr(ctx, "from"),
		queryTimePtr(ctx, "to"))
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, items)
}

func (h *TransactionHandler) TopMerchants(ctx *xhttp.RequestCtx) {
	n := 0
	if v, ok := queryInt(ctx, "n"); ok {
		n = v
	}
	items, err := h.svc.TopMerchants(ctx,
		queryInt64Ptr(ctx, "account_id"),
		queryTimePtr(ctx, "from"),
		queryTimePtr(ctx, "to"),
		n)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, items)
}

func (h *TransactionHandler) AccountTotal(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	total, err := h.svc.TotalByAccount(ctx, id, queryTimePtr(ctx, "from"), queryTimePtr(ctx, "to"))
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	avg, err := h.svc.AverageAmount(ctx, &id, queryTimePtr(ctx, "from"), queryTimePtr(ctx, "to"))
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, map[string]float64{
		"total":   total,
		"average": avg,
	})
}
