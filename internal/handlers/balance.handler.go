package handlers

import (
	"context"
	"time"

	"github.com/avestra/bank-analytics/internal/model"
	xhttp "github.com/avestra/bank-analytics/pkg/http"
	"github.com/fasthttp/router"
)

type BalanceService interface {
	Record(ctx context.Context, p model.DailyBalanceCreateRequest) (*model.DailyBalance, error)
	BulkRecord(ctx context.Context, reqs []model.DailyBalanceCreateRequest) ([]*model.DailyBalance, error)
	Get(ctx context.Context, id int64) (*model.DailyBalance, error)
	List(ctx context.Context, f model.DailyBalanceFilter) ([]*model.DailyBalance, int64, error)
	History(ctx context.Context, accountID int64, start, end time.Time) ([]*model.DailyBalance, error)
	Latest(ctx context.Context, accountID int64) (*model.DailyBalance, error)
	BalancesOn(ctx context.Context, date time.Time) ([]*model.DailyBalance, error)
	Average(ctx context.Context, accountID int64, start, end time.Time) (float64, error)
	Min(ctx context.Context, accountID int64, start, end time.Time) (float64, error)
	Max(ctx context.Context, accountID int64, start, end time.Time) (float64, error)
	BelowThreshold(ctx context.Context, threshold float64, date time.Time) ([]*model.DailyBalance, error)
	Trend(ctx context.Context, accountID int64, days int) ([]*model.DailyBalance, error)
	TrendLine(ctx context.Context, accountID int64, days int) (*model.TrendLine, error)
	Update(ctx context.Context, id int64, endingBalance float64) (*model.DailyBalance, error)
	Delete(ctx context.Context, id int64) error
	DeleteRange(ctx context.Context, accountID int64, start, end time.Time) (int64, error)
}

type BalanceHandler struct {
	svc BalanceService
}

func RegisterBalanceRoutes(e *router.Group, h *BalanceHandler) {
	e.POST("/balances", h.RecordBalance)
	e.POST("/balances/bulk", h.BulkRecordBalances)
	e.GET("/balances", h.ListBalances)
	e.GET("/balances/on", h.BalancesOn)
	e.GET("/balances/below-threshold", h.BelowThreshold)
	e.GET("/balances/{id}", h.GetBalance)
	e.PUT("/balances/{id}", h.UpdateBalance)
	e.DELETE("/balances/{id}", h.DeleteBalance)
	e.GET("/accounts/{id}/balances", h.AccountHistory)
	e.GET("/accounts/{id}/balances/latest", h.AccountLatest)
	e.GET("/accounts/{id}/balances/stats", h.AccountStats)
	e.GET("/accounts/{id}/balances/trend", h.AccountTrend)
	e.DELETE("/accounts/{id}/balances", h.DeleteAccountHistory)
}

func NewBalanceHandler(svc BalanceService) *BalanceHandler {
	return &BalanceHandler{
		svc: svc,
	}
}

type recordBalanceRequest struct {
	AccountID     int64     `json:"account_id"`
	Date          time.Time `json:"date"`
	EndingBalance float64   `json:"ending_balance"`
}

type balanceListResponse struct {
	Items []*model.DailyBalance `json:"items"`
	Total int64                 `json:"total"`
}

// rangeParams reads the from/to window, defaulting to the trailing 30
// days when absent.
func rangeParams(ctx *xhttp.RequestCtx) (time.Time, time.Time) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -29)
	if t := queryTimePtr(ctx, "from"); t != nil {
		start = *t
	}
	if t := queryTimePtr(ctx, "to"); t != nil {
		end = *t
	}
	return start, end
}

func (h *BalanceHandler) RecordBalance(ctx *xhttp.RequestCtx) {
	var req recordBalanceRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	b, err := h.svc.Record(ctx, model.DailyBalanceCreateRequest{
		AccountID:     req.AccountID,
		Date:          req.Date,
		EndingBalance: req.EndingBalance,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, b)
}

func (h *BalanceHandler) BulkRecordBalances(ctx *xhttp.RequestCtx) {
	var reqs []recordBalanceRequest
	if err := readJSON(ctx, &reqs); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	creates := make([]model.DailyBalanceCreateRequest, len(reqs))
	for i, r := range reqs {
		creates[i] = model.DailyBalanceCreateRequest{
			AccountID:     r.AccountID,
			Date:          r.Date,
			EndingBalance: r.EndingBalance,
		}
	}
	balances, err := h.svc.BulkRecord(ctx, creates)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, balances)
}

func (h *BalanceHandler) ListBalances(ctx *xhttp.RequestCtx) {
	var f model.DailyBalanceFilter

	f.AccountID = queryInt64Ptr(ctx, "account_id")
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
	writeJSON(ctx, 200, balanceListResponse{Items: items, Total: total})
}

func (h *BalanceHandler) GetBalance(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	b, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, b)
}

func (h *BalanceHandler) UpdateBalance(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	var req struct {
		EndingBalance float64 `json:"ending_balance"`
	}
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	b, err := h.svc.Update(ctx, id, req.EndingBalance)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, b)
}

func (h *BalanceHandler) DeleteBalance(ctx *xhttp.RequestCtx) {
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

func (h *BalanceHandler) AccountHistory(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	start, end := rangeParams(ctx)
	items, err := h.svc.History(ctx, id, start, end)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, items)
}

func (h *BalanceHandler) AccountLatest(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	b, err := h.svc.Latest(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, b)
}

func (h *BalanceHandler) AccountStats(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	start, end := rangeParams(ctx)

	avg, err := h.svc.Average(ctx, id, start, end)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	min, err := h.svc.Min(ctx, id, start, end)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	max, err := h.svc.Max(ctx, id, start, end)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, map[string]float64{
		"average": avg,
		"min":     min,
		"max":     max,
	})
}

func (h *BalanceHandler) AccountTrend(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	days := 30
	if n, ok := queryInt(ctx, "days"); ok {
		days = n
	}
	// fit=false serves the bare series
	if query(ctx, "fit") == "false" {
		series, err := h.svc.Trend(ctx, id, days)
		if err != nil {
			writeError(ctx, 400, err.Error())
			return
		}
		writeJSON(ctx, 200, series)
		return
	}
	trend, err := h.svc.TrendLine(ctx, id, days)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, trend)
}

func (h *BalanceHandler) DeleteAccountHistory(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	// destructive: no implicit window
	from := queryTimePtr(ctx, "from")
	to := queryTimePtr(ctx, "to")
	if from == nil || to == nil {
		writeError(ctx, 400, "from and to are required")
		return
	}
	removed, err := h.svc.DeleteRange(ctx, id, *from, *to)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, map[string]int64{"deleted": removed})
}

func (h *BalanceHandler) BalancesOn(ctx *xhttp.RequestCtx) {
	date := queryTimePtr(ctx, "date")
	if date == nil {
		writeError(ctx, 400, "date is required")
		return
	}
	items, err := h.svc.BalancesOn(ctx, *date)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, items)
}

func (h *BalanceHandler) BelowThreshold(ctx *xhttp.RequestCtx) {
	threshold := queryFloatPtr(ctx, "threshold")
	date := queryTimePtr(ctx, "date")
	if threshold == nil || date == nil {
		writeError(ctx, 400, "threshold and date are required")
		return
	}
	items, err := h.svc.BelowThreshold(ctx, *threshold, *date)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, items)
}
