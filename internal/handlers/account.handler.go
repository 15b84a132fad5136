package handlers

import (
	"context"

	"github.com/avestra/bank-analytics/internal/model"
	xhttp "github.com/avestra/bank-analytics/pkg/http"
	"github.com/fasthttp/router"
)

type AccountService interface {
	Open(ctx context.Context, p model.AccountCreateRequest) (*model.Account, error)
	Get(ctx context.Context, id int64) (*model.Account, error)
	GetByNumber(ctx context.Context, number string) (*model.Account, error)
	List(ctx context.Context, f model.AccountFilter) ([]*model.Account, int64, error)
	Deactivate(ctx context.Context, id int64) error
	Reactivate(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error
	CountAll(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type AccountHandler struct {
	svc AccountService
}

func RegisterAccountRoutes(e *router.Group, h *AccountHandler) {
	e.POST("/accounts", h.OpenAccount)
	e.GET("/accounts", h.ListAccounts)
	e.GET("/accounts/counts", h.AccountCounts)
	e.GET("/accounts/by-number/{number}", h.GetAccountByNumber)
	e.GET("/accounts/{id}", h.GetAccount)
	e.POST("/accounts/{id}/deactivate", h.DeactivateAccount)
	e.POST("/accounts/{id}/reactivate", h.ReactivateAccount)
	e.DELETE("/accounts/{id}", h.DeleteAccount)
}

func NewAccountHandler(svc AccountService) *AccountHandler {
	return &AccountHandler{
		svc: svc,
	}
}

type openAccountRequest struct {
	CustomerID int64  `json:"customer_id"`
	BranchID   int64  `json:"branch_id"`
	Number     string `json:"number"`
	Type       string `json:"type"`
}

type accountListResponse struct {
	Items []*model.Account `json:"items"`
	Total int64            `json:"total"`
}

func (h *AccountHandler) OpenAccount(ctx *xhttp.RequestCtx) {
	var req openAccountRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	acc, err := h.svc.Open(ctx, model.AccountCreateRequest{
		CustomerID: req.CustomerID,
		BranchID:   req.BranchID,
		Number:     req.Number,
		Type:       model.AccountType(req.Type),
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, acc)
}

func (h *AccountHandler) ListAccounts(ctx *xhttp.RequestCtx) {
	var f model.AccountFilter

	f.CustomerID = queryInt64Ptr(ctx, "customer_id")
	f.BranchID = queryInt64Ptr(ctx, "branch_id")
	if v := query(ctx, "type"); v != "" {
		t := model.AccountType(v)
		f.Type = &t
	}
	if v := query(ctx, "active"); v != "" {
		active := v == "true" || v == "1"
		f.Active = &active
	}
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
	writeJSON(ctx, 200, accountListResponse{Items: items, Total: total})
}

func (h *AccountHandler) GetAccount(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	acc, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, acc)
}

func (h *AccountHandler) GetAccountByNumber(ctx *xhttp.RequestCtx) {
	number, _ := ctx.UserValue("number").(string)
	acc, err := h.svc.GetByNumber(ctx, number)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, acc)
}

func (h *AccountHandler) DeactivateAccount(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	if err := h.svc.Deactivate(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}

func (h *AccountHandler) ReactivateAccount(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	if err := h.svc.Reactivate(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}

func (h *AccountHandler) DeleteAccount(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	if err := h.svc.HardDelete(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}

func (h *AccountHandler) AccountCounts(ctx *xhttp.RequestCtx) {
	all, err := h.svc.CountAll(ctx)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	active, err := h.svc.CountActive(ctx)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, map[string]int64{
		"total":  all,
		"active": active,
	})
}
