package handlers

import (
	"context"

	"github.com/avestra/bank-analytics/internal/model"
	xhttp "github.com/avestra/bank-analytics/pkg/http"
	"github.com/fasthttp/router"
)

type BranchService interface {
	Create(ctx context.Context, p model.BranchCreateRequest) (*model.Branch, error)
	Get(ctx context.Context, id int64) (*model.Branch, error)
	GetByCode(ctx context.Context, code string) (*model.Branch, error)
	List(ctx context.Context, f model.BranchFilter) ([]*model.Branch, int64, error)
	Update(ctx context.Context, id int64, p model.BranchCreateRequest) (*model.Branch, error)
	Delete(ctx context.Context, id int64) error
	AccountCounts(ctx context.Context, minAccounts int64) ([]*model.BranchAccountCount, error)
	Regions(ctx context.Context) ([]string, error)
}

type BranchHandler struct {
	svc BranchService
}

func RegisterBranchRoutes(e *router.Group, h *BranchHandler) {
	e.POST("/branches", h.CreateBranch)
	e.GET("/branches", h.ListBranches)
	e.GET("/branches/account-counts", h.BranchAccountCounts)
	e.GET("/branches/regions", h.Regions)
	e.GET("/branches/{id}", h.GetBranch)
	e.PUT("/branches/{id}", h.UpdateBranch)
	e.DELETE("/branches/{id}", h.DeleteBranch)
}

func NewBranchHandler(svc BranchService) *BranchHandler {
	return &BranchHandler{
		svc: svc,
	}
}

type createBranchRequest struct {
	Name   string  `json:"name"`
	Code   string  `json:"code"`
	Region *string `json:"region"`
}

type branchListResponse struct {
	Items []*model.Branch `json:"items"`
	Total int64           `json:"total"`
}

func (h *BranchHandler) CreateBranch(ctx *xhttp.RequestCtx) {
	var req createBranchRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	b, err := h.svc.Create(ctx, model.BranchCreateRequest{
		Name:   req.Name,
		Code:   req.Code,
		Region: req.Region,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, b)
}

func (h *BranchHandler) ListBranches(ctx *xhttp.RequestCtx) {
	var f model.BranchFilter

	f.Region = queryStrPtr(ctx, "region")
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
	writeJSON(ctx, 200, branchListResponse{Items: items, Total: total})
}

func (h *BranchHandler) GetBranch(ctx *xhttp.RequestCtx) {
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

func (h *BranchHandler) UpdateBranch(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	var req createBranchRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	b, err := h.svc.Update(ctx, id, model.BranchCreateRequest{
		Name:   req.Name,
		Code:   req.Code,
		Region: req.Region,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, b)
}

func (h *BranchHandler) DeleteBranch(ctx *xhttp.RequestCtx) {
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

func (h *BranchHandler) BranchAccountCounts(ctx *xhttp.RequestCtx) {
	var minAccounts int64
	if v := queryInt64Ptr(ctx, "min_accounts"); v != nil {
		minAccounts = *v
	}
	items, err := h.svc.AccountCounts(ctx, minAccounts)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, items)
}

func (h *BranchHandler) Regions(ctx *xhttp.RequestCtx) {
	regions, err := h.svc.Regions(ctx)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, regions)
}
