package handlers

import (
	"context"

	"github.com/avestra/bank-analytics/internal/model"
	xhttp "github.com/avestra/bank-analytics/pkg/http"
	"github.com/fasthttp/router"
)

type CustomerService interface {
	Create(ctx context.Context, p model.CustomerCreateRequest) (*model.Customer, error)
	Get(ctx context.Context, id int64) (*model.Customer, error)
	List(ctx context.Context, f model.CustomerFilter) ([]*model.Customer, int64, error)
	Update(ctx context.Context, id int64, p model.CustomerCreateRequest) (*model.Customer, error)
	Delete(ctx context.Context, id int64) error
	HighValue(ctx context.Context, minScore int) ([]*model.Customer, error)
	AccountCounts(ctx context.Context, minAccounts int64) ([]*model.CustomerAccountCount, error)
	Segments(ctx context.Context) ([]string, error)
	AverageCreditScore(ctx context.Context) (float64, error)
}

type CustomerHandler struct {
	svc CustomerService
}

func RegisterCustomerRoutes(e *router.Group, h *CustomerHandler) {
	e.POST("/customers", h.CreateCustomer)
	e.GET("/customers", h.ListCustomers)
	e.GET("/customers/high-value", h.HighValueCustomers)
	e.GET("/customers/account-counts", h.CustomerAccountCounts)
	e.GET("/customers/segments", h.Segments)
	e.GET("/customers/{id}", h.GetCustomer)
	e.PUT("/customers/{id}", h.UpdateCustomer)
	e.DELETE("/customers/{id}", h.DeleteCustomer)
}

func NewCustomerHandler(svc CustomerService) *CustomerHandler {
	return &CustomerHandler{
		svc: svc,
	}
}

type createCustomerRequest struct {
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	CreditScore *int    `json:"credit_score"`
	Segment     *string `json:"segment"`
}

type customerListResponse struct {
	Items []*model.Customer `json:"items"`
	Total int64             `json:"total"`
}

func (h *CustomerHandler) CreateCustomer(ctx *xhttp.RequestCtx) {
	var req createCustomerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	c, err := h.svc.Create(ctx, model.CustomerCreateRequest{
		FullName:    req.FullName,
		Email:       req.Email,
		CreditScore: req.CreditScore,
		Segment:     req.Segment,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, c)
}

func (h *CustomerHandler) ListCustomers(ctx *xhttp.RequestCtx) {
	var f model.CustomerFilter

	f.Segment = queryStrPtr(ctx, "segment")
	f.Search = queryStrPtr(ctx, "search")
	if n, ok := queryInt(ctx, "min_score"); ok {
		f.MinScore = &n
	}
	if n, ok := queryInt(ctx, "max_score"); ok {
		f.MaxScore = &n
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
	writeJSON(ctx, 200, customerListResponse{Items: items, Total: total})
}

func (h *CustomerHandler) GetCustomer(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	c, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, c)
}

func (h *CustomerHandler) UpdateCustomer(ctx *xhttp.RequestCtx) {
	id, err := pathID(ctx)
	if err != nil {
		writeError(ctx, 400, "invalid id")
		return
	}
	var req createCustomerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	c, err := h.svc.Update(ctx, id, model.CustomerCreateRequest{
		FullName:    req.FullName,
		Email:       req.Email,
		CreditScore: req.CreditScore,
		Segment:     req.Segment,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, c)
}

func (h *CustomerHandler) DeleteCustomer(ctx *xhttp.RequestCtx) {
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

func (h *CustomerHandler) HighValueCustomers(ctx *xhttp.RequestCtx) {
	minScore := 700
	if n, ok := queryInt(ctx, "min_score"); ok {
		minScore = n
	}
	items, err := h.svc.HighValue(ctx, minScore)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, items)
}

func (h *CustomerHandler) CustomerAccountCounts(ctx *xhttp.RequestCtx) {
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

func (h *CustomerHandler) Segments(ctx *xhttp.RequestCtx) {
	segments, err := h.svc.Segments(ctx)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	avg, err := h.svc.AverageCreditScore(ctx)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, map[string]any{
		"segments":             segments,
		"average_credit_score": avg,
	})
}
