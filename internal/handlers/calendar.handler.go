package handlers

import (
	"context"
	"time"

	"github.com/avestra/bank-analytics/internal/model"
	xhttp "github.com/avestra/bank-analytics/pkg/http"
	"github.com/fasthttp/router"
)

type CalendarService interface {
	Populate(ctx context.Context, start, end time.Time) ([]*model.DateDim, error)
	List(ctx context.Context, limit, offset int) ([]*model.DateDim, error)
	Get(ctx context.Context, day time.Time) (*model.DateDim, error)
	Year(ctx context.Context, year int) ([]*model.DateDim, error)
	Quarter(ctx context.Context, year, quarter int) ([]*model.DateDim, error)
	Month(ctx context.Context, year, month int) ([]*model.DateDim, error)
	Range(ctx context.Context, start, end time.Time) ([]*model.DateDim, error)
	Weekends(ctx context.Context, start, end time.Time) ([]*model.DateDim, error)
	Weekdays(ctx context.Context, start, end time.Time) ([]*model.DateDim, error)
	DayOfWeek(ctx context.Context, dayOfWeek string, start, end time.Time) ([]*model.DateDim, error)
	CurrentMonth(ctx context.Context) ([]*model.DateDim, error)
	CurrentQuarter(ctx context.Context) ([]*model.DateDim, error)
	CurrentYear(ctx context.Context) ([]*model.DateDim, error)
	LastNDays(ctx context.Context, n int) ([]*model.DateDim, error)
	Coverage(ctx context.Context) (*time.Time, *time.Time, error)
}

type CalendarHandler struct {
	svc CalendarService
}

func RegisterCalendarRoutes(e *router.Group, h *CalendarHandler) {
	e.POST("/calendar/populate", h.Populate)
	e.GET("/calendar", h.ListDays)
	e.GET("/calendar/coverage", h.Coverage)
	e.GET("/calendar/current-month", h.CurrentMonth)
	e.GET("/calendar/current-quarter", h.CurrentQuarter)
	e.GET("/calendar/current-year", h.CurrentYear)
	e.GET("/calendar/last-n-days", h.LastNDays)
	e.GET("/calendar/day", h.GetDay)
}

func NewCalendarHandler(svc CalendarService) *CalendarHandler {
	return &CalendarHandler{
		svc: svc,
	}
}

func (h *CalendarHandler) Populate(ctx *xhttp.RequestCtx) {
	var req struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	start, err := parseTime(req.Start)
	if err != nil {
		writeError(ctx, 400, "invalid start date")
		return
	}
	end, err := parseTime(req.End)
	if err != nil {
		writeError(ctx, 400, "invalid end date")
		return
	}
	if end.Before(start) {
		writeError(ctx, 400, "end must not precede start")
		return
	}
	dims, err := h.svc.Populate(ctx, start, end)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 201, map[string]int{"populated": len(dims)})
}

// ListDays serves plain pagination plus the year/quarter/month,
// weekend, and day-of-week views, picked by query params.
func (h *CalendarHandler) ListDays(ctx *xhttp.RequestCtx) {
	if year, ok := queryInt(ctx, "year"); ok {
		var (
			items []*model.DateDim
			err   error
		)
		switch {
		case hasQuery(ctx, "quarter"):
			q, _ := queryInt(ctx, "quarter")
			items, err = h.svc.Quarter(ctx, year, q)
		case hasQuery(ctx, "month"):
			m, _ := queryInt(ctx, "month")
			items, err = h.svc.Month(ctx, year, m)
		default:
			items, err = h.svc.Year(ctx, year)
		}
		if err != nil {
			writeError(ctx, 400, err.Error())
			return
		}
		writeJSON(ctx, 200, items)
		return
	}

	if from := queryTimePtr(ctx, "from"); from != nil {
		to := queryTimePtr(ctx, "to")
		if to == nil {
			writeError(ctx, 400, "to is required with from")
			return
		}
		var (
			items []*model.DateDim
			err   error
		)
		switch {
		case query(ctx, "weekend") == "true":
			items, err = h.svc.Weekends(ctx, *from, *to)
		case query(ctx, "weekend") == "false":
			items, err = h.svc.Weekdays(ctx, *from, *to)
		case hasQuery(ctx, "day_of_week"):
			items, err = h.svc.DayOfWeek(ctx, query(ctx, "day_of_week"), *from, *to)
		default:
			items, err = h.svc.Range(ctx, *from, *to)
		}
		if err != nil {
			writeError(ctx, 400, err.Error())
			return
		}
		writeJSON(ctx, 200, items)
		return
	}

	limit, _ := queryInt(ctx, "limit")
	offset, _ := queryInt(ctx, "offset")
	items, err := h.svc.List(ctx, limit, offset)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, items)
}

func (h *CalendarHandler) GetDay(ctx *xhttp.RequestCtx) {
	date := queryTimePtr(ctx, "date")
	if date == nil {
		writeError(ctx, 400, "date is required")
		return
	}
	d, err := h.svc.Get(ctx, *date)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, d)
}

func (h *CalendarHandler) CurrentMonth(ctx *xhttp.RequestCtx) {
	items, err := h.svc.CurrentMonth(ctx)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, items)
}

func (h *CalendarHandler) CurrentQuarter(ctx *xhttp.RequestCtx) {
	items, err := h.svc.CurrentQuarter(ctx)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, items)
}

func (h *CalendarHandler) CurrentYear(ctx *xhttp.RequestCtx) {
	items, err := h.svc.CurrentYear(ctx)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, items)
}

func (h *CalendarHandler) LastNDays(ctx *xhttp.RequestCtx) {
	n := 30
	if v, ok := queryInt(ctx, "n"); ok {
		n = v
	}
	items, err := h.svc.LastNDays(ctx, n)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, items)
}

func (h *CalendarHandler) Coverage(ctx *xhttp.RequestCtx) {
	min, max, err := h.svc.Coverage(ctx)
	if err != nil {
		writeError(ctx, 400, err.Error())
		return
	}
	writeJSON(ctx, 200, map[string]*time.Time{
		"min_date": min,
		"max_date": max,
	})
}

func hasQuery(ctx *xhttp.RequestCtx, key string) bool {
	return len(ctx.QueryArgs().Peek(key)) > 0
}
