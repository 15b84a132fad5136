package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/avestra/bank-analytics/internal/services"
	xhttp "github.com/avestra/bank-analytics/pkg/http"
)

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeServiceError maps service sentinels onto HTTP statuses. Anything
// unrecognized is treated as a bad request.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(ctx, 404, err.Error())
	case errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrDuplicateCode),
		errors.Is(err, services.ErrDuplicateNumber),
		errors.Is(err, services.ErrDuplicateSnapshot):
		writeError(ctx, 409, err.Error())
	case errors.Is(err, services.ErrAccountInactive):
		writeError(ctx, 422, err.Error())
	default:
		writeError(ctx, 400, err.Error())
	}
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

// pathID reads the {id} route segment.
func pathID(ctx *xhttp.RequestCtx) (int64, error) {
	s, _ := ctx.UserValue("id").(string)
	return strconv.ParseInt(s, 10, 64)
}

func parseTime(s string) (time.Time, error) {
	// Accept RFC3339 or YYYY-MM-DD
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func queryInt(ctx *xhttp.RequestCtx, key string) (int, bool) {
	if v := query(ctx, key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

func queryInt64Ptr(ctx *xhttp.RequestCtx, key string) *int64 {
	if v := query(ctx, key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return &n
		}
	}
	return nil
}

func queryFloatPtr(ctx *xhttp.RequestCtx, key string) *float64 {
	if v := query(ctx, key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &f
		}
	}
	return nil
}

func queryTimePtr(ctx *xhttp.RequestCtx, key string) *time.Time {
	if v := query(ctx, key); v != "" {
		if t, err := parseTime(v); err == nil {
			return &t
		}
	}
	return nil
}

func queryStrPtr(ctx *xhttp.RequestCtx, key string) *string {
	if v := query(ctx, key); v != "" {
		return &v
	}
	return nil
}
