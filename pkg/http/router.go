package xhttp

import (
	"github.com/fasthttp/router"
)

type Router = router.Router

// NewRouter returns a new Router
func NewRouter() *Router {
	return router.New()
}

// CreateDefaultRouter returns a new router with the default handlers
// NotFoundHandler
// MethodNotAllowedHandler
func CreateDefaultRouter() *Router {
	r := NewRouter()
	r.RedirectFixedPath = true
	r.RedirectTrailingSlash = true
	r.SaveMatchedRoutePath = true
	r.NotFound = NotFoundHandler
	r.MethodNotAllowed = MethodNotAllowedHandler
	r.HandleOPTIONS = false
	r.HandleMethodNotAllowed = true
	return r
}

// NotFoundHandler is the default 404 handler. The API speaks JSON, so
// the fallback responses do too.
func NotFoundHandler(ctx *RequestCtx) {
	ctx.SetStatusCode(StatusNotFound)
	ctx.SetContentType("application/json")
	ctx.SetBodyString(`{"error":"not found"}`)
}

// MethodNotAllowedHandler is the default 405 handler.
func MethodNotAllowedHandler(ctx *RequestCtx) {
	ctx.SetStatusCode(StatusMethodNotAllowed)
	ctx.SetContentType("application/json")
	ctx.SetBodyString(`{"error":"method not allowed"}`)
}
