package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// APIClient talks to the analytics API and relays its JSON payloads.
type APIClient struct {
	baseURL    string
	instanceID string
	http       *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		instanceID: "DASHBOARD_" + uuid.New().String()[:8],
		http:       &http.Client{Timeout: timeout},
	}
}

// fetch performs a GET against the analytics API and decodes the body.
func (c *APIClient) fetch(ctx context.Context, path string) (json.RawMessage, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// Handler exposes the dashboard endpoints.
type Handler struct {
	client *APIClient
}

func NewHandler(client *APIClient) *Handler {
	return &Handler{client: client}
}

// relay forwards one API path, preserving the upstream status code.
func (h *Handler) relay(c *gin.Context, path string) {
	body, status, err := h.client.fetch(c.Request.Context(), path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Upstream request failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "analytics API unreachable",
			"details": err.Error(),
		})
		return
	}
	c.Data(status, "application/json", body)
}

func (h *Handler) Summary(c *gin.Context) {
	h.relay(c, "/api/v1/reports/summary")
}

func (h *Handler) CategoryBreakdown(c *gin.Context) {
	h.relay(c, "/api/v1/transactions/category-breakdown"+rangeQuery(c))
}

func (h *Handler) TopMerchants(c *gin.Context) {
	h.relay(c, "/api/v1/transactions/top-merchants"+rangeQuery(c))
}

func (h *Handler) BranchAccountCounts(c *gin.Context) {
	h.relay(c, "/api/v1/branches/account-counts")
}

func (h *Handler) BalanceTrend(c *gin.Context) {
	accountID := c.Param("account_id")
	path := fmt.Sprintf("/api/v1/accounts/%s/balances/trend", accountID)
	if days := c.Query("days"); days != "" {
		path += "?days=" + days
	}
	h.relay(c, path)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	_, status, err := h.client.fetch(c.Request.Context(), "/api/v1/health")
	if err != nil || status != http.StatusOK {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":      "degraded",
			"instance_id": h.client.instanceID,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"instance_id": h.client.instanceID,
		"timestamp":   time.Now(),
	})
}

// Index serves the single-page dashboard shell. The page pulls its data
// from the relay endpoints above.
func (h *Handler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

// rangeQuery carries the optional from/to window through to the API.
func rangeQuery(c *gin.Context) string {
	q := ""
	if from := c.Query("from"); from != "" {
		q += "from=" + from
	}
	if to := c.Query("to"); to != "" {
		if q != "" {
			q += "&"
		}
		q += "to=" + to
	}
	if q != "" {
		return "?" + q
	}
	return ""
}

// SetupRouter configures all routes
func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request processed")
	})

	router.GET("/", handler.Index)
	router.GET("/health", handler.HealthCheck)

	d := router.Group("/dashboard")
	{
		d.GET("/summary", handler.Summary)
		d.GET("/category-breakdown", handler.CategoryBreakdown)
		d.GET("/top-merchants", handler.TopMerchants)
		d.GET("/branch-account-counts", handler.BranchAccountCounts)
		d.GET("/accounts/:account_id/balance-trend", handler.BalanceTrend)
	}

	return router
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Bank Analytics Dashboard</title>
  <style>
    body { font-family: sans-serif; margin: 2rem; background: #f5f6fa; }
    h1 { color: #2f3640; }
    section { background: #fff; border-radius: 6px; padding: 1rem; margin-bottom: 1rem; }
    pre { background: #2f3640; color: #dcdde1; padding: 1rem; overflow-x: auto; }
  </style>
</head>
<body>
  <h1>Bank Analytics</h1>
  <section><h2>Summary</h2><pre id="summary">loading...</pre></section>
  <section><h2>Spending by Category</h2><pre id="categories">loading...</pre></section>
  <section><h2>Top Merchants</h2><pre id="merchants">loading...</pre></section>
  <section><h2>Accounts per Branch</h2><pre id="branches">loading...</pre></section>
  <section>
    <h2>Balance Trend</h2>
    <label>Account ID <input id="trend-account" type="number" value="1" min="1"></label>
    <button id="trend-load">Load</button>
    <pre id="trend">pick an account and load</pre>
  </section>
  <script>
    const panels = {
      summary: '/dashboard/summary',
      categories: '/dashboard/category-breakdown',
      merchants: '/dashboard/top-merchants',
      branches: '/dashboard/branch-account-counts',
    };
    for (const [id, url] of Object.entries(panels)) {
      fetch(url)
        .then(r => r.json())
        .then(data => { document.getElementById(id).textContent = JSON.stringify(data, null, 2); })
        .catch(err => { document.getElementById(id).textContent = 'error: ' + err; });
    }
    function loadTrend() {
      const id = document.getElementById('trend-account').value;
      fetch('/dashboard/accounts/' + id + '/balance-trend')
        .then(r => r.json())
        .then(data => { document.getElementById('trend').textContent = JSON.stringify(data, null, 2); })
        .catch(err => { document.getElementById('trend').textContent = 'error: ' + err; });
    }
    document.getElementById('trend-load').addEventListener('click', loadTrend);
    loadTrend();
  </script>
</body>
</html>
`

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	addr := getEnv("DASHBOARD_LISTEN_ADDR", ":8090")
	apiBase := getEnv("API_BASE_URL", "http://localhost:8080")
	timeout := getEnvDuration("API_TIMEOUT", 10*time.Second)

	client := NewAPIClient(apiBase, timeout)

	log.Info().
		Str("addr", addr).
		Str("api", apiBase).
		Str("instance_id", client.instanceID).
		Msg("Starting analytics dashboard")

	handler := NewHandler(client)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
