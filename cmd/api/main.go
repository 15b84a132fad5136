package main

import (
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/avestra/bank-analytics/internal/config"
	"github.com/avestra/bank-analytics/internal/handlers"
	"github.com/avestra/bank-analytics/internal/repository"
	"github.com/avestra/bank-analytics/internal/services"
	xhttp "github.com/avestra/bank-analytics/pkg/http"
	"github.com/avestra/bank-analytics/pkg/logger"
	"github.com/avestra/bank-analytics/pkg/pg"
	"github.com/avestra/bank-analytics/pkg/prom"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	if lvl := config.Get().LogLevel; lvl != "" {
		if err := logger.SetLevel(lvl); err != nil {
			logger.Warn("ignoring invalid log level", "level", lvl)
		}
	}

	// transport (tcp for now)
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Use(metricsMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	if config.Get().AppDebugMetricsAddr != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Error("failed creating metrics", "error", err)
		}
		go prom.ListenAndServer(config.Get().AppDebugMetricsAddr, config.Get().AppDebugMetricsURI)
	}

	customerRepo := repository.NewCustomerRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	balanceRepo := repository.NewDailyBalanceRepository(db)
	dateDimRepo := repository.NewDateDimRepository(db)

	// services
	customerService := services.NewCustomerService(customerRepo)
	branchService := services.NewBranchService(branchRepo)
	accountService := services.NewAccountService(accountRepo)
	transactionService := services.NewTransactionService(transactionRepo, accountRepo)
	balanceService := services.NewBalanceService(balanceRepo)
	calendarService := services.NewCalendarService(dateDimRepo)
	healthService := services.NewHealthService(db)

	// v1 handlers
	customerHandler := handlers.NewCustomerHandler(customerService)
	branchHandler := handlers.NewBranchHandler(branchService)
	accountHandler := handlers.NewAccountHandler(accountService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	balanceHandler := handlers.NewBalanceHandler(balanceService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)
	reportsHandler := handlers.NewReportsHandler(
		customerService, branchService, accountService,
		transactionService, balanceService, customerService)
	healthHandler := handlers.NewHealthHandler(healthService)

	g := s.Router.Group("/api/v1")
	handlers.RegisterCustomerRoutes(g, customerHandler)
	handlers.RegisterBranchRoutes(g, branchHandler)
	handlers.RegisterAccountRoutes(g, accountHandler)
	handlers.RegisterTransactionRoutes(g, transactionHandler)
	handlers.RegisterBalanceRoutes(g, balanceHandler)
	handlers.RegisterCalendarRoutes(g, calendarHandler)
	handlers.RegisterReportRoutes(g, reportsHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	// Create new server
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Kill)

	go func() {
		var err = s.ListenAndServe(config.Get().HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	select {
	case <-c:
		s.Shutdown()
		_ = logger.GetLogger().Sync()
	}
}

func metricsMiddleware(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		prom.AddRequestDuration(time.Since(start).Seconds(),
			string(ctx.Method()), string(ctx.Path()))
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
