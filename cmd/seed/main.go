package main

import (
	"context"
	"os"
	"strings"

	"github.com/avestra/bank-analytics/internal/config"
	"github.com/avestra/bank-analytics/internal/seeder"
	"github.com/avestra/bank-analytics/pkg/logger"
	"github.com/avestra/bank-analytics/pkg/pg"
)

// Fills the warehouse with synthetic branches, customers, accounts and
// account history. Safe to run against an empty database right after
// the migrations.
func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

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

	db, err := pg.CreateReadWrite(readConf, writeConf, false)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	s := seeder.New(db, seeder.Config{
		Branches:     config.Get().SeedBranches,
		Customers:    config.Get().SeedCustomers,
		Days:         config.Get().SeedDays,
		Workers:      config.Get().SeedWorkers,
		RandomSource: config.Get().SeedRandomSource,
	})
	if err := s.Run(context.Background()); err != nil {
		logger.Error("seed run failed", "error", err)
		os.Exit(1)
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
