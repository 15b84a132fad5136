package services

import (
	"context"

	"github.com/avestra/bank-analytics/pkg/pg"
)

// HealthService answers liveness probes with a round trip to the read
// replica.
type HealthService struct {
	db *pg.DB
}

func NewHealthService(db *pg.DB) *HealthService {
	return &HealthService{db: db}
}

func (s *HealthService) Ping(ctx context.Context) error {
	var one int
	return s.db.Read(ctx).Raw("SELECT 1").Scan(&one).Error
}
