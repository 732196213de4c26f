package statistics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bloomfeed/profile-api/internal/models"
)

// PlanCount is the number of subscription records on one plan.
type PlanCount struct {
	Plan  string `json:"plan"`
	Count int64  `json:"count"`
}

// ProStats summarizes the subscription store for the admin surface.
type ProStats struct {
	Total   int64        `json:"total"`
	Active  int64        `json:"active"`
	Expired int64        `json:"expired"`
	ByPlan  []*PlanCount `json:"by_plan"`
}

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// ProStats counts subscription records in total, split by expiry against
// queryAt, and broken down per plan.
func (s *Service) ProStats(ctx context.Context, queryAt time.Time) (*ProStats, error) {
	if queryAt.IsZero() {
		queryAt = time.Now()
	}

	stats := &ProStats{ByPlan: []*PlanCount{}}

	if err := s.db.WithContext(ctx).Model(&models.ProSubscription{}).
		Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("count subscriptions: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.ProSubscription{}).
		Where("expires_at > ?", queryAt).Count(&stats.Active).Error; err != nil {
		return nil, fmt.Errorf("count active subscriptions: %w", err)
	}
	stats.Expired = stats.Total - stats.Active

	if err := s.db.WithContext(ctx).Model(&models.ProSubscription{}).
		Select("plan, count(*) as count").Group("plan").Order("plan").
		Scan(&stats.ByPlan).Error; err != nil {
		return nil, fmt.Errorf("count subscriptions by plan: %w", err)
	}

	return stats, nil
}
