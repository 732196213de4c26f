package statistics

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/bloomfeed/profile-api/internal/models"
	"github.com/bloomfeed/profile-api/pkg/types"
)

type ListProRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ListProResponse struct {
	Items []*models.ProSubscription `json:"items"`
	Total int64                     `json:"total"`
}

// filtersWhere wraps a list of filters to a single clause.Expression
type filtersWhere struct{ filters []*types.CommonFilter }

func (w filtersWhere) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, f := range w.filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		f.Build(builder)
	}
}

var sortableColumns = map[string]struct{}{
	"profile_id":          {},
	"billing_customer_id": {},
	"plan":                {},
	"expires_at":          {},
	"event_at":            {},
	"created_at":          {},
	"updated_at":          {},
}

// ListPro returns a filtered, paginated page of subscription records.
func (s *Service) ListPro(ctx context.Context, req *ListProRequest) (*ListProResponse, error) {
	size := req.Size
	if size <= 0 {
		size = 100
	}
	if size > 1000 {
		size = 1000
	}
	from := req.From
	if from < 0 {
		from = 0
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	if _, ok := sortableColumns[sortBy]; !ok {
		return nil, fmt.Errorf("unsupported sort column: %s", sortBy)
	}
	sortOrder := req.SortOrder
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	where := filtersWhere{filters: req.Filters}
	res := &ListProResponse{Items: []*models.ProSubscription{}}

	if err := s.db.WithContext(ctx).Model(&models.ProSubscription{}).
		Clauses(clause.Where{Exprs: []clause.Expression{where}}).
		Count(&res.Total).Error; err != nil {
		return nil, fmt.Errorf("count subscriptions: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.ProSubscription{}).
		Clauses(clause.Where{Exprs: []clause.Expression{where}}).
		Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Offset(from).Limit(size).
		Find(&res.Items).Error; err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	return res, nil
}
