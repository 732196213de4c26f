package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/bloomfeed/profile-api/internal/app/service/statistics"
	"github.com/bloomfeed/profile-api/internal/models"
	"github.com/bloomfeed/profile-api/pkg/response"
)

type ProSubscriptionItem struct {
	ID                string    `json:"id"`
	ProfileID         string    `json:"profile_id"`
	BillingCustomerID string    `json:"billing_customer_id"`
	Plan              string    `json:"plan"`
	ExpiresAt         time.Time `json:"expires_at"`
	EventAt           time.Time `json:"event_at"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toProSubscriptionItem(m *models.ProSubscription) *ProSubscriptionItem {
	return &ProSubscriptionItem{
		ID:                m.ID,
		ProfileID:         m.ProfileID,
		BillingCustomerID: m.BillingCustomerID,
		Plan:              m.Plan,
		ExpiresAt:         m.ExpiresAt,
		EventAt:           m.EventAt,
		Active:            m.Active(),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

type ListProSubscriptionsResponse struct {
	Items []*ProSubscriptionItem `json:"items"`
	Total int64                  `json:"total"`
}

// @Summary      List Pro Subscriptions (Admin)
// @Description  Retrieves a paginated and filterable list of subscription records.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.ListProRequest true "Filter and pagination"
// @Success      200  {object}  response.APIResponse[ListProSubscriptionsResponse]
// @Router       /api/v1/admin/pro/list [post]
func ApiAdminListPro(stats *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.ListProRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		res, err := stats.ListPro(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ListProSubscriptionsResponse{
			Items: lo.Map(res.Items, func(m *models.ProSubscription, _ int) *ProSubscriptionItem {
				return toProSubscriptionItem(m)
			}),
			Total: res.Total,
		}))
	}
}

// @Summary      Pro Subscription Stats (Admin)
// @Description  Returns total/active/expired counts and a per-plan breakdown.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  response.APIResponse[statistics.ProStats]
// @Router       /api/v1/admin/pro/stats [get]
func ApiAdminProStats(stats *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := stats.ProStats(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, stats *statistics.Service) {
	r.POST("/pro/list", ApiAdminListPro(stats))
	r.GET("/pro/stats", ApiAdminProStats(stats))
}
