package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/bloomfeed/profile-api/internal/app/api/middleware"
	"github.com/bloomfeed/profile-api/internal/app/service/preferences"
	"github.com/bloomfeed/profile-api/pkg/response"
	"github.com/bloomfeed/profile-api/pkg/types"
)

// PreferencesReader aggregates per-profile preference flags.
type PreferencesReader interface {
	GetPreferences(ctx context.Context, profileID string) (*types.ProfilePreferences, error)
}

// @Summary      Profile preferences
// @Description  Returns the aggregated preference flags for a profile. Caller must own the profile or be staff.
// @Tags         Preferences
// @Produce      json
// @Param        id  query  string  true  "Profile id"
// @Success      200  {object}  response.APIResponse[types.ProfilePreferences]
// @Router       /api/v1/preferences [get]
func ApiGetPreferences(svc PreferencesReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing id"))
			return
		}
		if !mw.IsOwnerOrStaff(c, id) {
			c.JSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeForbidden, nil))
			return
		}

		prefs, err := svc.GetPreferences(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(prefs))
	}
}

func RegisterPreferencesRoutes(r gin.IRouter, svc *preferences.Service) {
	r.GET("/preferences", ApiGetPreferences(svc))
}
