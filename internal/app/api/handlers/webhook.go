package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bloomfeed/profile-api/internal/app/service/reconciler"
	"github.com/bloomfeed/profile-api/pkg/logctx"
)

// WebhookProcessor handles one raw webhook delivery.
type WebhookProcessor interface {
	Process(ctx context.Context, body []byte, sigHeader string) (reconciler.Result, error)
}

// @Summary      Stripe Webhook
// @Description  Handles Stripe billing events. The request body is the provider's raw event payload; Stripe-Signature carries the signature.
// @Tags         Webhook
// @Accept       json
// @Param        payload body string true "Raw Stripe event payload"
// @Success      200
// @Failure      400  {string}  string  "Webhook Error"
// @Router       /webhooks/stripe [post]
// ApiStripeWebhook handles billing provider event deliveries. The provider
// only ever sees 200 (acknowledged) or 400 (signature rejected); anything
// else would feed its redelivery loop.
func ApiStripeWebhook(svc WebhookProcessor, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The signature covers the exact byte sequence; read raw, never bind.
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logctx.FromGin(c, log).Errorw("webhook_body_read_failed", "error", err.Error())
			c.String(http.StatusBadRequest, "Webhook Error")
			return
		}

		res, err := svc.Process(c.Request.Context(), body, c.GetHeader("Stripe-Signature"))
		if err != nil {
			// Signature failure: reject so the provider retries with a
			// fresh attempt.
			c.String(http.StatusBadRequest, "Webhook Error")
			return
		}

		// Acknowledgment policy: everything verified is acknowledged,
		// including failed handlers. A permanently failing record must not
		// turn into a redelivery storm; failures are already reported
		// through logs and counters.
		_ = res
		c.Status(http.StatusOK)
	}
}

func RegisterWebhookRoutes(r gin.IRouter, svc *reconciler.Service, log *zap.SugaredLogger) {
	r.POST("/stripe", ApiStripeWebhook(svc, log))
}
