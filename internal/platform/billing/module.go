package billing

import (
	"go.uber.org/fx"

	"github.com/bloomfeed/profile-api/pkg/config"
)

func newVerifier(cfg *config.Config) Verifier {
	return NewStripeVerifier(cfg.Stripe.WebhookSecret)
}

func newClient(cfg *config.Config) Client {
	return NewStripeClient(cfg.Stripe.SecretKey)
}

var Module = fx.Options(
	fx.Provide(newVerifier),
	fx.Provide(newClient),
)
