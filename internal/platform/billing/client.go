package billing

import (
	"context"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	stripeclient "github.com/stripe/stripe-go/v82/client"
)

// SubscriptionDetails is the read-only view of a provider subscription
// resolved during checkout-completed handling.
type SubscriptionDetails struct {
	CustomerID string
	Plan       string
	PeriodEnd  time.Time
}

// Client is the read-only billing provider lookup. It is injected into the
// reconciler so tests can substitute a fake.
type Client interface {
	GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetails, error)
}

// StripeClient implements Client against the Stripe API.
type StripeClient struct {
	api *stripeclient.API
}

func NewStripeClient(secretKey string) *StripeClient {
	api := &stripeclient.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api}
}

func (c *StripeClient) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetails, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := c.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("get subscription %s: %w", subscriptionID, err)
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return nil, fmt.Errorf("subscription %s has no items", subscriptionID)
	}
	item := sub.Items.Data[0]
	if item.Price == nil {
		return nil, fmt.Errorf("subscription %s item has no price", subscriptionID)
	}
	out := &SubscriptionDetails{
		Plan:      item.Price.ID,
		PeriodEnd: time.Unix(item.CurrentPeriodEnd, 0),
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	return out, nil
}
