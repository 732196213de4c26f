package billing

import (
	"encoding/json"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
)

// EventType is the provider's event type tag.
type EventType string

const (
	EventCheckoutCompleted   EventType = "checkout.session.completed"
	EventSubscriptionUpdated EventType = "customer.subscription.updated"
	EventSubscriptionDeleted EventType = "customer.subscription.deleted"
)

// Event is a verified billing event. Raw holds the provider's object payload
// exactly as delivered; variant accessors decode it on demand.
type Event struct {
	ID        string
	Type      EventType
	CreatedAt time.Time
	Raw       json.RawMessage
}

func newEvent(ev *stripe.Event) *Event {
	var raw json.RawMessage
	if ev.Data != nil {
		raw = ev.Data.Raw
	}
	return &Event{
		ID:        ev.ID,
		Type:      EventType(ev.Type),
		CreatedAt: time.Unix(ev.Created, 0),
		Raw:       raw,
	}
}

// CheckoutSession is the payload of a checkout-completed event. ProfileID is
// the caller-supplied client reference; the provider has no stable local
// linkage at checkout time.
type CheckoutSession struct {
	ProfileID      string
	CustomerID     string
	SubscriptionID string
}

func (e *Event) CheckoutSession() (*CheckoutSession, error) {
	var cs stripe.CheckoutSession
	if err := json.Unmarshal(e.Raw, &cs); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	out := &CheckoutSession{ProfileID: cs.ClientReferenceID}
	if cs.Customer != nil {
		out.CustomerID = cs.Customer.ID
	}
	if cs.Subscription != nil {
		out.SubscriptionID = cs.Subscription.ID
	}
	return out, nil
}

// SubscriptionEvent is the payload of a subscription-updated/-deleted event,
// keyed by the provider's own customer identity.
type SubscriptionEvent struct {
	CustomerID string
	PeriodEnd  time.Time
}

func (e *Event) Subscription() (*SubscriptionEvent, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(e.Raw, &sub); err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}
	out := &SubscriptionEvent{}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if end := periodEnd(&sub); end > 0 {
		out.PeriodEnd = time.Unix(end, 0)
	}
	return out, nil
}

// periodEnd reads the current period end from the first subscription item,
// where the provider reports it.
func periodEnd(sub *stripe.Subscription) int64 {
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return 0
	}
	return sub.Items.Data[0].CurrentPeriodEnd
}
