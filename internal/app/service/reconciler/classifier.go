package reconciler

import (
	"github.com/bloomfeed/profile-api/internal/platform/billing"
)

// relevantEvents is the explicit allow-list of subscription-lifecycle event
// types. The provider emits many other types; those are acknowledged and
// dropped so it never retries them. Membership here is reviewed, not inferred
// from handler capability.
var relevantEvents = map[billing.EventType]struct{}{
	billing.EventCheckoutCompleted:   {},
	billing.EventSubscriptionUpdated: {},
	billing.EventSubscriptionDeleted: {},
}

// Relevant reports whether the event type belongs to the allow-list.
func Relevant(t billing.EventType) bool {
	_, ok := relevantEvents[t]
	return ok
}
