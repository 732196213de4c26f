package billing

import (
	"fmt"

	"github.com/stripe/stripe-go/v82/webhook"
)

// SignatureError reports that an inbound event body could not be
// authenticated. It is terminal for the delivery attempt: the caller must
// reject (not acknowledge) so the provider retries with a fresh attempt.
type SignatureError struct {
	err error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("webhook signature verification failed: %v", e.err)
}

func (e *SignatureError) Unwrap() error { return e.err }

// Verifier authenticates a raw webhook body against its signature header and
// returns the parsed event.
type Verifier interface {
	Verify(body []byte, sigHeader string) (*Event, error)
}

// StripeVerifier verifies Stripe webhook signatures with the endpoint's
// shared secret. The body must be the exact byte sequence received; any
// reserialization breaks verification.
type StripeVerifier struct {
	secret string
}

func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{secret: secret}
}

func (v *StripeVerifier) Verify(body []byte, sigHeader string) (*Event, error) {
	ev, err := webhook.ConstructEvent(body, sigHeader, v.secret)
	if err != nil {
		return nil, &SignatureError{err: err}
	}
	return newEvent(&ev), nil
}
