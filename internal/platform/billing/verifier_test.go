package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"
)

const testSecret = "whsec_test_secret"

// signBody builds a Stripe-Signature header the way the provider does:
// v1 is an HMAC-SHA256 over "<timestamp>.<body>".
func signBody(t *testing.T, body []byte, at time.Time) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(testSecret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), body)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func eventBody(id, eventType string, created time.Time, object string) []byte {
	return []byte(fmt.Sprintf(`{"id":%q,"type":%q,"created":%d,"api_version":%q,"data":{"object":%s}}`,
		id, eventType, created.Unix(), stripe.APIVersion, object))
}

func TestStripeVerifier_ValidSignature(t *testing.T) {
	v := NewStripeVerifier(testSecret)
	created := time.Now().Truncate(time.Second)
	body := eventBody("evt_1", "customer.subscription.deleted", created, `{"customer":"cus_1"}`)

	ev, err := v.Verify(body, signBody(t, body, created))

	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, EventSubscriptionDeleted, ev.Type)
	assert.Equal(t, created.Unix(), ev.CreatedAt.Unix())

	sub, err := ev.Subscription()
	require.NoError(t, err)
	assert.Equal(t, "cus_1", sub.CustomerID)
}

func TestStripeVerifier_TamperedBody(t *testing.T) {
	v := NewStripeVerifier(testSecret)
	created := time.Now()
	body := eventBody("evt_1", "customer.subscription.deleted", created, `{"customer":"cus_1"}`)
	header := signBody(t, body, created)

	tampered := eventBody("evt_1", "customer.subscription.deleted", created, `{"customer":"cus_2"}`)
	ev, err := v.Verify(tampered, header)

	require.Error(t, err)
	require.Nil(t, ev)

	var sigErr *SignatureError
	require.True(t, errors.As(err, &sigErr))
}

func TestStripeVerifier_WrongSecret(t *testing.T) {
	v := NewStripeVerifier("whsec_other")
	created := time.Now()
	body := eventBody("evt_1", "checkout.session.completed", created, `{}`)

	_, err := v.Verify(body, signBody(t, body, created))

	var sigErr *SignatureError
	require.True(t, errors.As(err, &sigErr))
}

func TestStripeVerifier_MalformedHeader(t *testing.T) {
	v := NewStripeVerifier(testSecret)
	body := eventBody("evt_1", "checkout.session.completed", time.Now(), `{}`)

	_, err := v.Verify(body, "not-a-signature")

	var sigErr *SignatureError
	require.True(t, errors.As(err, &sigErr))
}
