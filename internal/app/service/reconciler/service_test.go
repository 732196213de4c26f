package reconciler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bloomfeed/profile-api/internal/models"
	"github.com/bloomfeed/profile-api/internal/platform/billing"
)

// memStore is an in-memory Store with the same keying and staleness
// semantics as the gorm implementation.
type memStore struct {
	byProfile map[string]*models.ProSubscription
	failWith  error
}

func newMemStore() *memStore {
	return &memStore{byProfile: map[string]*models.ProSubscription{}}
}

func (m *memStore) Upsert(_ context.Context, sub *models.ProSubscription) (WriteStatus, error) {
	if m.failWith != nil {
		return WriteApplied, m.failWith
	}
	if existing, ok := m.byProfile[sub.ProfileID]; ok {
		if existing.EventAt.After(sub.EventAt) {
			return WriteStale, nil
		}
		sub.ID = existing.ID
	} else {
		sub.ID = fmt.Sprintf("id-%d", len(m.byProfile)+1)
	}
	cp := *sub
	m.byProfile[sub.ProfileID] = &cp
	return WriteApplied, nil
}

func (m *memStore) UpdateExpiry(_ context.Context, customerID string, expiresAt, eventAt time.Time) (WriteStatus, error) {
	if m.failWith != nil {
		return WriteApplied, m.failWith
	}
	sub := m.byCustomer(customerID)
	if sub == nil {
		return WriteMissing, nil
	}
	if sub.EventAt.After(eventAt) {
		return WriteStale, nil
	}
	sub.ExpiresAt = expiresAt
	sub.EventAt = eventAt
	return WriteApplied, nil
}

func (m *memStore) Delete(_ context.Context, customerID string, eventAt time.Time) (WriteStatus, error) {
	if m.failWith != nil {
		return WriteApplied, m.failWith
	}
	sub := m.byCustomer(customerID)
	if sub == nil {
		return WriteMissing, nil
	}
	if sub.EventAt.After(eventAt) {
		return WriteStale, nil
	}
	delete(m.byProfile, sub.ProfileID)
	return WriteApplied, nil
}

func (m *memStore) byCustomer(customerID string) *models.ProSubscription {
	for _, sub := range m.byProfile {
		if sub.BillingCustomerID == customerID {
			return sub
		}
	}
	return nil
}

type fakeBillingClient struct {
	details map[string]*billing.SubscriptionDetails
	err     error
}

func (f *fakeBillingClient) GetSubscription(_ context.Context, id string) (*billing.SubscriptionDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.details[id]
	if !ok {
		return nil, fmt.Errorf("subscription not found: %s", id)
	}
	return d, nil
}

type fakeVerifier struct {
	ev  *billing.Event
	err error
}

func (f *fakeVerifier) Verify(_ []byte, _ string) (*billing.Event, error) {
	return f.ev, f.err
}

type captureEventLog struct {
	entries []*models.WebhookEventLog
}

func (c *captureEventLog) Save(_ context.Context, entry *models.WebhookEventLog) {
	c.entries = append(c.entries, entry)
}

func checkoutEvent(id, profileID, customerID, subscriptionID string, created time.Time) *billing.Event {
	raw := fmt.Sprintf(`{"client_reference_id":%q,"customer":%q,"subscription":%q}`,
		profileID, customerID, subscriptionID)
	return &billing.Event{
		ID:        id,
		Type:      billing.EventCheckoutCompleted,
		CreatedAt: created,
		Raw:       []byte(raw),
	}
}

func subscriptionEvent(id string, t billing.EventType, customerID string, periodEnd time.Time, created time.Time) *billing.Event {
	raw := fmt.Sprintf(`{"customer":%q,"items":{"data":[{"current_period_end":%d}]}}`,
		customerID, periodEnd.Unix())
	return &billing.Event{ID: id, Type: t, CreatedAt: created, Raw: []byte(raw)}
}

func newTestService(store Store, client billing.Client, verifier billing.Verifier) *Service {
	if client == nil {
		client = &fakeBillingClient{}
	}
	if verifier == nil {
		verifier = &fakeVerifier{err: errors.New("no verifier configured")}
	}
	return NewService(verifier, client, store, &captureEventLog{}, zap.NewNop().Sugar())
}

func TestApply_UnrecognizedTypeIgnored(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil, nil)

	res := svc.apply(context.Background(), &billing.Event{
		ID:        "evt_1",
		Type:      "invoice.paid",
		CreatedAt: time.Now(),
		Raw:       []byte(`{}`),
	})

	require.Equal(t, OutcomeIgnored, res.Outcome)
	require.Equal(t, DispositionSuccess, res.Disposition)
	require.Empty(t, store.byProfile)
}

func TestCheckoutCompleted_Idempotent(t *testing.T) {
	store := newMemStore()
	periodEnd := time.Unix(1735689600, 0)
	client := &fakeBillingClient{details: map[string]*billing.SubscriptionDetails{
		"sub_1": {CustomerID: "cus_1", Plan: "pro_monthly", PeriodEnd: periodEnd},
	}}
	svc := newTestService(store, client, nil)

	ev := checkoutEvent("evt_1", "p1", "cus_1", "sub_1", time.Unix(1700000000, 0))

	res := svc.apply(context.Background(), ev)
	require.Equal(t, OutcomeApplied, res.Outcome)
	require.Len(t, store.byProfile, 1)
	first := *store.byProfile["p1"]

	// replaying the identical delivery must converge to the same record
	res = svc.apply(context.Background(), ev)
	require.Equal(t, OutcomeApplied, res.Outcome)
	require.Len(t, store.byProfile, 1)
	assert.Equal(t, first, *store.byProfile["p1"])
	assert.Equal(t, "pro_monthly", store.byProfile["p1"].Plan)
	assert.Equal(t, periodEnd, store.byProfile["p1"].ExpiresAt)
}

func TestCheckoutCompleted_MissingReferenceIgnored(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil, nil)

	ev := checkoutEvent("evt_1", "", "cus_1", "sub_1", time.Now())
	res := svc.apply(context.Background(), ev)

	require.Equal(t, OutcomeIgnored, res.Outcome)
	require.Empty(t, store.byProfile)
}

func TestCheckoutCompleted_LookupFailureIsTerminal(t *testing.T) {
	store := newMemStore()
	client := &fakeBillingClient{err: errors.New("provider unreachable")}
	svc := newTestService(store, client, nil)

	ev := checkoutEvent("evt_1", "p1", "cus_1", "sub_1", time.Now())
	res := svc.apply(context.Background(), ev)

	require.Equal(t, OutcomeFailed, res.Outcome)
	require.Equal(t, DispositionTerminal, res.Disposition)
	require.Error(t, res.Err)
	// no partial upsert with missing fields
	require.Empty(t, store.byProfile)
}

func TestCheckoutCompleted_PersistenceFailureIsRetryable(t *testing.T) {
	store := newMemStore()
	store.failWith = errors.New("store unreachable")
	client := &fakeBillingClient{details: map[string]*billing.SubscriptionDetails{
		"sub_1": {Plan: "pro_monthly", PeriodEnd: time.Now().Add(time.Hour)},
	}}
	svc := newTestService(store, client, nil)

	res := svc.apply(context.Background(), checkoutEvent("evt_1", "p1", "cus_1", "sub_1", time.Now()))

	require.Equal(t, OutcomeFailed, res.Outcome)
	require.Equal(t, DispositionRetryable, res.Disposition)
}

func TestSubscriptionUpdated_MissingTargetIsHandledMiss(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil, nil)

	ev := subscriptionEvent("evt_1", billing.EventSubscriptionUpdated, "cus_unknown",
		time.Now().Add(time.Hour), time.Now())
	res := svc.apply(context.Background(), ev)

	require.Equal(t, OutcomeMissing, res.Outcome)
	require.Equal(t, DispositionSuccess, res.Disposition)
	require.NoError(t, res.Err)
}

func TestSubscriptionDeleted_MissingTargetIsHandledMiss(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil, nil)

	ev := subscriptionEvent("evt_1", billing.EventSubscriptionDeleted, "cus_unknown",
		time.Time{}, time.Now())
	res := svc.apply(context.Background(), ev)

	require.Equal(t, OutcomeMissing, res.Outcome)
	require.Equal(t, DispositionSuccess, res.Disposition)
}

func TestSubscriptionUpdated_StaleEventNotApplied(t *testing.T) {
	store := newMemStore()
	t0 := time.Unix(1700000000, 0)
	periodEnd := time.Unix(1735689600, 0)
	client := &fakeBillingClient{details: map[string]*billing.SubscriptionDetails{
		"sub_1": {CustomerID: "cus_1", Plan: "pro_monthly", PeriodEnd: periodEnd},
	}}
	svc := newTestService(store, client, nil)

	require.Equal(t, OutcomeApplied, svc.apply(context.Background(),
		checkoutEvent("evt_1", "p1", "cus_1", "sub_1", t0)).Outcome)

	// an update emitted before the checkout must not win
	stalePeriodEnd := time.Unix(1704067200, 0)
	res := svc.apply(context.Background(), subscriptionEvent("evt_0",
		billing.EventSubscriptionUpdated, "cus_1", stalePeriodEnd, t0.Add(-time.Minute)))

	require.Equal(t, OutcomeStale, res.Outcome)
	assert.Equal(t, periodEnd, store.byProfile["p1"].ExpiresAt)
}

func TestLateUpdateAfterDeleteDoesNotResurrect(t *testing.T) {
	store := newMemStore()
	t0 := time.Unix(1700000000, 0)
	client := &fakeBillingClient{details: map[string]*billing.SubscriptionDetails{
		"sub_1": {CustomerID: "cus_1", Plan: "pro_monthly", PeriodEnd: time.Unix(1735689600, 0)},
	}}
	svc := newTestService(store, client, nil)

	require.Equal(t, OutcomeApplied, svc.apply(context.Background(),
		checkoutEvent("evt_1", "p1", "cus_1", "sub_1", t0)).Outcome)
	require.Equal(t, OutcomeApplied, svc.apply(context.Background(), subscriptionEvent("evt_2",
		billing.EventSubscriptionDeleted, "cus_1", time.Time{}, t0.Add(time.Minute))).Outcome)

	// reordered update delivered after the delete
	res := svc.apply(context.Background(), subscriptionEvent("evt_3",
		billing.EventSubscriptionUpdated, "cus_1", time.Unix(1767225600, 0), t0.Add(2*time.Minute)))

	require.Equal(t, OutcomeMissing, res.Outcome)
	require.Empty(t, store.byProfile)
}

func TestScenario_CheckoutUpdateDelete(t *testing.T) {
	store := newMemStore()
	t0 := time.Unix(1700000000, 0)
	t1 := time.Unix(1735689600, 0)
	t2 := time.Unix(1738368000, 0)
	client := &fakeBillingClient{details: map[string]*billing.SubscriptionDetails{
		"sub_1": {CustomerID: "c1", Plan: "pro_monthly", PeriodEnd: t1},
	}}
	svc := newTestService(store, client, nil)

	require.Equal(t, OutcomeApplied, svc.apply(context.Background(),
		checkoutEvent("evt_1", "P1", "c1", "sub_1", t0)).Outcome)
	sub := store.byProfile["P1"]
	require.NotNil(t, sub)
	assert.Equal(t, "c1", sub.BillingCustomerID)
	assert.Equal(t, "pro_monthly", sub.Plan)
	assert.Equal(t, t1, sub.ExpiresAt)

	require.Equal(t, OutcomeApplied, svc.apply(context.Background(), subscriptionEvent("evt_2",
		billing.EventSubscriptionUpdated, "c1", t2, t0.Add(time.Minute))).Outcome)
	sub = store.byProfile["P1"]
	require.NotNil(t, sub)
	assert.Equal(t, "pro_monthly", sub.Plan)
	assert.Equal(t, t2, sub.ExpiresAt)

	require.Equal(t, OutcomeApplied, svc.apply(context.Background(), subscriptionEvent("evt_3",
		billing.EventSubscriptionDeleted, "c1", time.Time{}, t0.Add(2*time.Minute))).Outcome)
	require.Empty(t, store.byProfile)
}

func TestProcess_SignatureFailureSurfaced(t *testing.T) {
	store := newMemStore()
	events := &captureEventLog{}
	verifier := &fakeVerifier{err: errors.New("signature mismatch")}
	svc := NewService(verifier, &fakeBillingClient{}, store, events, zap.NewNop().Sugar())

	_, err := svc.Process(context.Background(), []byte(`{}`), "t=1,v1=bad")

	require.Error(t, err)
	require.Empty(t, store.byProfile)
	// a rejected delivery is never logged as received
	require.Empty(t, events.entries)
}

func TestProcess_VerifiedDeliveryLogged(t *testing.T) {
	store := newMemStore()
	events := &captureEventLog{}
	ev := subscriptionEvent("evt_1", billing.EventSubscriptionDeleted, "cus_unknown", time.Time{}, time.Now())
	svc := NewService(&fakeVerifier{ev: ev}, &fakeBillingClient{}, store, events, zap.NewNop().Sugar())

	res, err := svc.Process(context.Background(), []byte(`{"id":"evt_1"}`), "t=1,v1=ok")

	require.NoError(t, err)
	require.Equal(t, OutcomeMissing, res.Outcome)
	require.Len(t, events.entries, 2)
	assert.Equal(t, models.WebhookEventLogStatusReceived, events.entries[0].Status)
	assert.Equal(t, models.WebhookEventLogStatusHandled, events.entries[1].Status)
}
