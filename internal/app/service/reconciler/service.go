package reconciler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/bloomfeed/profile-api/internal/models"
	"github.com/bloomfeed/profile-api/internal/platform/billing"
	"github.com/bloomfeed/profile-api/pkg/logctx"
	"github.com/bloomfeed/profile-api/pkg/metrics"
)

const provider = "stripe"

// HandlerFunc applies one verified, classified event to local state.
type HandlerFunc func(ctx context.Context, ev *billing.Event) Result

// EventLogger records delivery lifecycle entries for operator follow-up.
type EventLogger interface {
	Save(ctx context.Context, entry *models.WebhookEventLog)
}

// Service is the webhook event reconciler: it authenticates an inbound
// delivery, classifies it against the allow-list and applies it to the
// subscription store through a registered per-type handler. Deliveries are
// independent, stateless units of work; idempotency comes from the record's
// natural keys, not from an event-id log.
type Service struct {
	verifier billing.Verifier
	client   billing.Client
	store    Store
	events   EventLogger
	log      *zap.SugaredLogger

	handlers map[billing.EventType]HandlerFunc
}

func NewService(verifier billing.Verifier, client billing.Client, store Store, events EventLogger, log *zap.SugaredLogger) *Service {
	s := &Service{
		verifier: verifier,
		client:   client,
		store:    store,
		events:   events,
		log:      log,
	}
	s.handlers = map[billing.EventType]HandlerFunc{
		billing.EventCheckoutCompleted:   s.handleCheckoutCompleted,
		billing.EventSubscriptionUpdated: s.handleSubscriptionUpdated,
		billing.EventSubscriptionDeleted: s.handleSubscriptionDeleted,
	}
	return s
}

// Process handles one webhook delivery end to end. A signature failure is the
// only case returned as error; the caller must reject it so the provider
// retries. Every other path yields a Result, and the caller decides the
// acknowledgment policy from it.
func (s *Service) Process(ctx context.Context, body []byte, sigHeader string) (Result, error) {
	ev, err := s.verifier.Verify(body, sigHeader)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("webhook_signature_failed", "error", err.Error())
		metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		return Result{}, err
	}

	s.events.Save(ctx, &models.WebhookEventLog{
		Provider:  provider,
		EventID:   ev.ID,
		EventType: string(ev.Type),
		TraceID:   traceID(ctx),
		EventAt:   ev.CreatedAt,
		Data:      datatypes.JSON(body),
		Status:    models.WebhookEventLogStatusReceived,
	})

	res := s.apply(ctx, ev)

	metrics.WebhookEvents.WithLabelValues(string(ev.Type), string(res.Outcome)).Inc()
	s.saveHandledLog(ctx, ev, body, res)

	if res.Err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("webhook_event_failed",
			"event_id", ev.ID, "event_type", ev.Type, "outcome", res.Outcome, "error", res.Err.Error())
	} else {
		logctx.FromCtx(ctx, s.log).Infow("webhook_event_handled",
			"event_id", ev.ID, "event_type", ev.Type, "outcome", res.Outcome)
	}
	return res, nil
}

func (s *Service) apply(ctx context.Context, ev *billing.Event) Result {
	if !Relevant(ev.Type) {
		return ignored()
	}
	h, ok := s.handlers[ev.Type]
	if !ok {
		// allow-listed but unregistered; ignore-and-acknowledge is explicit
		return ignored()
	}
	return h(ctx, ev)
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, ev *billing.Event) Result {
	cs, err := ev.CheckoutSession()
	if err != nil {
		return terminal(err)
	}
	if cs.ProfileID == "" || cs.CustomerID == "" {
		logctx.FromCtx(ctx, s.log).Warnw("checkout_missing_reference", "event_id", ev.ID)
		return ignored()
	}

	// Checkout carries the caller-supplied profile reference only; plan and
	// period end come from a synchronous provider lookup.
	details, err := s.client.GetSubscription(ctx, cs.SubscriptionID)
	if err != nil {
		metrics.BillingLookupFailures.Inc()
		return terminal(fmt.Errorf("resolve subscription details: %w", err))
	}

	status, err := s.store.Upsert(ctx, &models.ProSubscription{
		ProfileID:         cs.ProfileID,
		BillingCustomerID: cs.CustomerID,
		Plan:              details.Plan,
		ExpiresAt:         details.PeriodEnd,
		EventAt:           ev.CreatedAt,
	})
	if err != nil {
		return retryable(fmt.Errorf("upsert subscription: %w", err))
	}
	if status == WriteStale {
		return stale()
	}
	return applied()
}

func (s *Service) handleSubscriptionUpdated(ctx context.Context, ev *billing.Event) Result {
	se, err := ev.Subscription()
	if err != nil {
		return terminal(err)
	}
	if se.CustomerID == "" {
		return terminal(fmt.Errorf("subscription event without customer id"))
	}
	if se.PeriodEnd.IsZero() {
		return terminal(fmt.Errorf("subscription event without period end"))
	}

	status, err := s.store.UpdateExpiry(ctx, se.CustomerID, se.PeriodEnd, ev.CreatedAt)
	if err != nil {
		return retryable(fmt.Errorf("update subscription expiry: %w", err))
	}
	switch status {
	case WriteMissing:
		return missingTarget()
	case WriteStale:
		return stale()
	}
	return applied()
}

func (s *Service) handleSubscriptionDeleted(ctx context.Context, ev *billing.Event) Result {
	se, err := ev.Subscription()
	if err != nil {
		return terminal(err)
	}
	if se.CustomerID == "" {
		return terminal(fmt.Errorf("subscription event without customer id"))
	}

	status, err := s.store.Delete(ctx, se.CustomerID, ev.CreatedAt)
	if err != nil {
		return retryable(fmt.Errorf("delete subscription: %w", err))
	}
	switch status {
	case WriteMissing:
		return missingTarget()
	case WriteStale:
		return stale()
	}
	return applied()
}

func (s *Service) saveHandledLog(ctx context.Context, ev *billing.Event, body []byte, res Result) {
	resMap := map[string]any{"outcome": res.Outcome}
	status := models.WebhookEventLogStatusHandled
	if res.Err != nil {
		resMap["error"] = res.Err.Error()
		status = models.WebhookEventLogStatusHandleFailed
	}
	resBytes, _ := json.Marshal(resMap)
	resJSON := datatypes.JSON(resBytes)

	s.events.Save(ctx, &models.WebhookEventLog{
		Provider:  provider,
		EventID:   ev.ID,
		EventType: string(ev.Type),
		TraceID:   traceID(ctx),
		EventAt:   ev.CreatedAt,
		Data:      datatypes.JSON(body),
		Result:    &resJSON,
		Status:    status,
	})
}

func traceID(ctx context.Context) string {
	if tid, ok := ctx.Value("traceID").(string); ok {
		return tid
	}
	return ""
}
