// Package webhook applies payment provider events to investments and subscriptions.
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/hebed-ai/hebed/internal/metrics"
	"github.com/hebed-ai/hebed/internal/model"
	"github.com/hebed-ai/hebed/internal/payment"
)

const (
	maxBodyBytes = 65536

	eventCheckoutCompleted      = "checkout.session.completed"
	eventSubscriptionUpdated    = "customer.subscription.updated"
	eventSubscriptionDeleted    = "customer.subscription.deleted"
	eventInvoicePaymentFailed   = "invoice.payment_failed"
	eventPaymentIntentSucceeded = "payment_intent.succeeded"
	eventPaymentIntentFailed    = "payment_intent.payment_failed"
)

// Outcomes reported to metrics
const (
	outcomeApplied   = "applied"
	outcomeIgnored   = "ignored"
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"
)

type investmentUpdater interface {
	MarkCheckoutCompleted(ctx context.Context, id int64, intentID string) (bool, error)
	SetPaymentStatusByIntent(ctx context.Context, intentID string, status model.PaymentStatus) (bool, error)
}

type subscriptionUpdater interface {
	UpsertSubscription(ctx context.Context, sub *model.Subscription) error
	UpdateStatus(ctx context.Context, providerID string, status model.SubscriptionStatus, periodEnd time.Time) (bool, error)
}

type eventClaimer interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

// Handler verifies and applies Stripe webhook deliveries
type Handler struct {
	secret        string
	investments   investmentUpdater
	subscriptions subscriptionUpdater
	events        eventClaimer
	now           func() time.Time
}

// New creates a webhook handler verifying payloads with the endpoint signing secret.
// events guards against replayed deliveries; pass eventlog.Noop to disable it.
func New(secret string, investments investmentUpdater, subscriptions subscriptionUpdater, events eventClaimer) *Handler {
	return &Handler{
		secret:        secret,
		investments:   investments,
		subscriptions: subscriptions,
		events:        events,
		now:           time.Now,
	}
}

// Handle is the gin handler for POST /webhooks/stripe
func (h *Handler) Handle(c *gin.Context) {
	// Read body to byte array in order to verify signature first
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil || len(body) > maxBodyBytes {
		log.WithError(err).Error("failed to read webhook request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(body, c.GetHeader("Stripe-Signature"), h.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		log.WithError(err).Warn("rejected webhook with invalid signature")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	eventType := string(event.Type)
	logger := log.WithFields(log.Fields{
		"event_id":   event.ID,
		"event_type": eventType,
	})

	ctx := c.Request.Context()

	claimed, err := h.events.Claim(ctx, event.ID)
	if err != nil {
		logger.WithError(err).Error("failed to claim webhook event")
		metrics.RecordWebhookEvent(eventType, outcomeFailed)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event log unavailable"})
		return
	}
	if !claimed {
		logger.Info("duplicate webhook delivery, skipping")
		metrics.RecordWebhookEvent(eventType, outcomeDuplicate)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	applied, err := h.dispatch(ctx, &event)
	if err != nil {
		logger.WithError(err).Error("failed to process webhook event")
		metrics.RecordWebhookEvent(eventType, outcomeFailed)

		if releaseErr := h.events.Release(context.WithoutCancel(ctx), event.ID); releaseErr != nil {
			logger.WithError(releaseErr).Warn("failed to release webhook event claim")
		}

		// A non-2xx answer makes the provider redeliver
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return
	}

	if applied {
		metrics.RecordWebhookEvent(eventType, outcomeApplied)
		logger.Info("processed webhook event")
	} else {
		metrics.RecordWebhookEvent(eventType, outcomeIgnored)
		logger.Debug("webhook event had nothing to apply")
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// dispatch applies one event. It reports whether any row changed.
func (h *Handler) dispatch(ctx context.Context, event *stripe.Event) (bool, error) {
	switch string(event.Type) {
	case eventCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return false, errors.Wrap(err, "failed to decode checkout session")
		}
		return h.checkoutCompleted(ctx, &session)

	case eventSubscriptionUpdated, eventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return false, errors.Wrap(err, "failed to decode subscription")
		}

		status := SubscriptionStatus(sub.Status)
		if string(event.Type) == eventSubscriptionDeleted {
			status = model.SubscriptionCancelled
		}
		if status == "" {
			return false, nil
		}

		return h.subscriptions.UpdateStatus(ctx, sub.ID, status, unix(sub.CurrentPeriodEnd))

	case eventInvoicePaymentFailed:
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return false, errors.Wrap(err, "failed to decode invoice")
		}
		if invoice.Subscription == nil || invoice.Subscription.ID == "" {
			return false, nil
		}
		return h.subscriptions.UpdateStatus(ctx, invoice.Subscription.ID, model.SubscriptionPastDue, time.Time{})

	case eventPaymentIntentSucceeded, eventPaymentIntentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return false, errors.Wrap(err, "failed to decode payment intent")
		}

		status := model.PaymentSucceeded
		if string(event.Type) == eventPaymentIntentFailed {
			status = model.PaymentFailed
		}
		return h.investments.SetPaymentStatusByIntent(ctx, intent.ID, status)

	default:
		return false, nil
	}
}

func (h *Handler) checkoutCompleted(ctx context.Context, session *stripe.CheckoutSession) (bool, error) {
	switch session.Mode {
	case stripe.CheckoutSessionModePayment:
		raw, ok := session.Metadata[payment.MetaInvestmentID]
		if !ok {
			return false, nil
		}
		investmentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.WithField("investment_id", raw).Warn("checkout session carries a malformed investment id")
			return false, nil
		}

		intentID := ""
		if session.PaymentIntent != nil {
			intentID = session.PaymentIntent.ID
		}
		return h.investments.MarkCheckoutCompleted(ctx, investmentID, intentID)

	case stripe.CheckoutSessionModeSubscription:
		userID := session.Metadata[payment.MetaUserID]
		if userID == "" {
			userID = session.ClientReferenceID
		}
		if userID == "" || session.Subscription == nil {
			return false, nil
		}

		sub := &model.Subscription{
			UserID:           userID,
			ProviderID:       session.Subscription.ID,
			Tier:             session.Metadata[payment.MetaTier],
			Status:           model.SubscriptionActive,
			CurrentPeriodEnd: unix(session.Subscription.CurrentPeriodEnd),
		}
		if session.Customer != nil {
			sub.ProviderCustomerID = session.Customer.ID
		}
		// Without an expanded subscription the renewal date is estimated
		if sub.CurrentPeriodEnd.IsZero() {
			sub.CurrentPeriodEnd = h.now().AddDate(0, 1, 0)
		}

		if err := h.subscriptions.UpsertSubscription(ctx, sub); err != nil {
			return false, err
		}
		return true, nil

	default:
		return false, nil
	}
}

// SubscriptionStatus maps a provider status onto the mirrored one. Statuses without a
// counterpart map to "".
func SubscriptionStatus(status stripe.SubscriptionStatus) model.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return model.SubscriptionActive
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return model.SubscriptionPastDue
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusIncompleteExpired:
		return model.SubscriptionCancelled
	default:
		return ""
	}
}

func unix(seconds int64) time.Time {
	if seconds == 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}
