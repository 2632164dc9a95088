// Package payment wraps the Stripe API behind the operations the platform needs:
// payment intents for investments, refunds for rejected investments and hosted
// checkout for subscriptions.
package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/hebed-ai/hebed/internal/model"
)

// Metadata keys attached to provider objects and read back from webhooks
const (
	MetaInvestmentID = "investment_id"
	MetaCampaignID   = "campaign_id"
	MetaUserID       = "user_id"
	MetaTier         = "tier"
)

// Intent is the subset of a payment intent the platform stores
type Intent struct {
	ID           string
	ClientSecret string
}

// IntentRequest describes a payment intent for one investment
type IntentRequest struct {
	InvestmentID int64
	CampaignID   int64
	AmountCents  int64
	ReceiptEmail string
	Description  string
}

// CheckoutRequest describes a hosted subscription checkout
type CheckoutRequest struct {
	UserID     string
	Email      string
	Tier       string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// Stripe implements the payment gateway on top of stripe-go
type Stripe struct {
	api      *client.API
	currency string
}

func NewStripe(secretKey, currency string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{api: api, currency: currency}
}

// CreatePaymentIntent requests a payment intent for an investment. The investment id is used
// as idempotency key so a retried request never creates a second charge.
func (s *Stripe) CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.AmountCents),
		Currency:    stripe.String(s.currency),
		Description: stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}
	params.Context = ctx
	params.SetIdempotencyKey(fmt.Sprintf("investment-%d", req.InvestmentID))
	params.AddMetadata(MetaInvestmentID, strconv.FormatInt(req.InvestmentID, 10))
	params.AddMetadata(MetaCampaignID, strconv.FormatInt(req.CampaignID, 10))

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, errors.Wrap(upstream(err), "failed to create payment intent")
	}

	log.WithFields(log.Fields{
		"investment_id":  req.InvestmentID,
		"payment_intent": pi.ID,
	}).Debug("created payment intent")

	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// Refund requests a full refund of a payment intent
func (s *Stripe) Refund(ctx context.Context, paymentIntentID string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + paymentIntentID)

	if _, err := s.api.Refunds.New(params); err != nil {
		return errors.Wrapf(upstream(err), "failed to refund payment intent %s", paymentIntentID)
	}

	return nil
}

// CreateCheckoutSession starts a hosted subscription checkout and returns its redirect URL
func (s *Stripe) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.UserID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				MetaUserID: req.UserID,
				MetaTier:   req.Tier,
			},
		},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx
	params.AddMetadata(MetaUserID, req.UserID)
	params.AddMetadata(MetaTier, req.Tier)

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", errors.Wrap(upstream(err), "failed to create checkout session")
	}

	return session.URL, nil
}

// upstream tags provider errors so callers can map them to an upstream failure
func upstream(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return fmt.Errorf("%w: %s (%s)", model.ErrUpstream, stripeErr.Msg, stripeErr.Code)
	}
	return fmt.Errorf("%w: %v", model.ErrUpstream, err)
}
