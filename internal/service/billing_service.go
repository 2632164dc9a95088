package service

import (
	"context"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	log "github.com/sirupsen/logrus"

	"github.com/hebed-ai/hebed/internal/api"
	"github.com/hebed-ai/hebed/internal/auth"
	"github.com/hebed-ai/hebed/internal/model"
	"github.com/hebed-ai/hebed/internal/payment"
)

// PriceLookup resolves a subscription tier to the provider's price id
type PriceLookup func(tier string) (string, bool)

// BillingServer starts subscription checkouts and reports the mirrored subscription state
type BillingServer struct {
	subscriptions subscriptionStore
	gateway       paymentGateway
	prices        PriceLookup
	publicURL     string
}

var _ api.BillingServiceHandler = (*BillingServer)(nil)

func NewBillingServer(subscriptions subscriptionStore, gateway paymentGateway, prices PriceLookup, publicURL string) *BillingServer {
	return &BillingServer{
		subscriptions: subscriptions,
		gateway:       gateway,
		prices:        prices,
		publicURL:     strings.TrimSuffix(publicURL, "/"),
	}
}

// CreateSubscriptionCheckout opens a hosted checkout for a tier and returns where to redirect the user
func (s *BillingServer) CreateSubscriptionCheckout(
	ctx context.Context,
	req *connect.Request[api.CreateSubscriptionCheckoutRequest],
) (*connect.Response[api.CreateSubscriptionCheckoutResponse], error) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	tier := strings.ToLower(strings.TrimSpace(req.Msg.Tier))
	priceID, ok := s.prices(tier)
	if !ok {
		return nil, toConnectError(fmt.Errorf("unknown subscription tier %q: %w", req.Msg.Tier, model.ErrValidation))
	}

	url, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		UserID:     identity.UserID,
		Email:      identity.Email,
		Tier:       tier,
		PriceID:    priceID,
		SuccessURL: s.publicURL + "/dashboard/billing?checkout=success",
		CancelURL:  s.publicURL + "/pricing?checkout=cancelled",
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	log.WithFields(log.Fields{
		"user_id": identity.UserID,
		"tier":    tier,
	}).Info("subscription checkout started")

	return connect.NewResponse(&api.CreateSubscriptionCheckoutResponse{URL: url}), nil
}

func (s *BillingServer) GetSubscription(
	ctx context.Context,
	_ *connect.Request[api.Empty],
) (*connect.Response[api.SubscriptionResponse], error) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	sub, err := s.subscriptions.GetByUser(ctx, identity.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.SubscriptionResponse{Subscription: &api.Subscription{
		Tier:             sub.Tier,
		Status:           string(sub.Status),
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}}), nil
}
