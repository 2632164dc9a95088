//go:generate mockgen -source=deps.go -destination=deps_mock_test.go -package=service

package service

import (
	"context"
	"io"

	"github.com/hebed-ai/hebed/internal/model"
	"github.com/hebed-ai/hebed/internal/payment"
)

type paymentGateway interface {
	CreatePaymentIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error)
	Refund(ctx context.Context, paymentIntentID string) error
	CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (string, error)
}

type notifier interface {
	InvestmentCreated(p *model.InvestmentParties)
	InvestmentAccepted(p *model.InvestmentParties)
	InvestmentRejected(p *model.InvestmentParties, reason string)
}

type documentStore interface {
	Upload(ctx context.Context, campaignID int64, filename, contentType string, reader io.Reader) (key string, err error)
	URL(key string) (string, error)
}
