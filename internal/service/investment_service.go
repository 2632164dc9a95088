package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"connectrpc.com/connect"
	log "github.com/sirupsen/logrus"

	"github.com/hebed-ai/hebed/internal/api"
	"github.com/hebed-ai/hebed/internal/auth"
	"github.com/hebed-ai/hebed/internal/metrics"
	"github.com/hebed-ai/hebed/internal/model"
	"github.com/hebed-ai/hebed/internal/payment"
)

// InvestmentServer implements the investment lifecycle: creation with a payment intent and the
// startup's accept/reject decision
type InvestmentServer struct {
	investments investmentStore
	campaigns   campaignStore
	profiles    profileStore
	gateway     paymentGateway
	notifier    notifier
	now         func() time.Time
}

var _ api.InvestmentServiceHandler = (*InvestmentServer)(nil)

// NewInvestmentServer creates a new InvestmentServer instance
func NewInvestmentServer(
	investments investmentStore,
	campaigns campaignStore,
	profiles profileStore,
	gateway paymentGateway,
	notifier notifier,
) *InvestmentServer {
	return &InvestmentServer{
		investments: investments,
		campaigns:   campaigns,
		profiles:    profiles,
		gateway:     gateway,
		notifier:    notifier,
		now:         time.Now,
	}
}

// CreateInvestment records a pending investment and opens a payment intent for it
func (s *InvestmentServer) CreateInvestment(
	ctx context.Context,
	req *connect.Request[api.CreateInvestmentRequest],
) (*connect.Response[api.CreateInvestmentResponse], error) {
	start := time.Now()
	result := "failed"

	defer func() {
		metrics.RecordCreateInvestmentDuration(result, time.Since(start).Seconds())
	}()

	identity, err := auth.RequireRole(ctx, model.RoleInvestor)
	if err != nil {
		return nil, toConnectError(err)
	}

	investor, err := s.profiles.GetInvestorProfileByUser(ctx, identity.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}

	campaign, err := s.campaigns.GetCampaign(ctx, req.Msg.CampaignID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if !campaign.IsOpen(s.now()) {
		return nil, toConnectError(fmt.Errorf("campaign %d is not accepting investments: %w", campaign.ID, model.ErrValidation))
	}

	if req.Msg.AmountCents <= 0 || !campaign.AcceptsAmount(req.Msg.AmountCents) {
		return nil, toConnectError(fmt.Errorf("amount %d is outside the campaign's investment range: %w", req.Msg.AmountCents, model.ErrValidation))
	}

	investment := &model.Investment{
		CampaignID:        campaign.ID,
		InvestorProfileID: investor.ID,
		AmountCents:       req.Msg.AmountCents,
	}
	if err := s.investments.CreateInvestment(ctx, investment); err != nil {
		return nil, toConnectError(err)
	}

	logger := log.WithFields(log.Fields{
		"investment_id": investment.ID,
		"campaign_id":   campaign.ID,
	})

	intent, err := s.gateway.CreatePaymentIntent(ctx, payment.IntentRequest{
		InvestmentID: investment.ID,
		CampaignID:   campaign.ID,
		AmountCents:  investment.AmountCents,
		ReceiptEmail: identity.Email,
		Description:  "Investment in " + campaign.Title,
	})
	if err != nil {
		// No intent exists, so the row would never be paid
		if delErr := s.investments.DeleteInvestment(context.WithoutCancel(ctx), investment.ID); delErr != nil {
			logger.WithError(delErr).Error("failed to remove investment without payment intent")
		}
		return nil, toConnectError(err)
	}

	if err := s.investments.SetPaymentIntent(ctx, investment.ID, intent.ID); err != nil {
		logger.WithError(err).WithField("payment_intent", intent.ID).Error("failed to link payment intent")
		return nil, toConnectError(err)
	}
	investment.PaymentIntentID = sql.NullString{String: intent.ID, Valid: true}

	if parties, err := s.investments.GetInvestmentParties(ctx, investment.ID); err != nil {
		logger.WithError(err).Warn("failed to load investment parties, skipping notification")
	} else {
		s.notifier.InvestmentCreated(parties)
	}

	logger.Infof("investment of %d cents created", investment.AmountCents)
	result = "success"

	return connect.NewResponse(&api.CreateInvestmentResponse{
		Investment:   toAPIInvestment(investment),
		ClientSecret: intent.ClientSecret,
	}), nil
}

// DecideInvestment applies the campaign owner's accept or reject decision to a pending investment
func (s *InvestmentServer) DecideInvestment(
	ctx context.Context,
	req *connect.Request[api.DecideInvestmentRequest],
) (*connect.Response[api.DecideInvestmentResponse], error) {
	start := time.Now()
	decision := model.Decision(req.Msg.Decision)
	label := string(decision)
	result := "failed"

	defer func() {
		metrics.RecordDecisionDuration(label, result, time.Since(start).Seconds())
	}()

	if decision != model.DecisionAccept && decision != model.DecisionReject {
		label = "invalid"
		return nil, toConnectError(fmt.Errorf("decision must be accept or reject: %w", model.ErrValidation))
	}

	identity, err := auth.RequireRole(ctx, model.RoleStartup)
	if err != nil {
		return nil, toConnectError(err)
	}

	parties, err := s.investments.GetInvestmentParties(ctx, req.Msg.InvestmentID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if parties.OwnerUserID != identity.UserID {
		return nil, toConnectError(fmt.Errorf("investment %d belongs to another startup: %w", parties.ID, model.ErrForbidden))
	}

	if parties.Status != model.InvestmentPending {
		return nil, toConnectError(fmt.Errorf("investment %d is already %s: %w", parties.ID, parties.Status, model.ErrConflict))
	}

	logger := log.WithFields(log.Fields{
		"investment_id": parties.ID,
		"campaign_id":   parties.CampaignID,
		"decision":      decision,
	})

	res := &api.DecideInvestmentResponse{}

	switch decision {
	case model.DecisionAccept:
		raised, err := s.investments.AcceptInvestment(ctx, parties.ID)
		if err != nil {
			return nil, toConnectError(err)
		}
		parties.Status = model.InvestmentAccepted
		parties.DecidedAt = sql.NullTime{Time: s.now(), Valid: true}
		res.CampaignRaisedCents = raised

		s.notifier.InvestmentAccepted(parties)

	case model.DecisionReject:
		if err := s.investments.RejectInvestment(ctx, parties.ID, req.Msg.Reason); err != nil {
			return nil, toConnectError(err)
		}
		parties.Status = model.InvestmentRejected
		parties.DecidedAt = sql.NullTime{Time: s.now(), Valid: true}
		if req.Msg.Reason != "" {
			parties.RejectionReason = sql.NullString{String: req.Msg.Reason, Valid: true}
		}

		// The decision is committed; the refund must not depend on the caller staying connected
		s.refund(context.WithoutCancel(ctx), &parties.Investment, logger)

		if campaign, err := s.campaigns.GetCampaign(ctx, parties.CampaignID); err != nil {
			logger.WithError(err).Warn("failed to reload campaign")
		} else {
			res.CampaignRaisedCents = campaign.RaisedCents
		}

		s.notifier.InvestmentRejected(parties, req.Msg.Reason)
	}

	logger.Info("investment decided")
	result = "success"

	res.Investment = toAPIInvestment(&parties.Investment)
	return connect.NewResponse(res), nil
}

// refund returns a rejected investment's payment. Failures are logged and counted, not returned.
func (s *InvestmentServer) refund(ctx context.Context, investment *model.Investment, logger *log.Entry) {
	if !investment.PaymentIntentID.Valid || investment.PaymentIntentID.String == "" {
		logger.Warn("rejected investment has no payment intent, nothing to refund")
		return
	}

	if err := s.gateway.Refund(ctx, investment.PaymentIntentID.String); err != nil {
		metrics.RecordRefundFailure()
		logger.WithError(err).Error("refund failed, manual follow-up required")
		return
	}

	if err := s.investments.SetPaymentStatus(ctx, investment.ID, model.PaymentRefunded); err != nil {
		logger.WithError(err).Error("refund requested but payment status not stored")
		return
	}
	investment.PaymentStatus = model.PaymentRefunded
}

// ListMyInvestments returns the calling investor's investments
func (s *InvestmentServer) ListMyInvestments(
	ctx context.Context,
	_ *connect.Request[api.Empty],
) (*connect.Response[api.ListInvestmentsResponse], error) {
	identity, err := auth.RequireRole(ctx, model.RoleInvestor)
	if err != nil {
		return nil, toConnectError(err)
	}

	investor, err := s.profiles.GetInvestorProfileByUser(ctx, identity.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}

	investments, err := s.investments.ListByInvestor(ctx, investor.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ListInvestmentsResponse{Investments: toAPIInvestments(investments)}), nil
}

// ListCampaignInvestments returns the investments made against one of the caller's campaigns
func (s *InvestmentServer) ListCampaignInvestments(
	ctx context.Context,
	req *connect.Request[api.ListCampaignInvestmentsRequest],
) (*connect.Response[api.ListInvestmentsResponse], error) {
	campaign, err := ownedCampaign(ctx, s.profiles, s.campaigns, req.Msg.CampaignID)
	if err != nil {
		return nil, toConnectError(err)
	}

	investments, err := s.investments.ListByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ListInvestmentsResponse{Investments: toAPIInvestments(investments)}), nil
}

// ownedCampaign loads a campaign and checks that the calling startup owns it
func ownedCampaign(ctx context.Context, profiles profileStore, campaigns campaignStore, campaignID int64) (*model.Campaign, error) {
	identity, err := auth.RequireRole(ctx, model.RoleStartup)
	if err != nil {
		return nil, err
	}

	startup, err := profiles.GetStartupProfileByUser(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	campaign, err := campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if campaign.StartupProfileID != startup.ID {
		return nil, fmt.Errorf("campaign %d belongs to another startup: %w", campaignID, model.ErrForbidden)
	}

	return campaign, nil
}
