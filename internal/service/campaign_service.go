package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/hebed-ai/hebed/internal/api"
	"github.com/hebed-ai/hebed/internal/auth"
	"github.com/hebed-ai/hebed/internal/model"
	"github.com/hebed-ai/hebed/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// PitchDeckContentType is the only accepted pitch deck format
	PitchDeckContentType = "application/pdf"
)

var (
	listedStatuses = []model.CampaignStatus{model.CampaignPublished, model.CampaignFunded}
	hundred        = decimal.NewFromInt(100)
)

// CampaignServer implements campaign management for startups and browsing for everyone
type CampaignServer struct {
	campaigns campaignStore
	profiles  profileStore
	documents documentStore
	now       func() time.Time
}

var _ api.CampaignServiceHandler = (*CampaignServer)(nil)

func NewCampaignServer(campaigns campaignStore, profiles profileStore, documents documentStore) *CampaignServer {
	return &CampaignServer{
		campaigns: campaigns,
		profiles:  profiles,
		documents: documents,
		now:       time.Now,
	}
}

// CreateCampaign creates a draft campaign owned by the calling startup
func (s *CampaignServer) CreateCampaign(
	ctx context.Context,
	req *connect.Request[api.CreateCampaignRequest],
) (*connect.Response[api.CampaignResponse], error) {
	identity, err := auth.RequireRole(ctx, model.RoleStartup)
	if err != nil {
		return nil, toConnectError(err)
	}

	startup, err := s.profiles.GetStartupProfileByUser(ctx, identity.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.validateCampaign(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	campaign := &model.Campaign{
		StartupProfileID:   startup.ID,
		Title:              strings.TrimSpace(req.Msg.Title),
		Summary:            req.Msg.Summary,
		Industry:           req.Msg.Industry,
		Stage:              req.Msg.Stage,
		GoalCents:          req.Msg.GoalCents,
		MinInvestmentCents: req.Msg.MinInvestmentCents,
		EquityPercent:      req.Msg.EquityPercent,
	}
	if req.Msg.MaxInvestmentCents != nil {
		campaign.MaxInvestmentCents = sql.NullInt64{Int64: *req.Msg.MaxInvestmentCents, Valid: true}
	}
	if req.Msg.Deadline != nil {
		campaign.Deadline = sql.NullTime{Time: *req.Msg.Deadline, Valid: true}
	}

	if err := s.campaigns.CreateCampaign(ctx, campaign); err != nil {
		return nil, toConnectError(err)
	}

	log.WithFields(log.Fields{
		"campaign_id": campaign.ID,
		"startup_id":  startup.ID,
	}).Info("campaign created")

	return connect.NewResponse(&api.CampaignResponse{Campaign: toAPICampaign(campaign)}), nil
}

func (s *CampaignServer) validateCampaign(req *api.CreateCampaignRequest) error {
	switch {
	case strings.TrimSpace(req.Title) == "":
		return fmt.Errorf("title is required: %w", model.ErrValidation)
	case req.GoalCents <= 0:
		return fmt.Errorf("goal must be positive: %w", model.ErrValidation)
	case req.MinInvestmentCents <= 0:
		return fmt.Errorf("minimum investment must be positive: %w", model.ErrValidation)
	case req.MaxInvestmentCents != nil && *req.MaxInvestmentCents < req.MinInvestmentCents:
		return fmt.Errorf("maximum investment is below the minimum: %w", model.ErrValidation)
	case req.MaxInvestmentCents != nil && *req.MaxInvestmentCents > req.GoalCents:
		return fmt.Errorf("maximum investment exceeds the goal: %w", model.ErrValidation)
	case !req.EquityPercent.IsPositive() || req.EquityPercent.GreaterThan(hundred):
		return fmt.Errorf("equity must be within (0, 100]: %w", model.ErrValidation)
	case req.Deadline != nil && !req.Deadline.After(s.now()):
		return fmt.Errorf("deadline must be in the future: %w", model.ErrValidation)
	}
	return nil
}

// PublishCampaign opens a draft campaign for investments
func (s *CampaignServer) PublishCampaign(
	ctx context.Context,
	req *connect.Request[api.CampaignRequest],
) (*connect.Response[api.CampaignResponse], error) {
	campaign, err := ownedCampaign(ctx, s.profiles, s.campaigns, req.Msg.CampaignID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.campaigns.PublishCampaign(ctx, campaign.ID); err != nil {
		return nil, toConnectError(err)
	}
	campaign.Status = model.CampaignPublished

	log.WithField("campaign_id", campaign.ID).Info("campaign published")

	return connect.NewResponse(&api.CampaignResponse{Campaign: s.withPitchDeck(campaign)}), nil
}

// GetCampaign returns a campaign. Drafts are only visible to their owner.
func (s *CampaignServer) GetCampaign(
	ctx context.Context,
	req *connect.Request[api.CampaignRequest],
) (*connect.Response[api.CampaignResponse], error) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	campaign, err := s.campaigns.GetCampaign(ctx, req.Msg.CampaignID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if campaign.Status == model.CampaignDraft && !s.owns(ctx, identity, campaign) {
		return nil, toConnectError(fmt.Errorf("campaign %d: %w", campaign.ID, model.ErrNotFound))
	}

	return connect.NewResponse(&api.CampaignResponse{Campaign: s.withPitchDeck(campaign)}), nil
}

func (s *CampaignServer) owns(ctx context.Context, identity *model.Identity, campaign *model.Campaign) bool {
	if identity.Role != model.RoleStartup {
		return false
	}
	startup, err := s.profiles.GetStartupProfileByUser(ctx, identity.UserID)
	if err != nil {
		return false
	}
	return startup.ID == campaign.StartupProfileID
}

// ListCampaigns pages through published and funded campaigns, newest first
func (s *CampaignServer) ListCampaigns(
	ctx context.Context,
	req *connect.Request[api.ListCampaignsRequest],
) (*connect.Response[api.ListCampaignsResponse], error) {
	if _, err := auth.FromContext(ctx); err != nil {
		return nil, toConnectError(err)
	}

	if req.Msg.PageSize < 0 || req.Msg.Offset < 0 {
		return nil, toConnectError(fmt.Errorf("page size and offset must not be negative: %w", model.ErrValidation))
	}

	pageSize := req.Msg.PageSize
	switch {
	case pageSize == 0:
		pageSize = defaultPageSize
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}

	campaigns, err := s.campaigns.ListCampaigns(ctx, repository.CampaignFilter{
		Industry: req.Msg.Industry,
		Statuses: listedStatuses,
		Limit:    pageSize,
		Offset:   req.Msg.Offset,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, s.withPitchDeck(c))
	}

	return connect.NewResponse(&api.ListCampaignsResponse{Campaigns: out}), nil
}

// withPitchDeck converts a campaign and resolves a fresh link to its pitch deck
func (s *CampaignServer) withPitchDeck(c *model.Campaign) *api.Campaign {
	out := toAPICampaign(c)
	if !c.PitchDeckKey.Valid || s.documents == nil {
		return out
	}

	url, err := s.documents.URL(c.PitchDeckKey.String)
	if err != nil {
		log.WithError(err).WithField("campaign_id", c.ID).Warn("failed to resolve pitch deck url")
		return out
	}
	out.PitchDeckURL = url
	return out
}

// UploadPitchDeck stores a PDF pitch deck for one of the caller's campaigns and returns a link to it
func (s *CampaignServer) UploadPitchDeck(ctx context.Context, campaignID int64, filename, contentType string, reader io.Reader) (string, error) {
	campaign, err := ownedCampaign(ctx, s.profiles, s.campaigns, campaignID)
	if err != nil {
		return "", err
	}

	if contentType != PitchDeckContentType {
		return "", fmt.Errorf("pitch deck must be a PDF, got %s: %w", contentType, model.ErrValidation)
	}

	key, err := s.documents.Upload(ctx, campaign.ID, filename, contentType, reader)
	if err != nil {
		return "", fmt.Errorf("failed to store pitch deck: %w", err)
	}

	if err := s.campaigns.SetPitchDeckKey(ctx, campaign.ID, key); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{"campaign_id": campaign.ID, "key": key}).Info("pitch deck uploaded")
	return s.documents.URL(key)
}
